package models

// PricePoint is one day of OHLCV history for the tracked instrument.
// JSON tags follow the upstream contract: the prediction endpoints expect
// the same capitalized keys the historical endpoint produces.
type PricePoint struct {
	Date   string  `json:"Date" validate:"required"`
	Open   float64 `json:"Open"`
	High   float64 `json:"High"`
	Low    float64 `json:"Low"`
	Close  float64 `json:"Close"`
	Volume float64 `json:"Volume"`
}

// MarketMetrics is a pass-through aggregate from the backend.
type MarketMetrics struct {
	CurrentPrice       float64 `json:"current_price"`
	DailyChange        float64 `json:"daily_change"`
	DailyChangePercent float64 `json:"daily_change_percent"`
	WeeklyHigh         float64 `json:"weekly_high"`
	WeeklyLow          float64 `json:"weekly_low"`
	MonthlyHigh        float64 `json:"monthly_high"`
	MonthlyLow         float64 `json:"monthly_low"`
	AverageVolume      float64 `json:"average_volume"`
}

// DayPerformance describes a single best or worst trading day.
type DayPerformance struct {
	Date   string  `json:"date"`
	Return float64 `json:"return"`
	Close  float64 `json:"close"`
}

// PerformanceSummary holds the best and worst performing days.
type PerformanceSummary struct {
	BestDay  DayPerformance `json:"best_day"`
	WorstDay DayPerformance `json:"worst_day"`
}

// SupportResistance holds historically significant price levels.
type SupportResistance struct {
	SupportLevels    []float64 `json:"support_levels"`
	ResistanceLevels []float64 `json:"resistance_levels"`
}

// TemporalBucket is one aggregation bucket of closing prices.
type TemporalBucket struct {
	Mean float64 `json:"mean"`
	Max  float64 `json:"max"`
	Min  float64 `json:"min"`
}

// TemporalPatterns groups close-price aggregates by calendar period.
type TemporalPatterns struct {
	Daily   map[string]TemporalBucket `json:"daily"`
	Weekly  map[string]TemporalBucket `json:"weekly"`
	Monthly map[string]TemporalBucket `json:"monthly"`
}
