package usecase

import (
	"fmt"
	"sort"

	"StockPulse/internal/domain/models"
	"StockPulse/pkg/util"
)

// NormalizeSeries canonicalizes dates, fills absent OHLV fields, sorts the
// series ascending by date, and drops duplicate dates keeping the first
// occurrence. The result satisfies the series invariant: unique dates in
// ascending chronological order.
func NormalizeSeries(points []models.PricePoint) ([]models.PricePoint, error) {
	out := make([]models.PricePoint, 0, len(points))
	for _, p := range points {
		day, err := util.NormalizeDay(p.Date)
		if err != nil {
			return nil, fmt.Errorf("price point: %w", err)
		}
		p.Date = day
		// A zero open/high/low means the backend omitted the column.
		if p.Open == 0 {
			p.Open = p.Close
		}
		if p.High == 0 {
			p.High = p.Close
		}
		if p.Low == 0 {
			p.Low = p.Close
		}
		out = append(out, p)
	}

	// Canonical dates sort lexicographically in chronological order.
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date < out[j].Date
	})

	deduped := out[:0]
	for _, p := range out {
		if n := len(deduped); n > 0 && deduped[n-1].Date == p.Date {
			continue
		}
		deduped = append(deduped, p)
	}
	return deduped, nil
}

// NormalizeSignals canonicalizes every signal date.
func NormalizeSignals(signals []models.TradingSignal) ([]models.TradingSignal, error) {
	out := make([]models.TradingSignal, 0, len(signals))
	for _, s := range signals {
		day, err := util.NormalizeDay(s.Date)
		if err != nil {
			return nil, fmt.Errorf("trading signal: %w", err)
		}
		s.Date = day
		out = append(out, s)
	}
	return out, nil
}

// NormalizeForecast canonicalizes every forecast date without shifting
// non-trading days; the display-time remap does that.
func NormalizeForecast(points []models.ForecastPoint) ([]models.ForecastPoint, error) {
	out := make([]models.ForecastPoint, 0, len(points))
	for _, p := range points {
		day, err := util.NormalizeDay(p.Date)
		if err != nil {
			return nil, fmt.Errorf("forecast point: %w", err)
		}
		p.Date = day
		out = append(out, p)
	}
	return out, nil
}
