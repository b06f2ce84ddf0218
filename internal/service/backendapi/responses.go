package backendapi

import "StockPulse/internal/domain/models"

// Envelope is the status discriminator every backend response carries. Any
// status other than "success" is a failure for that request.
type Envelope struct {
	Status string `json:"status" validate:"required"`
	Error  string `json:"error,omitempty"`
}

// OK reports whether the response succeeded at the application level.
func (e Envelope) OK() bool {
	return e.Status == "success"
}

// HistoricalResponse is the /api/historical payload.
type HistoricalResponse struct {
	Envelope
	Data               []models.PricePoint        `json:"data" validate:"required,dive"`
	TrendAnalysis      string                     `json:"trend_analysis"`
	PerformanceMetrics *models.PerformanceSummary `json:"performance_metrics"`
	SupportResistance  *models.SupportResistance  `json:"support_resistance"`
}

// SignalsResponse is the /api/trading/signals payload.
type SignalsResponse struct {
	Envelope
	Signals         []models.TradingSignal `json:"signals" validate:"dive"`
	BacktestResults *models.BacktestResult `json:"backtest_results"`
}

// PredictRequest is the body for both prediction endpoints.
type PredictRequest struct {
	Prices []models.PricePoint `json:"prices"`
}

// PredictResponse is the /api/predict payload.
type PredictResponse struct {
	Envelope
	Prediction        float64                   `json:"prediction"`
	TrendAnalysis     string                    `json:"trend_analysis"`
	SupportResistance *models.SupportResistance `json:"support_resistance"`
}

// WeeklyPredictResponse is the /api/predict/weekly payload.
type WeeklyPredictResponse struct {
	Envelope
	WeeklyPredictions []models.ForecastPoint `json:"weekly_predictions" validate:"dive"`
}

// TemporalResponse is the /api/analysis/temporal payload.
type TemporalResponse struct {
	Envelope
	TemporalPatterns *models.TemporalPatterns `json:"temporal_patterns"`
}

// MetricsResponse is the /api/metrics payload.
type MetricsResponse struct {
	Envelope
	Metrics *models.MarketMetrics `json:"metrics"`
}

// RetrainResponse is the /api/retrain payload.
type RetrainResponse struct {
	Envelope
	Message string                 `json:"message,omitempty"`
	Metrics *models.RetrainMetrics `json:"metrics,omitempty"`
}
