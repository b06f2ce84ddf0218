package models

// ForecastPoint is one model-predicted future price. Dates may land on
// non-trading calendar days and are remapped before display.
type ForecastPoint struct {
	Date       string  `json:"date" validate:"required"`
	Price      float64 `json:"price"`
	Confidence float64 `json:"confidence" validate:"gte=0,lte=1"`
}

// ForecastView is a remapped forecast point annotated with its
// point-to-point expected change for display.
type ForecastView struct {
	ForecastPoint
	ChangePercent float64 `json:"change_percent"`
}

// RetrainMetrics reports the outcome of a backend retraining run.
type RetrainMetrics struct {
	Loss          float64  `json:"loss"`
	ValLoss       *float64 `json:"val_loss"`
	EpochsTrained int      `json:"epochs_trained"`
}
