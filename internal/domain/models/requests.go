package models

// Requests for dashboard HTTP endpoints. Defined in domain for consistency
// and reuse.

type DashboardRequest struct {
	SignalsLimit int `query:"signals_limit" json:"signals_limit" default:"0" validate:"gte=0,lte=10000"`
	TradesLimit  int `query:"trades_limit" json:"trades_limit" default:"0" validate:"gte=0,lte=10000"`
}
