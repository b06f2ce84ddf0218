package models

// Action is a trading signal direction.
type Action string

const (
	ActionBuy  Action = "buy"
	ActionSell Action = "sell"
)

// TradingSignal is a timestamped buy/sell recommendation with supporting
// indicator values. A signal's date is not guaranteed to exist in the price
// series.
type TradingSignal struct {
	Date       string             `json:"date" validate:"required"`
	Action     Action             `json:"action" validate:"required,oneof=buy sell"`
	Price      float64            `json:"price"`
	Confidence float64            `json:"confidence" validate:"gte=0,lte=1"`
	Indicators map[string]float64 `json:"indicators"`
}

// Trade is one executed trade from the backend backtest simulation.
type Trade struct {
	Date   string  `json:"date"`
	Action Action  `json:"action" validate:"required,oneof=buy sell"`
	Price  float64 `json:"price"`
	Value  float64 `json:"value"`
	Shares float64 `json:"shares,omitempty"`
}

// BacktestResult is the raw trade log and resulting portfolio value.
type BacktestResult struct {
	InitialCapital float64 `json:"initial_capital"`
	FinalValue     float64 `json:"final_value"`
	Trades         []Trade `json:"trades"`
}

// BacktestSummary holds derived aggregate performance figures.
type BacktestSummary struct {
	TotalProfit      float64 `json:"total_profit"`
	ReturnPercentage float64 `json:"return_percentage"`
	SuccessRate      float64 `json:"success_rate"`
}

// TradeView is a Trade annotated with its signed profit/loss for display.
type TradeView struct {
	Trade
	ProfitLoss float64 `json:"profit_loss"`
}
