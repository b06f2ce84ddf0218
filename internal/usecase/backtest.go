package usecase

import (
	"StockPulse/internal/domain/models"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// TradeProfitLoss returns the signed profit or loss of one backtest trade.
// The upstream convention is value minus price for a sell and price minus
// value for a buy; whether "value" means proceeds or cost basis is the
// backend's modeling choice and is preserved as-is here.
func TradeProfitLoss(t models.Trade) float64 {
	price := decimal.NewFromFloat(t.Price)
	value := decimal.NewFromFloat(t.Value)
	if t.Action == models.ActionSell {
		return value.Sub(price).InexactFloat64()
	}
	return price.Sub(value).InexactFloat64()
}

// tradeProfitable reports whether a trade counts toward the success rate.
func tradeProfitable(t models.Trade) bool {
	switch t.Action {
	case models.ActionSell:
		return t.Value > t.Price
	case models.ActionBuy:
		return t.Value < t.Price
	default:
		return false
	}
}

// SummarizeBacktest derives aggregate performance figures from a raw
// backtest result. Zero denominators report as zero, never NaN or Inf.
func SummarizeBacktest(r *models.BacktestResult) models.BacktestSummary {
	if r == nil {
		return models.BacktestSummary{}
	}

	initial := decimal.NewFromFloat(r.InitialCapital)
	final := decimal.NewFromFloat(r.FinalValue)
	profit := final.Sub(initial)

	summary := models.BacktestSummary{
		TotalProfit: profit.InexactFloat64(),
	}

	if initial.IsPositive() {
		summary.ReturnPercentage = profit.Div(initial).Mul(hundred).InexactFloat64()
	}

	if len(r.Trades) > 0 {
		profitable := 0
		for _, t := range r.Trades {
			if tradeProfitable(t) {
				profitable++
			}
		}
		rate := decimal.NewFromInt(int64(profitable)).
			Div(decimal.NewFromInt(int64(len(r.Trades)))).
			Mul(hundred)
		summary.SuccessRate = rate.InexactFloat64()
	}

	return summary
}

// BuildTradeViews annotates each trade with its signed profit/loss for the
// recent-trades table.
func BuildTradeViews(trades []models.Trade) []models.TradeView {
	out := make([]models.TradeView, 0, len(trades))
	for _, t := range trades {
		out = append(out, models.TradeView{
			Trade:      t,
			ProfitLoss: TradeProfitLoss(t),
		})
	}
	return out
}
