package usecase

import (
	"testing"

	"StockPulse/internal/domain/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummarizeBacktest(t *testing.T) {
	r := &models.BacktestResult{
		InitialCapital: 1000,
		FinalValue:     1200,
		Trades: []models.Trade{
			{Action: models.ActionSell, Price: 100, Value: 110},
			{Action: models.ActionBuy, Price: 100, Value: 105},
		},
	}

	s := SummarizeBacktest(r)
	assert.Equal(t, 200.0, s.TotalProfit)
	assert.InDelta(t, 20.0, s.ReturnPercentage, 1e-9)
	assert.InDelta(t, 50.0, s.SuccessRate, 1e-9)
}

func TestSummarizeBacktestZeroInitialCapital(t *testing.T) {
	s := SummarizeBacktest(&models.BacktestResult{
		InitialCapital: 0,
		FinalValue:     500,
	})
	assert.Equal(t, 500.0, s.TotalProfit)
	assert.Equal(t, 0.0, s.ReturnPercentage)
	assert.Equal(t, 0.0, s.SuccessRate)
}

func TestSummarizeBacktestNil(t *testing.T) {
	s := SummarizeBacktest(nil)
	assert.Equal(t, models.BacktestSummary{}, s)
}

func TestTradeProfitLoss(t *testing.T) {
	sell := models.Trade{Action: models.ActionSell, Price: 100, Value: 112.5}
	assert.InDelta(t, 12.5, TradeProfitLoss(sell), 1e-9)

	buy := models.Trade{Action: models.ActionBuy, Price: 100, Value: 95}
	assert.InDelta(t, 5.0, TradeProfitLoss(buy), 1e-9)

	losingBuy := models.Trade{Action: models.ActionBuy, Price: 100, Value: 108}
	assert.InDelta(t, -8.0, TradeProfitLoss(losingBuy), 1e-9)
}

func TestBuildTradeViews(t *testing.T) {
	trades := []models.Trade{
		{Date: "2024-01-02", Action: models.ActionSell, Price: 100, Value: 110},
		{Date: "2024-01-03", Action: models.ActionBuy, Price: 100, Value: 105},
	}

	views := BuildTradeViews(trades)
	require.Len(t, views, 2)
	assert.InDelta(t, 10.0, views[0].ProfitLoss, 1e-9)
	assert.InDelta(t, -5.0, views[1].ProfitLoss, 1e-9)

	assert.Empty(t, BuildTradeViews(nil))
}
