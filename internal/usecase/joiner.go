package usecase

import (
	"StockPulse/internal/domain/models"

	"github.com/moznion/go-optional"
)

type signalKey struct {
	date   string
	action models.Action
}

// JoinSignals merges trading signals onto a price series by exact normalized
// date. Each point gets at most one buy and one sell marker; absence is
// None, never zero. Signals are pre-indexed so the join is O(n+m) for series
// and signal counts in the thousands. When two signals share a (date, action)
// pair the first one in response order wins.
func JoinSignals(series []models.PricePoint, signals []models.TradingSignal) []models.ChartPoint {
	index := make(map[signalKey]float64, len(signals))
	for _, s := range signals {
		k := signalKey{date: s.Date, action: s.Action}
		if _, ok := index[k]; ok {
			continue
		}
		index[k] = s.Price
	}

	out := make([]models.ChartPoint, 0, len(series))
	for _, p := range series {
		cp := models.ChartPoint{
			PricePoint: p,
			Buy:        optional.None[float64](),
			Sell:       optional.None[float64](),
		}
		if v, ok := index[signalKey{date: p.Date, action: models.ActionBuy}]; ok {
			cp.Buy = optional.Some(v)
		}
		if v, ok := index[signalKey{date: p.Date, action: models.ActionSell}]; ok {
			cp.Sell = optional.Some(v)
		}
		out = append(out, cp)
	}
	return out
}
