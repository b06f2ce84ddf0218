package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"StockPulse/internal/domain/models"
	"StockPulse/internal/service/backendapi"
	"StockPulse/internal/usecase"
	"StockPulse/pkg/cache"
	"StockPulse/pkg/config"
	applogger "StockPulse/pkg/logger"
	"StockPulse/pkg/metrics"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type apiEnvelope struct {
	Status  int             `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func newTestEcho(t *testing.T, backendURL string) *echo.Echo {
	t.Helper()
	cfg := &config.Config{}
	cfg.Backend.BaseURL = backendURL
	cfg.Backend.Timeout = 2 * time.Second
	cfg.Backend.RetryAttempts = 1

	rec := metrics.NewWithRegistry(prometheus.NewRegistry())
	log := applogger.Nop()
	orch := usecase.NewOrchestrator(backendapi.New(cfg, rec, log), rec, log)
	t.Cleanup(orch.Close)

	assembler := usecase.NewViewAssembler(cache.NewMemoryCache(), time.Second)
	h := NewDashboardEchoHandler(log, orch, assembler)

	e := echo.New()
	h.RegisterRoutes(e)
	return e
}

func doRequest(e *echo.Echo, method, target string) (*httptest.ResponseRecorder, apiEnvelope) {
	req := httptest.NewRequest(method, target, nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	var env apiEnvelope
	_ = json.Unmarshal(rec.Body.Bytes(), &env)
	return rec, env
}

func TestHealth(t *testing.T) {
	e := newTestEcho(t, "http://127.0.0.1:1")

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestDashboardIdle(t *testing.T) {
	e := newTestEcho(t, "http://127.0.0.1:1")

	rec, env := doRequest(e, http.MethodGet, "/api/dashboard")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, http.StatusOK, env.Status)

	var view models.DashboardView
	require.NoError(t, json.Unmarshal(env.Data, &view))
	assert.Equal(t, models.StateIdle, view.State)
	assert.Empty(t, view.Chart)
	assert.Empty(t, view.Trades)
	assert.False(t, view.DailyPrediction.IsSome())
	assert.False(t, view.LastClose.IsSome())
}

func TestDashboardRejectsNegativeLimit(t *testing.T) {
	e := newTestEcho(t, "http://127.0.0.1:1")

	_, env := doRequest(e, http.MethodGet, "/api/dashboard?signals_limit=-1")
	assert.Equal(t, http.StatusBadRequest, env.Status)
}

func TestRefreshAccepted(t *testing.T) {
	e := newTestEcho(t, "http://127.0.0.1:1")

	_, env := doRequest(e, http.MethodPost, "/api/dashboard/refresh")
	assert.Equal(t, http.StatusAccepted, env.Status)

	var data struct {
		Generation int64             `json:"generation"`
		State      models.FetchState `json:"state"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Equal(t, int64(1), data.Generation)
	assert.Equal(t, models.StateLoading, data.State)
}

func TestRetrain(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == backendapi.EndpointRetrain {
			w.Write([]byte(`{"status":"success","message":"done","metrics":{"loss":0.01,"epochs_trained":12}}`))
			return
		}
		// The follow-up refresh cycle is irrelevant to this response.
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	t.Cleanup(backend.Close)

	e := newTestEcho(t, backend.URL)

	_, env := doRequest(e, http.MethodPost, "/api/dashboard/retrain")
	require.Equal(t, http.StatusOK, env.Status)

	var data struct {
		Metrics   *models.RetrainMetrics `json:"metrics"`
		Refreshed bool                   `json:"refreshed"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	require.NotNil(t, data.Metrics)
	assert.Equal(t, 12, data.Metrics.EpochsTrained)
	assert.True(t, data.Refreshed)
}

func TestRetrainUpstreamFailure(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	t.Cleanup(backend.Close)

	e := newTestEcho(t, backend.URL)

	_, env := doRequest(e, http.MethodPost, "/api/dashboard/retrain")
	assert.Equal(t, http.StatusBadGateway, env.Status)
}

func TestLimitViewCopies(t *testing.T) {
	view := &models.DashboardView{
		Signals: []models.TradingSignal{
			{Date: "2024-01-01", Action: models.ActionBuy},
			{Date: "2024-01-02", Action: models.ActionSell},
			{Date: "2024-01-03", Action: models.ActionBuy},
		},
		Trades: []models.TradeView{
			{Trade: models.Trade{Date: "2024-01-01"}},
			{Trade: models.Trade{Date: "2024-01-02"}},
		},
	}

	limited := limitView(view, &models.DashboardRequest{SignalsLimit: 2, TradesLimit: 1})
	assert.Len(t, limited.Signals, 2)
	assert.Len(t, limited.Trades, 1)

	// The original cached view stays intact.
	assert.Len(t, view.Signals, 3)
	assert.Len(t, view.Trades, 2)

	same := limitView(view, &models.DashboardRequest{})
	assert.Same(t, view, same)
}
