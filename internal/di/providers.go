package di

import (
	"fmt"

	handlerapi "StockPulse/internal/handler/api"
	"StockPulse/internal/service/backendapi"
	"StockPulse/internal/usecase"
	"StockPulse/pkg/cache"
	"StockPulse/pkg/config"
	xhttp "StockPulse/pkg/http"
	applogger "StockPulse/pkg/logger"
	"StockPulse/pkg/metrics"
	"StockPulse/pkg/server"
)

// ProvideLogger creates the application logger.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	l, err := applogger.New(&applogger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	})
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	return l, nil
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() *metrics.Recorder {
	return metrics.New()
}

// ProvideBackendClient creates the model backend HTTP client.
func ProvideBackendClient(cfg *config.Config, rec *metrics.Recorder, log *applogger.Logger) *backendapi.Client {
	return backendapi.New(cfg, rec, log)
}

// ProvideOrchestrator creates the dashboard fetch orchestrator.
func ProvideOrchestrator(api *backendapi.Client, rec *metrics.Recorder, log *applogger.Logger) *usecase.Orchestrator {
	return usecase.NewOrchestrator(api, rec, log)
}

// ProvideViewAssembler creates the view assembler with its cache.
func ProvideViewAssembler(cfg *config.Config) *usecase.ViewAssembler {
	c := cache.NewMemoryCache(cache.WithMaxSize(64))
	return usecase.NewViewAssembler(c, cfg.Dashboard.ViewCacheTTL)
}

// ProvideHandler creates the Echo route handler.
func ProvideHandler(log *applogger.Logger, orch *usecase.Orchestrator, assembler *usecase.ViewAssembler) xhttp.Handler {
	return handlerapi.NewDashboardEchoHandler(log, orch, assembler)
}

// ProvideApp creates the application server.
func ProvideApp(cfg *config.Config, log *applogger.Logger, orch *usecase.Orchestrator, handler xhttp.Handler) *server.App {
	return server.New(cfg, log, orch, handler)
}
