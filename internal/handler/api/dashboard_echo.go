package api

import (
	"net/http"

	"StockPulse/internal/domain/models"
	"StockPulse/internal/usecase"
	xhttp "StockPulse/pkg/http"
	xlogger "StockPulse/pkg/logger"

	"github.com/labstack/echo/v4"
)

// DashboardEchoHandler serves the dashboard state to the browser.
type DashboardEchoHandler struct {
	logger    *xlogger.Logger
	orch      *usecase.Orchestrator
	assembler *usecase.ViewAssembler
}

func NewDashboardEchoHandler(logger *xlogger.Logger, orch *usecase.Orchestrator, assembler *usecase.ViewAssembler) *DashboardEchoHandler {
	return &DashboardEchoHandler{logger: logger, orch: orch, assembler: assembler}
}

func (h *DashboardEchoHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", h.Health)

	g := e.Group("/api/dashboard")
	g.GET("", h.Dashboard)
	g.POST("/refresh", h.Refresh)
	g.POST("/retrain", h.Retrain)
	g.GET("/stream", h.Stream)
}

func (h *DashboardEchoHandler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// Dashboard returns the current assembled view.
func (h *DashboardEchoHandler) Dashboard(c echo.Context) error {
	req := &models.DashboardRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	view, err := h.assembler.Build(h.orch.Snapshot())
	if err != nil {
		h.logger.Error("view assembly error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, xhttp.InternalError("could not assemble dashboard view").WithError(err))
	}

	return xhttp.SuccessResponse(c, limitView(view, req))
}

// Refresh starts a new full fetch cycle. Retrying after a failure goes
// through here too; there is no partial retry of a single fetch.
func (h *DashboardEchoHandler) Refresh(c echo.Context) error {
	gen := h.orch.Refresh()
	h.logger.Info("refresh requested", xlogger.Int64("generation", gen))
	return xhttp.AcceptedResponse(c, map[string]interface{}{
		"generation": gen,
		"state":      models.StateLoading,
	})
}

// Retrain triggers backend model retraining. On success a full refresh is
// started; on failure the currently displayed data stays as it is.
func (h *DashboardEchoHandler) Retrain(c echo.Context) error {
	metrics, err := h.orch.Retrain(c.Request().Context())
	if err != nil {
		return xhttp.AppErrorResponse(c, xhttp.UpstreamError("model retraining failed").WithError(err))
	}
	return xhttp.SuccessResponse(c, map[string]interface{}{
		"metrics":   metrics,
		"refreshed": true,
	})
}

// limitView applies optional signal/trade limits on a shallow copy so the
// cached view is never mutated.
func limitView(view *models.DashboardView, req *models.DashboardRequest) *models.DashboardView {
	if req.SignalsLimit <= 0 && req.TradesLimit <= 0 {
		return view
	}
	limited := *view
	if req.SignalsLimit > 0 && len(limited.Signals) > req.SignalsLimit {
		limited.Signals = limited.Signals[:req.SignalsLimit]
	}
	if req.TradesLimit > 0 && len(limited.Trades) > req.TradesLimit {
		limited.Trades = limited.Trades[:req.TradesLimit]
	}
	return &limited
}
