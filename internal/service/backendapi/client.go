package backendapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"StockPulse/pkg/config"
	xhttp "StockPulse/pkg/http"
	applogger "StockPulse/pkg/logger"
	"StockPulse/pkg/metrics"
)

// Endpoint paths on the model backend.
const (
	EndpointHistorical    = "/api/historical"
	EndpointSignals       = "/api/trading/signals"
	EndpointPredict       = "/api/predict"
	EndpointPredictWeekly = "/api/predict/weekly"
	EndpointTemporal      = "/api/analysis/temporal"
	EndpointMetrics       = "/api/metrics"
	EndpointRetrain       = "/api/retrain"
)

// Client talks to the Python model backend over HTTP.
type Client struct {
	baseURL  string
	http     *xhttp.Client
	attempts int
	rec      *metrics.Recorder
	log      *applogger.Logger
}

// New builds a backend client with timeout and base URL from config.
func New(cfg *config.Config, rec *metrics.Recorder, log *applogger.Logger) *Client {
	timeout := cfg.Backend.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	attempts := cfg.Backend.RetryAttempts
	if attempts < 1 {
		attempts = 1
	}
	return &Client{
		baseURL:  cfg.Backend.BaseURL,
		http:     xhttp.NewClient(xhttp.WithTimeout(timeout)),
		attempts: attempts,
		rec:      rec,
		log:      log,
	}
}

// Historical fetches the full price history with trend analysis.
func (c *Client) Historical(ctx context.Context) (*HistoricalResponse, error) {
	var resp HistoricalResponse
	if err := c.call(ctx, xhttp.MethodGet, EndpointHistorical, nil, &resp, &resp.Envelope); err != nil {
		return nil, err
	}
	return &resp, nil
}

// TradingSignals fetches rule-based signals and the backtest trade log.
func (c *Client) TradingSignals(ctx context.Context) (*SignalsResponse, error) {
	var resp SignalsResponse
	if err := c.call(ctx, xhttp.MethodGet, EndpointSignals, nil, &resp, &resp.Envelope); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Temporal fetches calendar-bucketed close-price aggregates.
func (c *Client) Temporal(ctx context.Context) (*TemporalResponse, error) {
	var resp TemporalResponse
	if err := c.call(ctx, xhttp.MethodGet, EndpointTemporal, nil, &resp, &resp.Envelope); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Metrics fetches current market metrics.
func (c *Client) Metrics(ctx context.Context) (*MetricsResponse, error) {
	var resp MetricsResponse
	if err := c.call(ctx, xhttp.MethodGet, EndpointMetrics, nil, &resp, &resp.Envelope); err != nil {
		return nil, err
	}
	return &resp, nil
}

// PredictDaily posts the normalized price series for a next-day prediction.
func (c *Client) PredictDaily(ctx context.Context, req *PredictRequest) (*PredictResponse, error) {
	var resp PredictResponse
	if err := c.call(ctx, xhttp.MethodPost, EndpointPredict, req, &resp, &resp.Envelope); err != nil {
		return nil, err
	}
	return &resp, nil
}

// PredictWeekly posts the normalized price series for a one-week forecast.
func (c *Client) PredictWeekly(ctx context.Context, req *PredictRequest) (*WeeklyPredictResponse, error) {
	var resp WeeklyPredictResponse
	if err := c.call(ctx, xhttp.MethodPost, EndpointPredictWeekly, req, &resp, &resp.Envelope); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Retrain triggers a one-shot backend model retraining run.
func (c *Client) Retrain(ctx context.Context) (*RetrainResponse, error) {
	var resp RetrainResponse
	if err := c.call(ctx, xhttp.MethodPost, EndpointRetrain, nil, &resp, &resp.Envelope); err != nil {
		return nil, err
	}
	return &resp, nil
}

// call performs one request with retry for transient transport errors,
// classifies failures, and enforces the status discriminator plus schema
// validation on success.
func (c *Client) call(ctx context.Context, method, path string, body, dest interface{}, env *Envelope) error {
	var err error
	for i := 1; i <= c.attempts; i++ {
		err = c.doOnce(ctx, method, path, body, dest, env)
		if err == nil {
			return nil
		}
		var be *Error
		if errors.As(err, &be) && be.Kind != KindNetwork {
			// Only transport failures are worth retrying.
			break
		}
		if i < c.attempts {
			c.log.Warn("retrying backend call",
				applogger.String("endpoint", path),
				applogger.Int("attempt", i),
				applogger.Error(err),
			)
			select {
			case <-time.After(time.Duration(i) * 50 * time.Millisecond):
			case <-ctx.Done():
				return newError(KindNetwork, path, ctx.Err())
			}
		}
	}
	return err
}

func (c *Client) doOnce(ctx context.Context, method, path string, body, dest interface{}, env *Envelope) error {
	start := time.Now()
	err := c.http.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: method,
		URL:    c.baseURL + path,
		Body:   body,
	}, dest)
	c.rec.RecordFetchLatency(path, time.Since(start).Seconds())

	if err != nil {
		ferr := classify(path, err)
		c.rec.RecordFetch(path, "error")
		c.rec.RecordError(string(ferr.Kind))
		return ferr
	}

	if !env.OK() {
		msg := env.Error
		if msg == "" {
			msg = fmt.Sprintf("status %q", env.Status)
		}
		c.rec.RecordFetch(path, "error")
		c.rec.RecordError(string(KindApplication))
		return newError(KindApplication, path, errors.New(msg))
	}

	if err := xhttp.ValidateStruct(ctx, dest); err != nil {
		c.rec.RecordFetch(path, "error")
		c.rec.RecordError(string(KindApplication))
		return newError(KindApplication, path, fmt.Errorf("response schema: %w", err))
	}

	c.rec.RecordFetch(path, "success")
	return nil
}

func classify(path string, err error) *Error {
	var statusErr *xhttp.StatusError
	if errors.As(err, &statusErr) {
		return newError(KindStatus, path, err)
	}

	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) || errors.Is(err, io.ErrUnexpectedEOF) {
		return newError(KindDecode, path, err)
	}

	return newError(KindNetwork, path, err)
}
