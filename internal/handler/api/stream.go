package api

import (
	"net/http"
	"time"

	xlogger "StockPulse/pkg/logger"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
)

const streamPingInterval = 30 * time.Second

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	// The dashboard is same-origin in production; CORS already gates the API.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Stream pushes every state transition to the browser over a WebSocket so
// the dashboard does not have to poll while a cycle is loading.
func (h *DashboardEchoHandler) Stream(c echo.Context) error {
	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}
	defer conn.Close()

	snapshots, cancel := h.orch.Subscribe()
	defer cancel()

	// Discard inbound frames but notice the peer going away.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	send := func(v interface{}) error {
		_ = conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
		return conn.WriteJSON(v)
	}

	// Current state first so a reconnecting client is immediately whole.
	if view, err := h.assembler.Build(h.orch.Snapshot()); err == nil {
		if err := send(view); err != nil {
			return nil
		}
	}

	ticker := time.NewTicker(streamPingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return nil
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return nil
			}
		case snap, ok := <-snapshots:
			if !ok {
				return nil
			}
			view, err := h.assembler.Build(snap)
			if err != nil {
				h.logger.Error("stream view assembly error", xlogger.Error(err))
				continue
			}
			if err := send(view); err != nil {
				return nil
			}
		}
	}
}
