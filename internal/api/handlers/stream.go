package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/wonny/fairvalue/internal/analysis"
	"github.com/wonny/fairvalue/internal/ratios"
)

const writeWait = 10 * time.Second

// Stream event types
const (
	EventProgress = "progress"
	EventResult   = "result"
	EventError    = "error"
)

// StreamEvent is one websocket message of /ws/valuation
type StreamEvent struct {
	Type     string           `json:"type"`
	Progress *ratios.Progress `json:"progress,omitempty"`
	Report   *analysis.Report `json:"report,omitempty"`
	Error    string           `json:"error,omitempty"`
	Status   int              `json:"status,omitempty"`
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// StreamValuation streams per-ticker progress, then the result, then closes
// GET /ws/valuation?tickers=GOOGL,AAPL
func (h *ValuationHandler) StreamValuation(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("tickers")

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.WithError(err).Warn("WebSocket upgrade failed")
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	// A client close cancels the analysis
	go func() {
		for {
			if _, _, err := conn.NextReader(); err != nil {
				cancel()
				return
			}
		}
	}()

	// progress runs on a single goroutine, so writes never overlap
	send := func(ev StreamEvent) error {
		conn.SetWriteDeadline(time.Now().Add(writeWait))
		return conn.WriteJSON(ev)
	}

	rep, err := h.analyzer.Analyze(ctx, raw, func(p ratios.Progress) {
		if err := send(StreamEvent{Type: EventProgress, Progress: &p}); err != nil {
			cancel()
		}
	})

	if err != nil {
		status := statusFor(err)
		msg := err.Error()
		if status == http.StatusInternalServerError {
			h.logger.WithError(err).Error("Streamed valuation failed")
			msg = "Internal server error"
		}
		send(StreamEvent{Type: EventError, Error: msg, Status: status})
	} else {
		send(StreamEvent{Type: EventResult, Report: rep})
	}

	conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(writeWait))
}
