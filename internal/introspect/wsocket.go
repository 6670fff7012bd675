package introspect

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"
)

var traceUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// TraceHandler upgrades HTTP requests to websocket connections and
// registers them as Tracer subscribers.
type TraceHandler struct {
	tracer *Tracer
	logger *slog.Logger
}

// NewTraceHandler returns a TraceHandler publishing from tracer.
func NewTraceHandler(tracer *Tracer, logger *slog.Logger) *TraceHandler {
	return &TraceHandler{tracer: tracer, logger: logger}
}

func (h *TraceHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := traceUpgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("trace websocket upgrade failed", "error", err)
		return
	}

	sub := h.tracer.add(conn)
	h.logger.Debug("trace subscriber connected", "subscriber", sub.id)

	go h.readPump(sub)
}

// readPump drains (and discards) client frames so the connection's
// control frames (ping/close) are still processed; the trace feed is
// one-directional, the subscriber never sends meaningful data.
func (h *TraceHandler) readPump(sub *traceSubscriber) {
	defer func() {
		h.tracer.remove(sub.id)
		sub.conn.Close()
		h.logger.Debug("trace subscriber disconnected", "subscriber", sub.id)
	}()

	for {
		if _, _, err := sub.conn.ReadMessage(); err != nil {
			return
		}
	}
}
