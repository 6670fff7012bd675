package introspect

import (
	"crypto/rand"
	"encoding/hex"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/vmihailenco/msgpack/v5"
)

// TraceEvent is one observed protocol record, broadcast to connected
// trace subscribers as it passes through connserver.
type TraceEvent struct {
	Time       time.Time `msgpack:"time"`
	ClientID   uint32    `msgpack:"client_id"`
	Direction  string    `msgpack:"direction"` // "request" or "reply"
	ObjectID   uint32    `msgpack:"object_id"`
	Opcode     uint16    `msgpack:"opcode"`
	PayloadLen int       `msgpack:"payload_len"`
}

// traceSubscriber is one live websocket viewer of the trace feed.
type traceSubscriber struct {
	id   string
	conn *websocket.Conn
	mu   sync.Mutex
}

func (s *traceSubscriber) send(data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conn.WriteMessage(websocket.BinaryMessage, data)
}

// Tracer fans TraceEvents out to every connected subscriber, msgpack-encoded.
type Tracer struct {
	mu          sync.RWMutex
	subscribers map[string]*traceSubscriber
	logger      *slog.Logger
}

// NewTracer returns an empty Tracer.
func NewTracer(logger *slog.Logger) *Tracer {
	return &Tracer{
		subscribers: make(map[string]*traceSubscriber),
		logger:      logger,
	}
}

// Emit encodes event and broadcasts it to every current subscriber.
// Encoding errors and per-subscriber send failures are logged and
// otherwise absorbed — a stalled trace viewer must never affect the
// protocol connections it is observing.
func (t *Tracer) Emit(event TraceEvent) {
	t.mu.RLock()
	if len(t.subscribers) == 0 {
		t.mu.RUnlock()
		return
	}
	subs := make([]*traceSubscriber, 0, len(t.subscribers))
	for _, s := range t.subscribers {
		subs = append(subs, s)
	}
	t.mu.RUnlock()

	data, err := msgpack.Marshal(event)
	if err != nil {
		t.logger.Error("encoding trace event", "error", err)
		return
	}

	for _, s := range subs {
		if err := s.send(data); err != nil {
			t.logger.Debug("trace subscriber send failed", "subscriber", s.id, "error", err)
		}
	}
}

func (t *Tracer) add(conn *websocket.Conn) *traceSubscriber {
	s := &traceSubscriber{id: generateSubscriberID(), conn: conn}
	t.mu.Lock()
	t.subscribers[s.id] = s
	t.mu.Unlock()
	return s
}

func (t *Tracer) remove(id string) {
	t.mu.Lock()
	delete(t.subscribers, id)
	t.mu.Unlock()
}

// subscriberCount reports how many viewers are currently attached.
func (t *Tracer) subscriberCount() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.subscribers)
}

func generateSubscriberID() string {
	b := make([]byte, 8)
	rand.Read(b)
	return hex.EncodeToString(b)
}
