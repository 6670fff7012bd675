// Package connserver implements the accept loop and per-connection task
// described in spec.md §5: a cooperative, task-per-connection design in
// which each accepted socket gets an independent goroutine with its own
// frame decoder, object table, and protocol engine — no state or locks
// are shared across connections.
package connserver

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net"
	"sync/atomic"
	"time"

	"github.com/winpipe-go/winpipe/internal/introspect"
	"github.com/winpipe-go/winpipe/internal/presenter"
	"github.com/winpipe-go/winpipe/internal/protoengine"
	"github.com/winpipe-go/winpipe/internal/registry"
	"github.com/winpipe-go/winpipe/internal/wire"
)

// readBufferSize is the chunk size used for each transport read.
const readBufferSize = 65536

// Server accepts display-protocol connections on a TCP listener and
// drives one connection task per accepted socket.
type Server struct {
	addr          string
	presenterAddr string
	globals       []registry.Global
	logger        *slog.Logger
	metrics       *introspect.Metrics
	tracer        *introspect.Tracer

	nextClientID atomic.Uint32
}

// New returns a Server that will listen on addr, advertise globals to
// every connection, and (if presenterAddr is non-empty) forward pixel
// frames to a presenter at that address.
func New(addr string, presenterAddr string, globals []registry.Global, logger *slog.Logger) *Server {
	return &Server{
		addr:          addr,
		presenterAddr: presenterAddr,
		globals:       globals,
		logger:        logger,
	}
}

// WithObservers attaches an introspection Metrics collector and Tracer
// so the connection loop reports activity into them. Either may be nil;
// a nil metrics/tracer is simply not reported to, so connserver never
// requires the introspect server to be running.
func (s *Server) WithObservers(metrics *introspect.Metrics, tracer *introspect.Tracer) *Server {
	s.metrics = metrics
	s.tracer = tracer
	return s
}

// Serve listens on s.addr and runs the accept loop until ctx is canceled.
// It returns an error only if the listener cannot be bound; other accept
// errors are logged and the loop keeps accepting. Each accepted connection
// is handled in its own goroutine and does not block the accept loop.
func (s *Server) Serve(ctx context.Context) error {
	lc := net.ListenConfig{}
	listener, err := lc.Listen(ctx, "tcp", s.addr)
	if err != nil {
		return err
	}
	return s.ServeListener(ctx, listener)
}

// ServeListener runs the accept loop against an already-bound listener.
// Split out from Serve so tests can bind an ephemeral port (":0") and
// observe its assigned address before handing the listener off.
func (s *Server) ServeListener(ctx context.Context, listener net.Listener) error {
	go func() {
		<-ctx.Done()
		_ = listener.Close()
	}()

	s.logger.Info("winpipe server listening", "address", listener.Addr().String())

	for {
		conn, err := listener.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return nil
			}
			s.logger.Error("accept error", "error", err)
			continue
		}

		clientID := s.nextClientID.Add(1)
		s.logger.Info("client connected", "client_id", clientID, "remote", conn.RemoteAddr())
		if s.metrics != nil {
			s.metrics.ConnectionOpened()
		}

		go s.handleConn(ctx, conn, clientID)
	}
}

// handleConn drives one connection's decode → dispatch → encode loop
// until the peer disconnects or a transport error occurs. Per spec.md
// §7, transport errors are terminal and logged; all other error
// categories are absorbed inside the frame codec and protocol engine.
func (s *Server) handleConn(ctx context.Context, conn net.Conn, clientID uint32) {
	defer conn.Close()
	defer s.logger.Info("client disconnected", "client_id", clientID)
	if s.metrics != nil {
		defer s.metrics.ConnectionClosed()
	}

	engine := protoengine.New(s.globals)
	decoder := wire.NewDecoder()

	var presenterClient *presenter.Client
	if s.presenterAddr != "" {
		presenterClient = presenter.NewClient(s.presenterAddr)
		if err := presenterClient.Connect(ctx); err != nil {
			s.logger.Warn("presenter connect failed", "client_id", clientID, "error", err)
			presenterClient = nil
		}
	}
	if presenterClient != nil {
		defer presenterClient.Disconnect()
	}

	buf := make([]byte, readBufferSize)
	var msgCount uint64
	var lastDiscards uint64

	for {
		n, err := conn.Read(buf)
		if n > 0 {
			decoder.Push(buf[:n])

			var replies []wire.Record
			decoder.Drain(func(req wire.Record) {
				msgCount++
				s.logger.Debug("request received",
					"client_id", clientID, "seq", msgCount,
					"object_id", req.ObjectID, "opcode", req.Opcode, "payload_len", len(req.Payload))
				if s.metrics != nil {
					s.metrics.RecordRequest(wire.HeaderSize + len(req.Payload))
				}
				if s.tracer != nil {
					s.tracer.Emit(introspect.TraceEvent{
						Time: time.Now(), ClientID: clientID, Direction: "request",
						ObjectID: req.ObjectID, Opcode: req.Opcode, PayloadLen: len(req.Payload),
					})
				}
				replies = append(replies, engine.Handle(req)...)
			})

			if s.metrics != nil {
				if d := decoder.Discards(); d != lastDiscards {
					s.metrics.RecordFramingError(d - lastDiscards)
					lastDiscards = d
				}
			}

			if len(replies) > 0 {
				data, encErr := wire.EncodeBatch(replies)
				if encErr != nil {
					s.logger.Error("encode error", "client_id", clientID, "error", encErr)
					return
				}
				if s.metrics != nil {
					s.metrics.RecordReplies(len(replies), len(data))
				}
				if s.tracer != nil {
					for _, rep := range replies {
						s.tracer.Emit(introspect.TraceEvent{
							Time: time.Now(), ClientID: clientID, Direction: "reply",
							ObjectID: rep.ObjectID, Opcode: rep.Opcode, PayloadLen: len(rep.Payload),
						})
					}
				}
				if _, writeErr := conn.Write(data); writeErr != nil {
					s.logger.Warn("write error", "client_id", clientID, "error", writeErr)
					return
				}
			}
		}

		if err != nil {
			if !errors.Is(err, io.EOF) {
				s.logger.Warn("read error", "client_id", clientID, "error", err)
			}
			return
		}
	}
}
