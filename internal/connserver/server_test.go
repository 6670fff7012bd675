package connserver

import (
	"context"
	"encoding/binary"
	"io"
	"log/slog"
	"net"
	"testing"
	"time"

	"github.com/winpipe-go/winpipe/internal/registry"
	"github.com/winpipe-go/winpipe/internal/wire"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// TestHandshakeOverRealSocket exercises S1 end-to-end: dial a live
// listener, send wl_display.get_registry, and expect the 9 canonical
// global-advertisement records back.
func TestHandshakeOverRealSocket(t *testing.T) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("Listen: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	srv := New(listener.Addr().String(), "", registry.New(nil), discardLogger())
	done := make(chan error, 1)
	go func() { done <- srv.ServeListener(ctx, listener) }()

	conn, err := net.Dial("tcp", listener.Addr().String())
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	defer conn.Close()

	req := wire.Record{ObjectID: 1, Opcode: 1, Payload: leU32(2)}
	encoded, err := wire.Encode(req)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if _, err := conn.Write(encoded); err != nil {
		t.Fatalf("Write: %v", err)
	}

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	dec := wire.NewDecoder()
	var replies []wire.Record
	buf := make([]byte, 4096)
	for len(replies) < 9 {
		n, err := conn.Read(buf)
		if err != nil {
			t.Fatalf("Read: %v (got %d replies so far)", err, len(replies))
		}
		dec.Push(buf[:n])
		dec.Drain(func(r wire.Record) { replies = append(replies, r) })
	}

	if len(replies) != 9 {
		t.Fatalf("got %d replies, want 9", len(replies))
	}
	for _, r := range replies {
		if r.ObjectID != 2 || r.Opcode != 0 {
			t.Fatalf("reply = %+v, want obj=2 op=0", r)
		}
	}

	cancel()
	<-done
}

func leU32(v uint32) []byte {
	b := make([]byte, 4)
	binary.LittleEndian.PutUint32(b, v)
	return b
}
