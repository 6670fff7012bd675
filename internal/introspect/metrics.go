// Package introspect is winpipe's additive observability surface:
// health/readiness, Prometheus-style metrics, and a websocket live-trace
// feed of protocol traffic. None of it participates in the wire
// protocol — it only observes connserver's activity by having events
// reported into it; the protocol engine never knows it exists.
package introspect

import (
	"fmt"
	"net/http"
	"runtime"
	"strings"
	"sync/atomic"
	"time"
)

var startTime = time.Now()

// Metrics collects Prometheus-compatible counters and gauges for the
// connection server.
type Metrics struct {
	connectionsTotal  atomic.Int64
	connectionsActive atomic.Int64
	requestsTotal     atomic.Int64
	repliesTotal      atomic.Int64
	bytesIn           atomic.Int64
	bytesOut          atomic.Int64
	framingErrors     atomic.Int64
}

// NewMetrics returns an empty collector.
func NewMetrics() *Metrics {
	return &Metrics{}
}

// ConnectionOpened records a newly accepted connection.
func (m *Metrics) ConnectionOpened() {
	m.connectionsTotal.Add(1)
	m.connectionsActive.Add(1)
}

// ConnectionClosed records a connection's end.
func (m *Metrics) ConnectionClosed() {
	m.connectionsActive.Add(-1)
}

// RecordRequest records one decoded request record and the bytes it
// occupied on the wire.
func (m *Metrics) RecordRequest(wireBytes int) {
	m.requestsTotal.Add(1)
	m.bytesIn.Add(int64(wireBytes))
}

// RecordReplies records a batch of count reply records and the wireBytes
// they encode to; connserver calls it once per transport read with the
// replies to every request decoded from that read.
func (m *Metrics) RecordReplies(count int, wireBytes int) {
	m.repliesTotal.Add(int64(count))
	m.bytesOut.Add(int64(wireBytes))
}

// RecordFramingError records n rejected/corrupt records at the frame
// codec layer (spec.md §4.1 step 3).
func (m *Metrics) RecordFramingError(n uint64) {
	m.framingErrors.Add(int64(n))
}

// ServeHTTP writes the current metrics in Prometheus text exposition
// format.
func (m *Metrics) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; version=0.0.4; charset=utf-8")

	var b strings.Builder
	writeGauge(&b, "winpipe_connections_active", "Current number of open client connections.", float64(m.connectionsActive.Load()))
	writeCounter(&b, "winpipe_connections_total", "Total client connections accepted.", float64(m.connectionsTotal.Load()))
	writeCounter(&b, "winpipe_requests_total", "Total request records decoded.", float64(m.requestsTotal.Load()))
	writeCounter(&b, "winpipe_replies_total", "Total reply records produced.", float64(m.repliesTotal.Load()))
	writeCounter(&b, "winpipe_bytes_in_total", "Total wire-format bytes read from clients.", float64(m.bytesIn.Load()))
	writeCounter(&b, "winpipe_bytes_out_total", "Total wire-format bytes written to clients.", float64(m.bytesOut.Load()))
	writeCounter(&b, "winpipe_framing_errors_total", "Total oversize/undersize records rejected by the frame decoder.", float64(m.framingErrors.Load()))

	b.WriteString("# HELP winpipe_go_goroutines Number of goroutines.\n")
	b.WriteString("# TYPE winpipe_go_goroutines gauge\n")
	fmt.Fprintf(&b, "winpipe_go_goroutines %d\n", runtime.NumGoroutine())

	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)
	b.WriteString("# HELP winpipe_go_memstats_alloc_bytes Number of bytes allocated.\n")
	b.WriteString("# TYPE winpipe_go_memstats_alloc_bytes gauge\n")
	fmt.Fprintf(&b, "winpipe_go_memstats_alloc_bytes %d\n", mem.Alloc)

	w.Write([]byte(b.String()))
}

func writeCounter(b *strings.Builder, name, help string, value float64) {
	fmt.Fprintf(b, "# HELP %s %s\n# TYPE %s counter\n%s %g\n", name, help, name, name, value)
}

func writeGauge(b *strings.Builder, name, help string, value float64) {
	fmt.Fprintf(b, "# HELP %s %s\n# TYPE %s gauge\n%s %g\n", name, help, name, name, value)
}
