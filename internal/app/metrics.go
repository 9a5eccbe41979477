package app

import (
	"fmt"
	"sync/atomic"
	"time"
)

// Metrics counts session traffic. Counters are atomic so a transfer
// progress callback may update them.
type Metrics struct {
	bytesIn      atomic.Uint64
	bytesOut     atomic.Uint64
	keys         atomic.Uint64
	keysDropped  atomic.Uint64
	renders      atomic.Uint64
	renderNs     atomic.Int64
	transfers    atomic.Uint64
	transferFail atomic.Uint64

	startTime time.Time
}

// NewMetrics creates a new metrics tracker.
func NewMetrics() *Metrics {
	return &Metrics{startTime: time.Now()}
}

// RecordInbound counts one byte from the host.
func (m *Metrics) RecordInbound() {
	m.bytesIn.Add(1)
}

// RecordOutbound counts n bytes sent to the host.
func (m *Metrics) RecordOutbound(n int) {
	m.bytesOut.Add(uint64(n))
}

// RecordKey counts an accepted key.
func (m *Metrics) RecordKey() {
	m.keys.Add(1)
}

// RecordKeyDropped counts a key discarded by the repeat limiter.
func (m *Metrics) RecordKeyDropped() {
	m.keysDropped.Add(1)
}

// RecordRender records render timing.
func (m *Metrics) RecordRender(d time.Duration) {
	m.renders.Add(1)
	m.renderNs.Add(d.Nanoseconds())
}

// RecordTransfer counts a finished transfer.
func (m *Metrics) RecordTransfer(err error) {
	m.transfers.Add(1)
	if err != nil {
		m.transferFail.Add(1)
	}
}

// Snapshot returns a snapshot of current metrics. dropped is the
// interpreter's count of discarded sequences.
func (m *Metrics) Snapshot(dropped int) MetricsSnapshot {
	renders := m.renders.Load()
	var avg time.Duration
	if renders > 0 {
		avg = time.Duration(m.renderNs.Load() / int64(renders))
	}
	return MetricsSnapshot{
		Uptime:           time.Since(m.startTime),
		BytesIn:          m.bytesIn.Load(),
		BytesOut:         m.bytesOut.Load(),
		Keys:             m.keys.Load(),
		KeysDropped:      m.keysDropped.Load(),
		SequencesDropped: dropped,
		Renders:          renders,
		AvgRender:        avg,
		Transfers:        m.transfers.Load(),
		TransfersFailed:  m.transferFail.Load(),
	}
}

// MetricsSnapshot is a point-in-time view of metrics.
type MetricsSnapshot struct {
	Uptime           time.Duration
	BytesIn          uint64
	BytesOut         uint64
	Keys             uint64
	KeysDropped      uint64
	SequencesDropped int
	Renders          uint64
	AvgRender        time.Duration
	Transfers        uint64
	TransfersFailed  uint64
}

// String returns a one-line summary for the session log.
func (s MetricsSnapshot) String() string {
	return fmt.Sprintf("uptime=%s in=%d out=%d keys=%d keys_dropped=%d seq_dropped=%d renders=%d avg_render=%s transfers=%d/%d",
		s.Uptime.Round(time.Second), s.BytesIn, s.BytesOut, s.Keys, s.KeysDropped,
		s.SequencesDropped, s.Renders, s.AvgRender, s.Transfers-s.TransfersFailed, s.Transfers)
}
