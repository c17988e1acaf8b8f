// Package queue implements the in-memory design event pipeline: a buffered
// queue fed by the widget callback endpoint and a fixed worker pool folding
// events into the design store.
package queue

import (
	"context"
	"sync"
	"time"

	"github.com/printloom/designer-gateway/internal/config"
	"github.com/printloom/designer-gateway/internal/model"
	"github.com/printloom/designer-gateway/internal/obs"
	"github.com/printloom/designer-gateway/internal/store"
)

// Manager coordinates workers applying queued design events to the store.
type Manager struct {
	cfg    config.Config
	q      *Queue
	st     *store.Store
	seq    Sequencer
	cancel context.CancelFunc

	wg sync.WaitGroup
}

// NewManager constructs a Manager with the given config, queue, and store.
func NewManager(cfg config.Config, q *Queue, st *store.Store) *Manager {
	return &Manager{cfg: cfg, q: q, st: st}
}

// Start launches the broker and the worker pool in the background.
func (m *Manager) Start(parent context.Context) {
	ctx, cancel := context.WithCancel(parent)
	m.cancel = cancel
	m.q.Start(ctx, m.cfg.QueueHighWatermark)
	n := m.cfg.WorkerCount
	if n <= 0 {
		n = 1
	}
	for i := 0; i < n; i++ {
		m.wg.Add(1)
		go m.worker(ctx)
	}
	obs.Logger.Info("design_event_workers_started", "worker_count", n)
}

// Stop cancels background routines and waits for workers to exit.
func (m *Manager) Stop() {
	if m.cancel != nil {
		m.cancel()
	}
	m.wg.Wait()
}

// worker drains events from the queue into the design store.
func (m *Manager) worker(ctx context.Context) {
	defer m.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-m.q.Out():
			m.st.Apply(ev)
			m.q.MarkProcessed()
		}
	}
}

// Enqueue proxies to the underlying queue.
func (m *Manager) Enqueue(ev model.DesignEvent) bool { return m.q.Enqueue(ev) }

// BacklogSize returns pending items in the queue.
func (m *Manager) BacklogSize() int { return m.q.BacklogSize() }

// QueueDepth returns backlog plus buffered output items.
func (m *Manager) QueueDepth() int { return m.q.Depth() }

// NextSequence returns the next event sequence number.
func (m *Manager) NextSequence() uint64 { return m.seq.Next() }

// IsShuttingDown reports whether new enqueues are rejected.
func (m *Manager) IsShuttingDown() bool { return m.q.IsShuttingDown() }

// CloseIntake disallows future enqueues.
func (m *Manager) CloseIntake() { m.q.CloseIntake() }

// QueueMetrics exposes the underlying queue metrics.
func (m *Manager) QueueMetrics() (enq, proc uint64, backlog, depth int) {
	return m.q.Metrics()
}

// DrainUntil blocks until the queue is fully drained or the context is done.
func (m *Manager) DrainUntil(ctx context.Context) bool {
	for {
		enq, proc, backlog, depth := m.q.Metrics()
		if backlog == 0 && depth == 0 && enq == proc {
			return true
		}
		select {
		case <-ctx.Done():
			return false
		case <-time.After(50 * time.Millisecond):
		}
	}
}
