package app

import (
	"sync/atomic"
	"time"
)

// Metrics counts front-end activity. It is logged when the application
// shuts down.
type Metrics struct {
	renderCount   atomic.Uint64
	renderTotalNs atomic.Int64
	renderMaxNs   atomic.Int64

	inputCount   atomic.Uint64
	inputTotalNs atomic.Int64
	unhandled    atomic.Uint64

	saves        atomic.Uint64
	saveFailures atomic.Uint64
	reloads      atomic.Uint64

	startTime time.Time
}

// NewMetrics creates a new metrics tracker.
func NewMetrics() *Metrics {
	return &Metrics{startTime: time.Now()}
}

// RecordRender records the time spent drawing one frame.
func (m *Metrics) RecordRender(d time.Duration) {
	ns := d.Nanoseconds()
	m.renderCount.Add(1)
	m.renderTotalNs.Add(ns)
	for {
		old := m.renderMaxNs.Load()
		if ns <= old || m.renderMaxNs.CompareAndSwap(old, ns) {
			break
		}
	}
}

// RecordInput records the time spent handling one input event. Unhandled
// keys are counted separately.
func (m *Metrics) RecordInput(d time.Duration, handled bool) {
	m.inputCount.Add(1)
	m.inputTotalNs.Add(d.Nanoseconds())
	if !handled {
		m.unhandled.Add(1)
	}
}

// RecordSave records a save result.
func (m *Metrics) RecordSave(ok bool) {
	if ok {
		m.saves.Add(1)
		return
	}
	m.saveFailures.Add(1)
}

// RecordReload records a configuration reload.
func (m *Metrics) RecordReload() {
	m.reloads.Add(1)
}

// Snapshot returns a snapshot of current metrics.
func (m *Metrics) Snapshot() MetricsSnapshot {
	renders := m.renderCount.Load()
	inputs := m.inputCount.Load()

	var avgRender, avgInput time.Duration
	if renders > 0 {
		avgRender = time.Duration(m.renderTotalNs.Load() / int64(renders))
	}
	if inputs > 0 {
		avgInput = time.Duration(m.inputTotalNs.Load() / int64(inputs))
	}

	return MetricsSnapshot{
		Uptime:       time.Since(m.startTime),
		Renders:      renders,
		AvgRender:    avgRender,
		MaxRender:    time.Duration(m.renderMaxNs.Load()),
		Inputs:       inputs,
		AvgInput:     avgInput,
		Unhandled:    m.unhandled.Load(),
		Saves:        m.saves.Load(),
		SaveFailures: m.saveFailures.Load(),
		Reloads:      m.reloads.Load(),
	}
}

// MetricsSnapshot is a point-in-time view of metrics.
type MetricsSnapshot struct {
	Uptime       time.Duration
	Renders      uint64
	AvgRender    time.Duration
	MaxRender    time.Duration
	Inputs       uint64
	AvgInput     time.Duration
	Unhandled    uint64
	Saves        uint64
	SaveFailures uint64
	Reloads      uint64
}

// Metrics returns the application's metrics.
func (app *Application) Metrics() *Metrics {
	return app.metrics
}
