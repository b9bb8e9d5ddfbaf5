package observability

import (
	"sync"
	"sync/atomic"
	"time"
)

// Metrics aggregates per-route request counters for the API layer.
type Metrics struct {
	mu sync.Mutex

	requestTotal  atomic.Int64
	requestFailed atomic.Int64

	routeMetrics map[string]*RouteMetrics
}

// RouteMetrics holds the counters of a single route.
type RouteMetrics struct {
	requestCount  atomic.Int64
	errorCount    atomic.Int64
	totalDuration atomic.Int64 // milliseconds
}

// NewMetrics creates a metrics collector.
func NewMetrics() *Metrics {
	return &Metrics{
		routeMetrics: make(map[string]*RouteMetrics),
	}
}

// RecordRequest records one handled request.
func (m *Metrics) RecordRequest(route string) {
	m.requestTotal.Add(1)
	m.getRouteMetrics(route).requestCount.Add(1)
}

// RecordFailure records one failed request.
func (m *Metrics) RecordFailure(route string) {
	m.requestFailed.Add(1)
	m.getRouteMetrics(route).errorCount.Add(1)
}

// RecordDuration records the handling duration of one request.
func (m *Metrics) RecordDuration(route string, duration time.Duration) {
	m.getRouteMetrics(route).totalDuration.Add(duration.Milliseconds())
}

func (m *Metrics) getRouteMetrics(route string) *RouteMetrics {
	m.mu.Lock()
	defer m.mu.Unlock()

	if rm, ok := m.routeMetrics[route]; ok {
		return rm
	}
	rm := &RouteMetrics{}
	m.routeMetrics[route] = rm
	return rm
}

// RouteSnapshot is a point-in-time view of one route's counters.
type RouteSnapshot struct {
	Route         string `json:"route"`
	RequestCount  int64  `json:"requestCount"`
	ErrorCount    int64  `json:"errorCount"`
	AvgDurationMs int64  `json:"avgDurationMs"`
}

// Snapshot returns the current counters for all routes.
func (m *Metrics) Snapshot() (total, failed int64, routes []RouteSnapshot) {
	m.mu.Lock()
	defer m.mu.Unlock()

	routes = make([]RouteSnapshot, 0, len(m.routeMetrics))
	for route, rm := range m.routeMetrics {
		snapshot := RouteSnapshot{
			Route:        route,
			RequestCount: rm.requestCount.Load(),
			ErrorCount:   rm.errorCount.Load(),
		}
		if snapshot.RequestCount > 0 {
			snapshot.AvgDurationMs = rm.totalDuration.Load() / snapshot.RequestCount
		}
		routes = append(routes, snapshot)
	}
	return m.requestTotal.Load(), m.requestFailed.Load(), routes
}
