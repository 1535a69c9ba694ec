package middleware

import (
	"net/http"
	"runtime"
	"sync/atomic"
	"time"
)

// Metrics holds process-wide counters.
type Metrics struct {
	RequestsTotal      atomic.Uint64
	RequestsInProgress atomic.Int64
	RequestsSuccess    atomic.Uint64
	RequestsFailed     atomic.Uint64
	AnalysesTotal      atomic.Uint64
	AnalysesFailed     atomic.Uint64
	AnalysesSuperseded atomic.Uint64
	ReportsPersisted   atomic.Uint64
	PersistFailures    atomic.Uint64
	NotesScheduled     atomic.Uint64
	StartTime          time.Time
}

var globalMetrics = &Metrics{StartTime: time.Now()}

func IncrementAnalyses()           { globalMetrics.AnalysesTotal.Add(1) }
func IncrementAnalysesFailed()     { globalMetrics.AnalysesFailed.Add(1) }
func IncrementAnalysesSuperseded() { globalMetrics.AnalysesSuperseded.Add(1) }
func IncrementReportsPersisted()   { globalMetrics.ReportsPersisted.Add(1) }
func IncrementPersistFailures()    { globalMetrics.PersistFailures.Add(1) }
func IncrementNotesScheduled()     { globalMetrics.NotesScheduled.Add(1) }

// GetMetrics returns a snapshot of all counters.
func GetMetrics() map[string]any {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	return map[string]any{
		"requests_total":       globalMetrics.RequestsTotal.Load(),
		"requests_in_progress": globalMetrics.RequestsInProgress.Load(),
		"requests_success":     globalMetrics.RequestsSuccess.Load(),
		"requests_failed":      globalMetrics.RequestsFailed.Load(),
		"analyses_total":       globalMetrics.AnalysesTotal.Load(),
		"analyses_failed":      globalMetrics.AnalysesFailed.Load(),
		"analyses_superseded":  globalMetrics.AnalysesSuperseded.Load(),
		"reports_persisted":    globalMetrics.ReportsPersisted.Load(),
		"persist_failures":     globalMetrics.PersistFailures.Load(),
		"notes_scheduled":      globalMetrics.NotesScheduled.Load(),
		"uptime_seconds":       time.Since(globalMetrics.StartTime).Seconds(),
		"memory": map[string]any{
			"alloc_bytes":       m.Alloc,
			"total_alloc_bytes": m.TotalAlloc,
			"sys_bytes":         m.Sys,
			"num_gc":            m.NumGC,
		},
		"goroutines": runtime.NumGoroutine(),
	}
}

// MetricsMiddleware counts requests by outcome.
func MetricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		globalMetrics.RequestsTotal.Add(1)
		globalMetrics.RequestsInProgress.Add(1)
		defer globalMetrics.RequestsInProgress.Add(-1)

		wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(wrapped, r)

		if wrapped.statusCode >= 200 && wrapped.statusCode < 400 {
			globalMetrics.RequestsSuccess.Add(1)
		} else {
			globalMetrics.RequestsFailed.Add(1)
		}
	})
}

func MetricsHandler(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, GetMetrics())
}
