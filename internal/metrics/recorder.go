// Package metrics exposes Prometheus instruments for outline jobs. A nil
// *Recorder is valid and records nothing.
package metrics

import (
	"net/http"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	promhttp "github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcome labels for finished jobs.
const (
	OutcomeCompleted = "completed"
	OutcomeFailed    = "failed"
)

// Recorder holds the service's Prometheus instruments.
type Recorder struct {
	reg           *prom.Registry
	jobOutcome    *prom.CounterVec
	jobDuration   prom.Histogram
	phaseDuration *prom.HistogramVec
	documents     prom.Counter
	headings      prom.Counter
	pages         prom.Counter
	queueDepth    prom.Gauge
}

// NewRecorder constructs the instruments and registers them on reg. A nil reg
// gets a fresh private registry.
func NewRecorder(reg *prom.Registry) *Recorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	r := &Recorder{reg: reg}
	r.jobOutcome = prom.NewCounterVec(prom.CounterOpts{
		Namespace: "docoutline",
		Name:      "job_outcomes_total",
		Help:      "Outline jobs by final status",
	}, []string{"outcome"})
	r.jobDuration = prom.NewHistogram(prom.HistogramOpts{
		Namespace: "docoutline",
		Name:      "job_duration_seconds",
		Help:      "Total outline job duration",
		Buckets:   prom.DefBuckets,
	})
	r.phaseDuration = prom.NewHistogramVec(prom.HistogramOpts{
		Namespace: "docoutline",
		Name:      "phase_duration_seconds",
		Help:      "Duration of individual job phases",
		Buckets:   prom.DefBuckets,
	}, []string{"phase"})
	r.documents = prom.NewCounter(prom.CounterOpts{
		Namespace: "docoutline",
		Name:      "documents_total",
		Help:      "Documents added to outlines",
	})
	r.headings = prom.NewCounter(prom.CounterOpts{
		Namespace: "docoutline",
		Name:      "headings_total",
		Help:      "Headings located in added documents",
	})
	r.pages = prom.NewCounter(prom.CounterOpts{
		Namespace: "docoutline",
		Name:      "pages_total",
		Help:      "Pages contributed by added documents",
	})
	r.queueDepth = prom.NewGauge(prom.GaugeOpts{
		Namespace: "docoutline",
		Name:      "queue_depth",
		Help:      "Jobs waiting for a worker",
	})
	reg.MustRegister(r.jobOutcome, r.jobDuration, r.phaseDuration, r.documents, r.headings, r.pages, r.queueDepth)
	return r
}

// Registry returns the registry the instruments live on.
func (r *Recorder) Registry() *prom.Registry {
	if r == nil {
		return nil
	}
	return r.reg
}

func (r *Recorder) DocumentAdded(headings, pages int) {
	if r == nil {
		return
	}
	r.documents.Inc()
	r.headings.Add(float64(headings))
	r.pages.Add(float64(pages))
}

func (r *Recorder) ObservePhase(phase string, d time.Duration) {
	if r == nil {
		return
	}
	r.phaseDuration.WithLabelValues(phase).Observe(d.Seconds())
}

func (r *Recorder) JobFinished(outcome string, d time.Duration) {
	if r == nil {
		return
	}
	r.jobOutcome.WithLabelValues(outcome).Inc()
	r.jobDuration.Observe(d.Seconds())
}

func (r *Recorder) SetQueueDepth(n int) {
	if r == nil {
		return
	}
	r.queueDepth.Set(float64(n))
}

// HTTPHandler serves the recorder's registry in the Prometheus exposition format.
func (r *Recorder) HTTPHandler() http.Handler {
	reg := r.Registry()
	if reg == nil {
		reg = prom.NewRegistry()
	}
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{EnableOpenMetrics: true})
}
