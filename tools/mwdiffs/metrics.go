package main

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	dto "github.com/prometheus/client_model/go"

	"github.com/dustin/go-mwdiffs"
)

const (
	statusOK       = "ok"
	statusSkipped  = "skipped"
	statusTimedOut = "timedout"
)

type metrics struct {
	reg       *prometheus.Registry
	revisions *prometheus.CounterVec
	seconds   prometheus.Histogram
}

func newMetrics() *metrics {
	m := &metrics{
		reg: prometheus.NewRegistry(),
		revisions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "mwdiffs_revisions_total",
			Help: "Revisions processed, by outcome.",
		}, []string{"status"}),
		seconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "mwdiffs_diff_seconds",
			Help:    "Time spent computing a single revision diff.",
			Buckets: prometheus.ExponentialBuckets(0.001, 4, 8),
		}),
	}
	m.reg.MustRegister(m.revisions, m.seconds)
	return m
}

func (m *metrics) observe(doc *mwdiffs.RevisionDoc) {
	d := doc.Diff
	switch {
	case d == nil:
		return
	case d.Skipped != "":
		m.revisions.WithLabelValues(statusSkipped).Inc()
	case d.TimedOut:
		m.revisions.WithLabelValues(statusTimedOut).Inc()
	default:
		m.revisions.WithLabelValues(statusOK).Inc()
	}
	if d.Time != nil {
		m.seconds.Observe(*d.Time)
	}
}

func (m *metrics) count(status string) int64 {
	return int64(counterValue(m.revisions.WithLabelValues(status)))
}

func (m *metrics) total() int64 {
	return m.count(statusOK) + m.count(statusSkipped) + m.count(statusTimedOut)
}

func counterValue(c prometheus.Counter) float64 {
	var pb dto.Metric
	if err := c.Write(&pb); err != nil {
		return 0
	}
	return pb.GetCounter().GetValue()
}

func (m *metrics) handler() http.Handler {
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{})
}

func (m *metrics) serve(addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.handler())
	logger.Infof("Serving metrics on %v/metrics", addr)
	return http.ListenAndServe(addr, mux)
}
