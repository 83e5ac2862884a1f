// Package metrics holds the Prometheus collectors of the ledger server.
package metrics

import (
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/mmynk/estateledger/internal/errs"
)

const namespace = "estateledger"

// Metrics groups every collector. A nil *Metrics records nothing.
type Metrics struct {
	rpcDuration       *prometheus.HistogramVec
	postings          *prometheus.CounterVec
	reversals         *prometheus.CounterVec
	binds             *prometheus.CounterVec
	periodTransitions *prometheus.CounterVec
}

// New creates the collectors and registers them on reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		rpcDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "rpc_duration_seconds",
			Help:      "Duration of RPC calls by procedure and result code.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"procedure", "code"}),
		postings: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "postings_total",
			Help:      "ConfirmAndPost outcomes.",
		}, []string{"outcome"}),
		reversals: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reversals_total",
			Help:      "Reverse outcomes.",
		}, []string{"outcome"}),
		binds: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "binds_total",
			Help:      "Bind outcomes.",
		}, []string{"outcome"}),
		periodTransitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "period_transitions_total",
			Help:      "Successful period locks and unlocks.",
		}, []string{"transition"}),
	}
	reg.MustRegister(m.rpcDuration, m.postings, m.reversals, m.binds, m.periodTransitions)
	return m
}

// Outcome turns an operation result into a label value: "ok" (or okLabel when given)
// on success, the lower-cased error code otherwise.
func Outcome(err error, okLabel string) string {
	if err == nil {
		if okLabel == "" {
			return "ok"
		}
		return okLabel
	}
	return strings.ToLower(errs.CodeOf(err))
}

// ObserveRPC records the duration of one call.
func (m *Metrics) ObserveRPC(procedure, code string, d time.Duration) {
	if m == nil {
		return
	}
	m.rpcDuration.WithLabelValues(procedure, code).Observe(d.Seconds())
}

// Posting counts one ConfirmAndPost outcome.
func (m *Metrics) Posting(outcome string) {
	if m == nil {
		return
	}
	m.postings.WithLabelValues(outcome).Inc()
}

// Reversal counts one Reverse outcome.
func (m *Metrics) Reversal(outcome string) {
	if m == nil {
		return
	}
	m.reversals.WithLabelValues(outcome).Inc()
}

// Bind counts one Bind outcome.
func (m *Metrics) Bind(outcome string) {
	if m == nil {
		return
	}
	m.binds.WithLabelValues(outcome).Inc()
}

// PeriodTransition counts a lock or unlock.
func (m *Metrics) PeriodTransition(transition string) {
	if m == nil {
		return
	}
	m.periodTransitions.WithLabelValues(transition).Inc()
}
