// Package metrics holds the Prometheus collectors for share activity.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Verification results recorded by ShareMetrics.VerificationAttempt.
const (
	ResultVerified    = "verified"
	ResultInvalidCode = "invalid_code"
	ResultInvalidMode = "invalid_mode"
	ResultNotFound    = "not_found"
	ResultRateLimited = "rate_limited"
)

// ShareMetrics counts share lifecycle events. A nil *ShareMetrics is valid and records nothing.
type ShareMetrics struct {
	created       *prometheus.CounterVec
	verifications *prometheus.CounterVec
	downloads     *prometheus.CounterVec
}

// NewShareMetrics registers the share collectors on reg.
func NewShareMetrics(reg prometheus.Registerer) (*ShareMetrics, error) {
	m := &ShareMetrics{
		created: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "shares_created_total",
				Help: "Total number of shares created, by mode.",
			},
			[]string{"mode"},
		),
		verifications: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "share_verifications_total",
				Help: "Total number of verification code submissions, by result.",
			},
			[]string{"result"},
		),
		downloads: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "share_file_downloads_total",
				Help: "Total number of document files served through shares, by mode.",
			},
			[]string{"mode"},
		),
	}

	for _, c := range []prometheus.Collector{m.created, m.verifications, m.downloads} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// ShareCreated records a new share.
func (m *ShareMetrics) ShareCreated(mode string) {
	if m == nil {
		return
	}
	m.created.WithLabelValues(mode).Inc()
}

// VerificationAttempt records one code submission.
func (m *ShareMetrics) VerificationAttempt(result string) {
	if m == nil {
		return
	}
	m.verifications.WithLabelValues(result).Inc()
}

// FileServed records a document delivery.
func (m *ShareMetrics) FileServed(mode string) {
	if m == nil {
		return
	}
	m.downloads.WithLabelValues(mode).Inc()
}
