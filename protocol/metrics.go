// Copyright © 2019 Binance
//
// This file is part of Binance. The full Binance copyright notice, including
// terms governing use, modification, and redistribution, is contained in the
// file LICENSE at the root of the source code distribution tree.

package protocol

import (
	"github.com/prometheus/client_golang/prometheus"
)

const metricsNamespace = "dlogzk"

// Metrics counts protocol activity. A nil *Metrics is valid and records nothing.
type Metrics struct {
	ProofsGenerated prometheus.Counter
	RoundsVerified  *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them with reg when it is not nil.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		ProofsGenerated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "proofs_generated_total",
			Help:      "Number of commitments opened by provers.",
		}),
		RoundsVerified: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "rounds_verified_total",
			Help:      "Number of rounds checked by verifiers, by outcome.",
		}, []string{"outcome"}),
	}
	if reg == nil {
		return m, nil
	}
	for _, c := range []prometheus.Collector{m.ProofsGenerated, m.RoundsVerified} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *Metrics) observeCommit() {
	if m == nil {
		return
	}
	m.ProofsGenerated.Inc()
}

func (m *Metrics) observeVerify(verified bool) {
	if m == nil {
		return
	}
	outcome := "rejected"
	if verified {
		outcome = "accepted"
	}
	m.RoundsVerified.WithLabelValues(outcome).Inc()
}
