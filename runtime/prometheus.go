// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package runtime

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	txExecutedCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "auction_tx_executed_total",
		Help: "Counter of executed auction transactions by opcode",
	}, []string{"op"})
	txFailedCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "auction_tx_failed_total",
		Help: "Counter of failed auction transactions by error kind",
	}, []string{"kind"})
	txDurationHistogram = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "auction_tx_duration_seconds",
		Help:    "Time spent executing one transaction",
		Buckets: prometheus.ExponentialBuckets(0.0005, 2, 12),
	})
	seqGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "auction_tx_seq",
		Help: "Sequence number of the last committed transaction",
	})

	registerOnce sync.Once
)

func registerMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(txExecutedCounter)
		prometheus.MustRegister(txFailedCounter)
		prometheus.MustRegister(txDurationHistogram)
		prometheus.MustRegister(seqGauge)
	})
}
