package api

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus instruments for the receipt API.
type Metrics struct {
	ReceiptsCreated prometheus.Counter
	Verifications   *prometheus.CounterVec
}

// NewMetrics registers the instruments with reg. Tests pass a fresh
// registry; the gateway passes prometheus.DefaultRegisterer.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		ReceiptsCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "invoixe_receipts_created_total",
			Help: "Total number of receipts sealed and persisted.",
		}),
		Verifications: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "invoixe_verifications_total",
			Help: "Total number of verification requests by result.",
		}, []string{"result"}),
	}
}

func (m *Metrics) observeVerification(result string) {
	if m == nil {
		return
	}
	m.Verifications.WithLabelValues(result).Inc()
}

func (m *Metrics) observeCreated() {
	if m == nil {
		return
	}
	m.ReceiptsCreated.Inc()
}
