package cashbook

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics counts claim outcomes. A nil *Metrics is valid and records nothing.
type Metrics struct {
	Committed prometheus.Counter
	Rejected  *prometheus.CounterVec
	Amount    prometheus.Counter
}

// NewMetrics creates the claim counters and registers them on reg, when not nil.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Committed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "cashbook",
			Name:      "claims_committed_total",
			Help:      "Number of investment income periods claimed.",
		}),
		Rejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "cashbook",
			Name:      "claims_rejected_total",
			Help:      "Number of claim attempts rejected, by reason.",
		}, []string{"reason"}),
		Amount: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "cashbook",
			Name:      "claimed_amount_total",
			Help:      "Sum of the income claimed, in major currency units.",
		}),
	}
	if reg != nil {
		reg.MustRegister(m.Committed, m.Rejected, m.Amount)
	}
	return m
}

func (m *Metrics) committed(amount Money) {
	if m == nil {
		return
	}
	m.Committed.Inc()
	m.Amount.Add(amount.Value().InexactFloat64())
}

func (m *Metrics) rejected(err error) {
	if m == nil {
		return
	}
	m.Rejected.WithLabelValues(rejectReason(err)).Inc()
}

func rejectReason(err error) string {
	switch {
	case errors.Is(err, ErrAlreadyClaimed):
		return "already_claimed"
	case errors.Is(err, ErrOutOfOrder):
		return "out_of_order"
	case errors.Is(err, ErrNotDue):
		return "not_due"
	case errors.Is(err, ErrUnknownPeriod):
		return "unknown_period"
	default:
		return "other"
	}
}
