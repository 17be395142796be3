package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Registration outcomes used as the "outcome" label.
const (
	OutcomeCreated  = "created"
	OutcomeRejected = "rejected"
	OutcomeFailed   = "failed"
)

// Metrics provides observability for the account module.
type Metrics struct {
	Registrations        *prometheus.CounterVec
	RegisterDuration     prometheus.Histogram
	ActivationMailSent   prometheus.Counter
	ActivationMailFailed prometheus.Counter
}

// New registers the account metrics with reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Registrations: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "signup_registrations_total",
			Help: "Registration attempts by outcome",
		}, []string{"outcome"}),
		RegisterDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "signup_register_duration_seconds",
			Help:    "Duration of Register operations, hashing and mail included",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}),
		ActivationMailSent: factory.NewCounter(prometheus.CounterOpts{
			Name: "signup_activation_mail_sent_total",
			Help: "Activation emails accepted by the transport",
		}),
		ActivationMailFailed: factory.NewCounter(prometheus.CounterOpts{
			Name: "signup_activation_mail_failed_total",
			Help: "Activation emails rejected by the transport",
		}),
	}
}

// IncrementRegistration records one registration attempt with outcome.
func (m *Metrics) IncrementRegistration(outcome string) {
	m.Registrations.WithLabelValues(outcome).Inc()
}

// ObserveRegister records the duration of a Register call.
// Call with time.Now() at the start of the operation.
func (m *Metrics) ObserveRegister(start time.Time) {
	m.RegisterDuration.Observe(time.Since(start).Seconds())
}

func (m *Metrics) IncrementMailSent() {
	m.ActivationMailSent.Inc()
}

func (m *Metrics) IncrementMailFailed() {
	m.ActivationMailFailed.Inc()
}
