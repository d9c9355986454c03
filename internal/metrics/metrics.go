package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics counts auth outcomes. Labels carry the outcome class only,
// never usernames or tokens.
type Metrics struct {
	registry *prometheus.Registry

	Signups      *prometheus.CounterVec
	Logins       *prometheus.CounterVec
	GuardDenials *prometheus.CounterVec
}

func New() *Metrics {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &Metrics{
		registry: registry,
		Signups: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "authkit_signups_total",
			Help: "Account creation attempts by result.",
		}, []string{"result"}),
		Logins: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "authkit_logins_total",
			Help: "Login attempts by result.",
		}, []string{"result"}),
		GuardDenials: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "authkit_guard_denials_total",
			Help: "RequireUser denials by reason.",
		}, []string{"reason"}),
	}
}

// Handler serves the registry in Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Result converts a success flag to a counter label.
func Result(ok bool) string {
	if ok {
		return "success"
	}
	return "failure"
}
