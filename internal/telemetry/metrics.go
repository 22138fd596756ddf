package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Collectors registered on the default Prometheus registry and served on /metrics.
var (
	Logins = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "identity",
		Name:      "logins_total",
		Help:      "Login attempts by result.",
	}, []string{"result"})

	StatusToggles = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "identity",
		Name:      "status_toggles_total",
		Help:      "Account status transitions by resulting status.",
	}, []string{"status"})

	MembershipChanges = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "identity",
		Name:      "membership_changes_total",
		Help:      "Membership rows added or removed by reconciliation, by anchor side.",
	}, []string{"anchor", "op"})

	HTTPRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "identity",
		Name:      "http_requests_total",
		Help:      "HTTP requests by method and status code.",
	}, []string{"method", "status"})
)

func init() {
	prometheus.MustRegister(Logins, StatusToggles, MembershipChanges, HTTPRequests)
}
