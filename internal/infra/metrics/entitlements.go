package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() {
	register(entitlementActivations)
}

var entitlementActivations = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "entitlement_activations_total",
		Help: "Entitlement activations by plan duration class.",
	},
	[]string{"duration"},
)

func IncActivation(duration string) {
	entitlementActivations.WithLabelValues(norm(duration)).Inc()
}
