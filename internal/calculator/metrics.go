package calculator

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

var calculations = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "allocation_calculations_total",
		Help: "How many invoice allocations were calculated, partitioned by outcome.",
	},
	[]string{"outcome"},
)

// Metrics are the Prometheus collectors of this package.
var Metrics = []prometheus.Collector{
	calculations,
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrValidation):
		return "invalid"
	}

	return "error"
}
