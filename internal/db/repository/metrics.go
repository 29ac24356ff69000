package repository

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// operations counts repository calls by entity, operation and result.
var operations = promauto.NewCounterVec( //nolint:gochecknoglobals
	prometheus.CounterOpts{
		Name: "repository_operations_total",
		Help: "Number of repository operations, differentiated by entity, operation and result.",
	},
	[]string{"entity", "op", "result"},
)

func observe(entity, op string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}

	operations.WithLabelValues(entity, op, result).Inc()
}
