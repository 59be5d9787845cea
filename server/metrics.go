package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	operationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rowa_vesting_operations_total",
		Help: "Completed vesting operations by kind.",
	}, []string{"operation"})

	operationErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rowa_vesting_operation_errors_total",
		Help: "Rejected vesting operations by kind.",
	}, []string{"operation"})
)

func observe(operation string, err error) {
	if err != nil {
		operationErrorsTotal.WithLabelValues(operation).Inc()
		return
	}
	operationsTotal.WithLabelValues(operation).Inc()
}
