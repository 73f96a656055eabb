package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	// AutomationTriggers conta automações disparadas por tipo de ação.
	AutomationTriggers = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "automation_triggers_total",
			Help: "Automations triggered, by action type",
		},
		[]string{"action"},
	)

	// AutomationRuns conta execuções do motor de automações.
	AutomationRuns = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "automation_runs_total",
			Help: "Automation engine invocations",
		},
	)

	// OrderTransitions conta transições de pedidos por ação.
	OrderTransitions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "order_transitions_total",
			Help: "Order lifecycle transitions, by action",
		},
		[]string{"action"},
	)
)
