package telegram

import (
	"github.com/gfarida/financetracker/pkg/services"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Telegram bot metrics
var (
	commandsProcessed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "financetracker_commands_processed_total",
			Help: "Total number of processed commands by type",
		},
		[]string{"command"}, // start, add, show, delete, set_budget, delete_budget, show_budgets, analysis, help
	)

	expensesRecorded = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "financetracker_expenses_recorded_total",
			Help: "Total number of recorded expenses",
		},
	)

	budgetsSet = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "financetracker_budgets_set_total",
			Help: "Total number of budget caps set",
		},
	)

	errorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "financetracker_errors_total",
			Help: "Total number of errors by type",
		},
		[]string{"type"}, // registration, add_expense, list_expenses, delete_expense, set_budget, delete_budget, show_budgets, analysis, render_chart, send_message
	)

	addExpenseDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "financetracker_add_expense_duration_seconds",
			Help:    "Duration of expense recording including classification in seconds",
			Buckets: []float64{0.5, 1.5, 2.5, 3.5},
		},
	)
)

// RestoreCounters replays last known totals from a Prometheus snapshot so
// counters survive process restarts.
func RestoreCounters(snapshot *services.MetricsSnapshot) {
	if snapshot == nil {
		return
	}

	for command, count := range snapshot.CommandsProcessed {
		commandsProcessed.WithLabelValues(command).Add(count)
	}
	for errType, count := range snapshot.ErrorsTotal {
		errorsTotal.WithLabelValues(errType).Add(count)
	}
	expensesRecorded.Add(snapshot.ExpensesRecorded)
	budgetsSet.Add(snapshot.BudgetsSet)
}
