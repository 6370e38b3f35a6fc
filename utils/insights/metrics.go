package insights

import (
	"twitter-etl/pkg/observer"

	"github.com/prometheus/client_golang/prometheus"
)

func NewMetrics(registry prometheus.Registerer) *Metrics {
	metrics := &Metrics{
		postsSaved: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "twitter_etl_posts_saved_total",
			Help: "Rows persisted by extraction task.",
		}, []string{"task"}),
		itemFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "twitter_etl_item_failures_total",
			Help: "Keywords or usernames skipped after an API error.",
		}, []string{"task"}),
		taskRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "twitter_etl_task_runs_total",
			Help: "Task completions by final status.",
		}, []string{"task", "status"}),
		taskRetries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "twitter_etl_task_retries_total",
			Help: "Task attempts that were retried.",
		}, []string{"task"}),
	}

	registry.MustRegister(metrics.postsSaved, metrics.itemFailures, metrics.taskRuns, metrics.taskRetries)
	return metrics
}

func (m *Metrics) OnNotify(e observer.Event) {
	switch e.E {
	case observer.BatchSavedEvent:
		m.postsSaved.WithLabelValues(e.Task).Add(float64(e.Rows))
	case observer.ItemFailedEvent:
		m.itemFailures.WithLabelValues(e.Task).Inc()
	case observer.TaskRetriedEvent:
		m.taskRetries.WithLabelValues(e.Task).Inc()
	case observer.TaskSucceededEvent:
		m.taskRuns.WithLabelValues(e.Task, statusSucceeded).Inc()
	case observer.TaskFailedEvent:
		m.taskRuns.WithLabelValues(e.Task, statusFailed).Inc()
	}
}
