package task

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	modeLabel = "mode"

	modeInvoke  = "invoke"
	modeResolve = "invoke_and_resolve"
)

var (
	tasksEnqueued = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "planet_tasks_total",
		Help: "The number of tasks queued on the task pool.",
	}, []string{
		modeLabel,
	})

	taskDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "planet_task_duration_seconds",
		Help:    "The time a task spent running on a worker.",
		Buckets: prometheus.ExponentialBuckets(0.0005, 2, 14),
	})

	taskWait = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "planet_task_wait_seconds",
		Help:    "The time a task spent in the queue before a worker picked it up.",
		Buckets: prometheus.ExponentialBuckets(0.0005, 2, 14),
	})

	taskQueueLength = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "planet_task_queue_length",
		Help: "The number of tasks waiting for a worker.",
	})
)

func instrumentEnqueue(mode string, queueLen int) {
	tasksEnqueued.With(prometheus.Labels{
		modeLabel: mode,
	}).Inc()
	taskQueueLength.Set(float64(queueLen))
}

func instrumentTaskDone(queued, start time.Time, queueLen int) {
	taskWait.Observe(start.Sub(queued).Seconds())
	taskDuration.Observe(time.Since(start).Seconds())
	taskQueueLength.Set(float64(queueLen))
}
