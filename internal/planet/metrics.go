package planet

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	faceLabel = "face"
	kindLabel = "kind"

	kindSplit = "split"
	kindMerge = "merge"
)

var (
	activeChunks = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "planet_active_chunks",
		Help: "The number of chunks rendered by a face.",
	}, []string{
		faceLabel,
	})

	lodTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "planet_lod_transitions_total",
		Help: "The number of split and merge results consumed by a face.",
	}, []string{
		faceLabel,
		kindLabel,
	})

	lodTasksDispatched = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "planet_lod_tasks_dispatched_total",
		Help: "The number of split and merge generation tasks dispatched by a face.",
	}, []string{
		faceLabel,
		kindLabel,
	})
)

func instrumentActive(face string, n int) {
	activeChunks.With(prometheus.Labels{
		faceLabel: face,
	}).Set(float64(n))
}

func instrumentTransition(face, kind string) {
	lodTransitions.With(prometheus.Labels{
		faceLabel: face,
		kindLabel: kind,
	}).Inc()
}

func instrumentDispatch(face, kind string) {
	lodTasksDispatched.With(prometheus.Labels{
		faceLabel: face,
		kindLabel: kind,
	}).Inc()
}
