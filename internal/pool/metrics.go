package pool

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	poolLabel = "pool"
)

var (
	poolGrown = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "planet_pool_grown_total",
		Help: "The number of instances created by a pool.",
	}, []string{
		poolLabel,
	})
)

func instrumentGrow(name string, n int) {
	poolGrown.With(prometheus.Labels{
		poolLabel: name,
	}).Add(float64(n))
}
