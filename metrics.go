package tetracull

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	modeLabel   = "mode"
	resultLabel = "result"
)

var (
	intersectionTests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tetracull_intersection_tests_total",
		Help: "The total number of plane and shape tests run by culling passes.",
	}, []string{modeLabel})

	cullObjects = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tetracull_objects_total",
		Help: "The total number of objects tested by culling passes, by result.",
	}, []string{modeLabel, resultLabel})

	cullPassDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "tetracull_cull_pass_duration_seconds",
		Help:    "The time spent in a single culling pass.",
		Buckets: prometheus.ExponentialBuckets(0.00001, 4, 10),
	}, []string{modeLabel})
)

func instrumentCullPass(mode CullMode, stats Stats, start time.Time) {
	m := mode.String()

	intersectionTests.
		With(prometheus.Labels{modeLabel: m}).
		Add(float64(stats.IntersectionTests))

	cullObjects.
		With(prometheus.Labels{modeLabel: m, resultLabel: "drawn"}).
		Add(float64(stats.Drawn))

	cullObjects.
		With(prometheus.Labels{modeLabel: m, resultLabel: "culled"}).
		Add(float64(stats.Culled))

	cullPassDuration.
		With(prometheus.Labels{modeLabel: m}).
		Observe(time.Since(start).Seconds())
}
