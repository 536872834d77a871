package captioner

import "github.com/prometheus/client_golang/prometheus"

var (
	modelLoadsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "altd",
			Subsystem: "caption",
			Name:      "model_loads_total",
			Help:      "Model loads by result",
		},
		[]string{"model", "result"},
	)

	captionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "altd",
			Subsystem: "caption",
			Name:      "requests_total",
			Help:      "Caption requests by result",
		},
		[]string{"model", "result"},
	)

	captionDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "altd",
			Subsystem: "caption",
			Name:      "duration_seconds",
			Help:      "Backend caption latency in seconds",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
		},
		[]string{"model"},
	)

	cacheHitsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "altd",
			Subsystem: "caption",
			Name:      "cache_hits_total",
			Help:      "Captions served from the caption cache",
		},
		[]string{"model"},
	)

	loadedModels = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "altd",
			Subsystem: "caption",
			Name:      "loaded_models",
			Help:      "Models currently loaded",
		},
	)
)

func init() {
	prometheus.MustRegister(modelLoadsTotal, captionsTotal, captionDuration, cacheHitsTotal, loadedModels)
}
