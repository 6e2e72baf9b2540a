package server

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	resultLabel   = "result"
	endpointLabel = "endpoint"
)

var (
	raycastCount = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "octree_raycast_total",
		Help: "The number of raycasts served, by hit or miss.",
	}, []string{
		resultLabel,
	})

	raycastLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "octree_raycast_latency_seconds",
		Help:    "The time to answer a raycast.",
		Buckets: prometheus.ExponentialBuckets(1e-6, 4, 10),
	})

	deepenCount = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "octree_deepen_passes_total",
		Help: "The number of refinement passes run, by whether they split a leaf.",
	}, []string{
		resultLabel,
	})

	requestError = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "octree_request_errors_total",
		Help: "The requests rejected, by endpoint.",
	}, []string{
		endpointLabel,
	})

	meshTriangles = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "octree_mesh_triangles",
		Help: "The triangle count of the loaded mesh.",
	})

	octreeNodes = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "octree_nodes",
		Help: "The node count of the loaded octree.",
	})
)

func instrumentRaycast(found bool, start time.Time) {
	result := "miss"
	if found {
		result = "hit"
	}
	raycastCount.With(prometheus.Labels{resultLabel: result}).Inc()
	raycastLatency.Observe(time.Since(start).Seconds())
}

func instrumentDeepen(refined bool, nodes int) {
	result := "unchanged"
	if refined {
		result = "refined"
	}
	deepenCount.With(prometheus.Labels{resultLabel: result}).Inc()
	octreeNodes.Set(float64(nodes))
}

func instrumentRequestError(endpoint string) {
	requestError.With(prometheus.Labels{endpointLabel: endpoint}).Inc()
}
