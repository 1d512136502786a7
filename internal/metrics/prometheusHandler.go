package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var HttpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "http_requests_total",
	Help: "Total number of requests labelled by path and status",
}, []string{"path", "status"})

var chunksIndexedTotal = promauto.NewCounter(prometheus.CounterOpts{
	Name: "chunks_indexed_total",
	Help: "Number of chunks upserted into the vector store",
})

var documentsIndexedTotal = promauto.NewCounter(prometheus.CounterOpts{
	Name: "documents_indexed_total",
	Help: "Number of documents fully processed by indexing",
})

var requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name:    "pipeline_duration_seconds",
	Help:    "Total time spent in one pipeline execution.",
	Buckets: []float64{.1, .5, 1, 2, 5, 10, 30},
}, []string{"workflow"})

var dependencyLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name:    "dependency_latency_seconds",
	Help:    "Latency of external service calls.",
	Buckets: []float64{.05, .1, .25, .5, 1, 2, 5, 10},
}, []string{"service"})

type HttpStatusRecorder struct {
	http.ResponseWriter
	Status int
}

func (r *HttpStatusRecorder) WriteHeader(code int) {
	r.Status = code
	r.ResponseWriter.WriteHeader(code)
}

func AddChunksIndexed(n int) {
	chunksIndexedTotal.Add(float64(n))
}

func IncrementDocumentsIndexed() {
	documentsIndexedTotal.Inc()
}

func CaptureExecutionMetrics(label string, timeElapsed time.Duration) {
	dependencyLatency.WithLabelValues(label).Observe(timeElapsed.Seconds())
}

func CapturePipelineMetrics(workflow string, timeElapsed time.Duration) {
	requestDuration.WithLabelValues(workflow).Observe(timeElapsed.Seconds())
}
