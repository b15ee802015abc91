package classifier

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// PredictionMetricsRecorder defines the interface for recording classification metrics.
// This interface abstracts the metrics recording implementation, enabling:
//   - Mocking in unit tests (inject mock recorder instead of Prometheus)
//   - Swapping metrics systems (DataDog, New Relic, OpenTelemetry, etc.)
//   - Reusability across different AI providers (Anthropic, OpenAI)
//
// Example usage:
//
//	type AnthropicClassifier struct {
//	    metricsRecorder PredictionMetricsRecorder
//	}
//
//	func (a *AnthropicClassifier) Classify(ctx context.Context, text string) (Prediction, error) {
//	    // ... API call ...
//	    a.metricsRecorder.RecordLabel(prediction.Label)
//	    a.metricsRecorder.RecordDuration(duration)
//	    return prediction, nil
//	}
//
// For testing with mocks:
//
//	type MockMetricsRecorder struct {
//	    RecordedLabels []string
//	}
//
//	func (m *MockMetricsRecorder) RecordLabel(label string) {
//	    m.RecordedLabels = append(m.RecordedLabels, label)
//	}
type PredictionMetricsRecorder interface {
	// RecordLabel increments the per-category prediction counter.
	RecordLabel(label string)

	// RecordScore records the backend-reported confidence of a prediction.
	RecordScore(score float64)

	// RecordDuration records the time taken to classify a document.
	RecordDuration(duration time.Duration)

	// RecordParseFailure increments the counter for unparseable backend responses.
	RecordParseFailure()
}

// PrometheusPredictionMetrics implements PredictionMetricsRecorder using Prometheus metrics.
// This is the production implementation that records metrics to Prometheus.
type PrometheusPredictionMetrics struct {
	labelCounter        *prometheus.CounterVec
	scoreHistogram      prometheus.Histogram
	durationHistogram   prometheus.Histogram
	parseFailureCounter prometheus.Counter
}

var (
	prometheusMetricsInstance *PrometheusPredictionMetrics
	prometheusMetricsOnce     sync.Once
)

// getOrCreateHistogram gets an existing histogram or creates a new one if it doesn't exist
func getOrCreateHistogram(opts prometheus.HistogramOpts) prometheus.Histogram {
	h := prometheus.NewHistogram(opts)
	if err := prometheus.Register(h); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			return are.ExistingCollector.(prometheus.Histogram)
		}
		// If it's not an AlreadyRegisteredError, use promauto which handles this gracefully
		return promauto.NewHistogram(opts)
	}
	return h
}

// getOrCreateCounter gets an existing counter or creates a new one if it doesn't exist
func getOrCreateCounter(opts prometheus.CounterOpts) prometheus.Counter {
	c := prometheus.NewCounter(opts)
	if err := prometheus.Register(c); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			return are.ExistingCollector.(prometheus.Counter)
		}
		return promauto.NewCounter(opts)
	}
	return c
}

// getOrCreateCounterVec gets an existing counter vector or creates a new one if it doesn't exist
func getOrCreateCounterVec(opts prometheus.CounterOpts, labels []string) *prometheus.CounterVec {
	c := prometheus.NewCounterVec(opts, labels)
	if err := prometheus.Register(c); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			return are.ExistingCollector.(*prometheus.CounterVec)
		}
		return promauto.NewCounterVec(opts, labels)
	}
	return c
}

// NewPrometheusPredictionMetrics creates a new Prometheus-based metrics recorder.
// It initializes and registers all required Prometheus metrics.
// Uses singleton pattern to avoid duplicate metric registration in tests.
func NewPrometheusPredictionMetrics() *PrometheusPredictionMetrics {
	prometheusMetricsOnce.Do(func() {
		prometheusMetricsInstance = &PrometheusPredictionMetrics{
			labelCounter: getOrCreateCounterVec(prometheus.CounterOpts{
				Name: "document_classification_labels_total",
				Help: "Total number of predictions per category",
			}, []string{"label"}),
			scoreHistogram: getOrCreateHistogram(prometheus.HistogramOpts{
				Name:    "document_classification_score",
				Help:    "Distribution of backend-reported confidence scores",
				Buckets: []float64{0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8, 0.9, 1.0},
			}),
			durationHistogram: getOrCreateHistogram(prometheus.HistogramOpts{
				Name:    "document_classification_duration_seconds",
				Help:    "Time taken to classify a document via AI API",
				Buckets: prometheus.ExponentialBuckets(0.5, 2, 10),
			}),
			parseFailureCounter: getOrCreateCounter(prometheus.CounterOpts{
				Name: "document_classification_parse_failures_total",
				Help: "Total number of backend responses that could not be parsed",
			}),
		}
	})
	return prometheusMetricsInstance
}

// RecordLabel implements PredictionMetricsRecorder.RecordLabel
func (p *PrometheusPredictionMetrics) RecordLabel(label string) {
	p.labelCounter.WithLabelValues(label).Inc()
}

// RecordScore implements PredictionMetricsRecorder.RecordScore
func (p *PrometheusPredictionMetrics) RecordScore(score float64) {
	p.scoreHistogram.Observe(score)
}

// RecordDuration implements PredictionMetricsRecorder.RecordDuration
func (p *PrometheusPredictionMetrics) RecordDuration(duration time.Duration) {
	p.durationHistogram.Observe(duration.Seconds())
}

// RecordParseFailure implements PredictionMetricsRecorder.RecordParseFailure
func (p *PrometheusPredictionMetrics) RecordParseFailure() {
	p.parseFailureCounter.Inc()
}
