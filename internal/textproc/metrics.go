package textproc

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// documentsCleanedTotal counts cleaned documents by outcome.
	// Labels: status (ok, skipped)
	documentsCleanedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "textproc_documents_cleaned_total",
			Help: "Total number of documents processed by the cleaner",
		},
		[]string{"status"},
	)

	// tokensProducedTotal counts tokens emitted by the tokenizer after filtering.
	tokensProducedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "textproc_tokens_produced_total",
			Help: "Total number of tokens produced by the tokenizer",
		},
	)
)

func recordDocumentCleaned(status string) {
	documentsCleanedTotal.WithLabelValues(status).Inc()
}

func recordTokensProduced(n int) {
	if n > 0 {
		tokensProducedTotal.Add(float64(n))
	}
}
