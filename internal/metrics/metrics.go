package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	jobsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "pdftranslator",
			Name:      "jobs_total",
			Help:      "Translation jobs by result (success, failed)",
		},
		[]string{"result"},
	)

	pagesProcessed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "pdftranslator",
			Name:      "pages_processed_total",
			Help:      "Pages processed by result (translated, skipped, ocr_failed, translate_failed)",
		},
		[]string{"result"},
	)

	variantSelected = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "pdftranslator",
			Name:      "ocr_variant_selected_total",
			Help:      "Winning preprocessing variant per recognized page",
		},
		[]string{"variant"},
	)

	ocrConfidence = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "pdftranslator",
			Name:      "ocr_confidence",
			Help:      "Mean word confidence of the selected OCR result per page",
			Buckets:   prometheus.LinearBuckets(0, 10, 11),
		},
	)

	providerReqs = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "pdftranslator",
			Name:      "provider_requests_total",
			Help:      "Translation provider requests by provider, model and result",
		},
		[]string{"provider", "model", "result"},
	)

	providerLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "pdftranslator",
			Name:      "provider_request_duration_seconds",
			Help:      "Duration of provider requests by provider and model",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"provider", "model"},
	)

	jobDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "pdftranslator",
			Name:      "job_duration_seconds",
			Help:      "End-to-end job duration",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 12),
		},
	)
)

// Init registers collectors.
func Init() {
	prometheus.MustRegister(jobsTotal, pagesProcessed, variantSelected, ocrConfidence, providerReqs, providerLatency, jobDuration)
}

// Handler returns the http.Handler for /metrics
func Handler() http.Handler { return promhttp.Handler() }

func IncJob(result string)           { jobsTotal.WithLabelValues(result).Inc() }
func IncPage(result string)          { pagesProcessed.WithLabelValues(result).Inc() }
func IncVariantSelected(tag string)  { variantSelected.WithLabelValues(tag).Inc() }
func ObserveConfidence(conf float64) { ocrConfidence.Observe(conf) }
func ObserveJob(dur time.Duration)   { jobDuration.Observe(dur.Seconds()) }

func ObserveProvider(provider, model, result string, dur time.Duration) {
	providerReqs.WithLabelValues(provider, model, result).Inc()
	providerLatency.WithLabelValues(provider, model).Observe(dur.Seconds())
}
