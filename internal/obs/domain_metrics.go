package obs

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	domainOnce sync.Once

	// PDFRenderTotal counts document render outcomes by document type.
	PDFRenderTotal *prometheus.CounterVec
	// PDFRenderDuration records render latency in milliseconds.
	PDFRenderDuration *prometheus.HistogramVec
	// EmailSendTotal counts outbound document email outcomes.
	EmailSendTotal *prometheus.CounterVec
	// DocumentsCreatedTotal counts created documents by type.
	DocumentsCreatedTotal *prometheus.CounterVec
)

// MustRegisterDomainMetrics initialises and registers domain-specific Prometheus collectors.
func MustRegisterDomainMetrics(namespace string, reg prometheus.Registerer) {
	domainOnce.Do(func() {
		if reg == nil {
			reg = prometheus.DefaultRegisterer
		}
		PDFRenderTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pdf_render_total",
			Help:      "Count of PDF render outcomes by document type.",
		}, []string{"doc_type", "result"})
		PDFRenderDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "pdf_render_duration_ms",
			Help:      "PDF render latency distribution in milliseconds.",
			Buckets:   []float64{25, 50, 100, 250, 500, 1000, 2500, 5000},
		}, []string{"doc_type"})
		EmailSendTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "email_send_total",
			Help:      "Count of outbound document email outcomes.",
		}, []string{"doc_type", "result"})
		DocumentsCreatedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "documents_created_total",
			Help:      "Count of created documents by type.",
		}, []string{"doc_type"})
		reg.MustRegister(PDFRenderTotal, PDFRenderDuration, EmailSendTotal, DocumentsCreatedTotal)
	})
}

// ObserveRender records a render outcome and latency when metrics are registered.
func ObserveRender(docType string, millis float64, err error) {
	if PDFRenderTotal == nil || PDFRenderDuration == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	PDFRenderTotal.WithLabelValues(docType, result).Inc()
	PDFRenderDuration.WithLabelValues(docType).Observe(millis)
}

// ObserveDocumentCreated counts a persisted document when metrics are registered.
func ObserveDocumentCreated(docType string) {
	if DocumentsCreatedTotal == nil {
		return
	}
	DocumentsCreatedTotal.WithLabelValues(docType).Inc()
}

// ObserveEmail records an email outcome when metrics are registered.
func ObserveEmail(docType string, err error) {
	if EmailSendTotal == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	EmailSendTotal.WithLabelValues(docType, result).Inc()
}
