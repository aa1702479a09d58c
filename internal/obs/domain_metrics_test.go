package obs

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestDomainMetricObservers(t *testing.T) {
	reg := prometheus.NewRegistry()
	MustRegisterDomainMetrics("test", reg)

	ObserveDocumentCreated("quotation")
	ObserveDocumentCreated("quotation")
	ObserveRender("invoice", 12.5, nil)
	ObserveEmail("invoice", errors.New("smtp down"))

	require.Equal(t, 2.0, testutil.ToFloat64(DocumentsCreatedTotal.WithLabelValues("quotation")))
	require.Equal(t, 1.0, testutil.ToFloat64(PDFRenderTotal.WithLabelValues("invoice", "ok")))
	require.Equal(t, 1.0, testutil.ToFloat64(EmailSendTotal.WithLabelValues("invoice", "error")))
}
