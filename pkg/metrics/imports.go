package metrics

import "github.com/prometheus/client_golang/prometheus"

// ImportMetrics counts bulk product import outcomes.
type ImportMetrics struct {
	rows *prometheus.CounterVec
}

func NewImportMetrics(reg prometheus.Registerer) *ImportMetrics {
	if reg == nil {
		return &ImportMetrics{}
	}
	rows := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "product_import_rows_total",
		Help: "Bulk import rows by outcome (inserted, skipped, invalid).",
	}, []string{"outcome"})
	reg.MustRegister(rows)
	return &ImportMetrics{rows: rows}
}

// Record adds the outcome of one import run.
func (m *ImportMetrics) Record(inserted, skipped, invalid int) {
	if m == nil || m.rows == nil {
		return
	}
	m.rows.WithLabelValues("inserted").Add(float64(inserted))
	m.rows.WithLabelValues("skipped").Add(float64(skipped))
	m.rows.WithLabelValues("invalid").Add(float64(invalid))
}
