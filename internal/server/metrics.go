package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors/version"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/kernelsight/roofline-analyzer/internal/extractor"
	"github.com/kernelsight/roofline-analyzer/internal/roofline"
)

var (
	kernelsAnalyzed = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "roofline_kernels_analyzed",
		Help: "Number of valid kernels in the current analysis.",
	})

	rowsRejected = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "roofline_rows_rejected",
		Help: "Number of export rows dropped by the extractor validity gate.",
	})

	boundKernels = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "roofline_bound_kernels",
		Help: "Kernel counts by roofline classification.",
	}, []string{"class"})
)

func init() {
	prometheus.MustRegister(version.NewCollector("roofline_analyzer"))
}

// recordAnalysis publishes the snapshot's headline numbers.
func recordAnalysis(result extractor.Result, analysis roofline.Analysis) {
	kernelsAnalyzed.Set(float64(analysis.Summary.ValidKernels))
	rowsRejected.Set(float64(result.Rejected))
	boundKernels.WithLabelValues("memory").Set(float64(analysis.Summary.MemoryBoundCount))
	boundKernels.WithLabelValues("compute").Set(float64(analysis.Summary.ComputeBoundCount))
}
