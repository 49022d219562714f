package roofline

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/kernelsight/roofline-analyzer/internal/extractor"
)

// Default hardware ceilings, representative of an A100-class accelerator's
// double-precision and DRAM limits.
const (
	DefaultPeakComputeTFLOPS = 19.5
	DefaultPeakBandwidthTBps = 1.555
)

const (
	// curvePoints is the sample resolution of the reference curve.
	curvePoints = 100

	// curveEpsilon offsets the first curve sample off zero so a log-scale
	// chart can plot it.
	curveEpsilon = 1e-6

	// minBandwidthTBps floors measured bandwidth in the arithmetic
	// intensity ratio to avoid division by near-zero bandwidth.
	minBandwidthTBps = 0.01

	// NoKernel is the sentinel reported for extremal kernel names when no
	// valid kernels exist.
	NoKernel = "N/A"
)

// Focus selects which optimization guidance applies to the dataset as a
// whole.
type Focus string

const (
	FocusMemory  Focus = "memory-bound"
	FocusCompute Focus = "compute-bound"
)

// Config holds the hardware ceilings the roofline is built from. Zero values
// are filled with the A100-class defaults.
type Config struct {
	PeakComputeTFLOPS float64
	PeakBandwidthTBps float64
}

// Point is one (arithmetic intensity, performance) coordinate pair.
type Point struct {
	AI     float64 `json:"ai"`
	TFLOPS float64 `json:"tflops"`
}

// KernelPoint places one kernel on the roofline chart.
type KernelPoint struct {
	Point
	Name        string `json:"name"`
	MemoryBound bool   `json:"memoryBound"`
}

// Summary aggregates the classification over the valid kernel subset.
// Percentages use the valid-kernel count as denominator; with zero valid
// kernels every ratio reports zero and the extremal names report the
// NoKernel sentinel, so NaN never reaches the presentation layer.
type Summary struct {
	KneeAI              float64 `json:"kneeAI"`
	TotalKernels        int     `json:"totalKernels"`
	ValidKernels        int     `json:"validKernels"`
	MemoryBoundCount    int     `json:"memoryBoundCount"`
	ComputeBoundCount   int     `json:"computeBoundCount"`
	MemoryBoundPercent  float64 `json:"memoryBoundPercent"`
	ComputeBoundPercent float64 `json:"computeBoundPercent"`
	MeanAI              float64 `json:"meanAI"`
	MeanTFLOPS          float64 `json:"meanTFLOPS"`
	MaxAIKernel         string  `json:"maxAIKernel"`
	MaxTFLOPSKernel     string  `json:"maxTFLOPSKernel"`
	PeakComputeTFLOPS   float64 `json:"peakComputeTFLOPS"`
	PeakBandwidthTBps   float64 `json:"peakBandwidthTBps"`
}

// Analysis is the full analyzer output handed to the presentation layer.
type Analysis struct {
	Curve   []Point       `json:"curve"`
	Kernels []KernelPoint `json:"kernels"`
	Summary Summary       `json:"summary"`
	Focus   Focus         `json:"focus"`
}

// Analyzer computes roofline classifications for kernel metric snapshots.
type Analyzer struct {
	config Config
}

// NewAnalyzer creates a new Analyzer instance.
func NewAnalyzer(config *Config) (*Analyzer, error) {
	if config == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	cfg := *config
	if cfg.PeakComputeTFLOPS == 0 {
		cfg.PeakComputeTFLOPS = DefaultPeakComputeTFLOPS
	}
	if cfg.PeakBandwidthTBps == 0 {
		cfg.PeakBandwidthTBps = DefaultPeakBandwidthTBps
	}
	if cfg.PeakComputeTFLOPS <= 0 || cfg.PeakBandwidthTBps <= 0 {
		return nil, fmt.Errorf("hardware ceilings must be positive, got compute=%.3f TFLOPS bandwidth=%.3f TB/s",
			cfg.PeakComputeTFLOPS, cfg.PeakBandwidthTBps)
	}
	return &Analyzer{config: cfg}, nil
}

// Knee returns the arithmetic intensity at which the bandwidth ramp meets
// the compute ceiling.
func (a *Analyzer) Knee() float64 {
	return a.config.PeakComputeTFLOPS / a.config.PeakBandwidthTBps
}

// Curve samples the two-segment roofline reference over [~0, knee*10]:
// 99 equal steps plus a small epsilon so the first point survives a log
// axis.
func (a *Analyzer) Curve() []Point {
	knee := a.Knee()
	step := knee * 10 / float64(curvePoints-1)

	out := make([]Point, curvePoints)
	for i := range out {
		ai := float64(i)*step + curveEpsilon
		out[i] = Point{
			AI:     ai,
			TFLOPS: math.Min(ai*a.config.PeakBandwidthTBps, a.config.PeakComputeTFLOPS),
		}
	}
	return out
}

// Points maps kernels onto roofline coordinates. A kernel is valid only if
// both its arithmetic intensity and its performance are finite; invalid
// kernels are omitted from the returned series. The input slice is left
// untouched.
func (a *Analyzer) Points(metrics []extractor.KernelMetric) []KernelPoint {
	knee := a.Knee()

	out := make([]KernelPoint, 0, len(metrics))
	for _, m := range metrics {
		ai := m.TFLOPS / math.Max(m.DRAMBandwidthTBps, minBandwidthTBps)
		if !isFinite(ai) || !isFinite(m.TFLOPS) {
			continue
		}
		out = append(out, KernelPoint{
			Point:       Point{AI: ai, TFLOPS: m.TFLOPS},
			Name:        m.Name,
			MemoryBound: ai < knee,
		})
	}
	return out
}

// Analyze runs the full roofline pass over a metrics snapshot.
func (a *Analyzer) Analyze(metrics []extractor.KernelMetric) Analysis {
	points := a.Points(metrics)
	summary := a.summarize(metrics, points)

	// Memory focus requires a strict memory-bound majority; a tie lands on
	// the compute branch.
	focus := FocusCompute
	if summary.MemoryBoundCount > summary.ComputeBoundCount {
		focus = FocusMemory
	}

	return Analysis{
		Curve:   a.Curve(),
		Kernels: points,
		Summary: summary,
		Focus:   focus,
	}
}

func (a *Analyzer) summarize(metrics []extractor.KernelMetric, points []KernelPoint) Summary {
	s := Summary{
		KneeAI:            a.Knee(),
		TotalKernels:      len(metrics),
		ValidKernels:      len(points),
		MaxAIKernel:       NoKernel,
		MaxTFLOPSKernel:   NoKernel,
		PeakComputeTFLOPS: a.config.PeakComputeTFLOPS,
		PeakBandwidthTBps: a.config.PeakBandwidthTBps,
	}
	if len(points) == 0 {
		return s
	}

	ais := make([]float64, len(points))
	perfs := make([]float64, len(points))
	maxAI, maxPerf := 0, 0
	for i, p := range points {
		ais[i] = p.AI
		perfs[i] = p.TFLOPS
		if p.MemoryBound {
			s.MemoryBoundCount++
		} else {
			s.ComputeBoundCount++
		}
		if p.AI > points[maxAI].AI {
			maxAI = i
		}
		if p.TFLOPS > points[maxPerf].TFLOPS {
			maxPerf = i
		}
	}

	valid := float64(len(points))
	s.MemoryBoundPercent = float64(s.MemoryBoundCount) / valid * 100
	s.ComputeBoundPercent = float64(s.ComputeBoundCount) / valid * 100
	s.MeanAI = stat.Mean(ais, nil)
	s.MeanTFLOPS = stat.Mean(perfs, nil)
	s.MaxAIKernel = points[maxAI].Name
	s.MaxTFLOPSKernel = points[maxPerf].Name
	return s
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
