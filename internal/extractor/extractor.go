package extractor

import (
	"math"
	"strconv"
	"strings"
)

const (
	// tensorFLOPFactor folds flops-per-tensor-instruction and
	// cycles-to-seconds scaling for the target hardware generation.
	tensorFLOPFactor = 64e-12

	// minTimeSeconds floors the duration in the throughput estimate so a
	// missing or zero duration cannot blow up the division.
	minTimeSeconds = 0.001

	defaultID   = "Unknown"
	defaultName = "Unknown Kernel"
)

// Extract converts raw profiling rows into normalized kernel metrics,
// preserving input order.
//
// The bandwidth column is the sole validity gate: rows whose
// dram__bytes.sum.per_second cell is missing or not numeric produce no
// KernelMetric and are counted in Result.Rejected. That is how header
// repeats, unit rows and blank rows are filtered out of an export that
// provides no structural marker for them. Every other numeric cell degrades
// to zero when unparseable.
func Extract(records []RawRecord) Result {
	res := Result{Metrics: make([]KernelMetric, 0, len(records))}
	for _, rec := range records {
		m, ok := extractOne(rec)
		if !ok {
			res.Rejected++
			continue
		}
		res.Metrics = append(res.Metrics, m)
	}
	return res
}

func extractOne(rec RawRecord) (KernelMetric, bool) {
	bw, ok := gateFloat(rec, ColBandwidth)
	if !ok {
		return KernelMetric{}, false
	}

	m := KernelMetric{
		ID:                  stringOr(rec, ColID, defaultID),
		Name:                stringOr(rec, ColName, defaultName),
		TimeSeconds:         floatOrZero(rec, ColDuration),
		DRAMBandwidthTBps:   bw,
		TensorInstrPerCycle: floatOrZero(rec, ColTensor),
		Cycles:              floatOrZero(rec, ColCycles),
	}
	m.TFLOPS = m.TensorInstrPerCycle * m.Cycles / math.Max(m.TimeSeconds, minTimeSeconds) * tensorFLOPFactor
	return m, true
}

// coerceFloat parses a profiler cell as a float64, tolerating comma
// thousands grouping and surrounding whitespace. All tolerant-parsing policy
// lives here.
func coerceFloat(raw string) (float64, error) {
	s := strings.TrimSpace(strings.ReplaceAll(raw, ",", ""))
	return strconv.ParseFloat(s, 64)
}

// gateFloat reads a cell that decides row validity. The value must be
// present and parse to a finite number.
func gateFloat(rec RawRecord, col string) (float64, bool) {
	raw, ok := rec[col]
	if !ok {
		return 0, false
	}
	v, err := coerceFloat(raw)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// floatOrZero reads a secondary numeric cell, degrading to zero on any
// parse failure.
func floatOrZero(rec RawRecord, col string) float64 {
	raw, ok := rec[col]
	if !ok {
		return 0
	}
	v, err := coerceFloat(raw)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

func stringOr(rec RawRecord, col, fallback string) string {
	if v, ok := rec[col]; ok {
		if s := strings.TrimSpace(v); s != "" {
			return s
		}
	}
	return fallback
}
