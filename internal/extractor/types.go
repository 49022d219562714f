package extractor

// Column names in an Nsight Compute raw CSV export. Counter columns use the
// profiler's dotted metric-name convention.
const (
	ColID        = "ID"
	ColName      = "Kernel Name"
	ColDuration  = "gpu__time_duration.avg"
	ColBandwidth = "dram__bytes.sum.per_second"
	ColTensor    = "smsp__inst_executed_pipe_tensor.sum.per_cycle_elapsed"
	ColCycles    = "gpc__cycles_elapsed.sum"
)

// RawRecord is one loosely typed profiling row, mapping column name to cell
// value. Missing cells are absent keys. The export interleaves data rows with
// metadata rows (header repeats, unit annotations, blanks); a RawRecord makes
// no distinction between them.
type RawRecord map[string]string

// KernelMetric is one normalized kernel execution record. A KernelMetric
// exists only if the bandwidth column of its source row parsed to a finite
// number; every other numeric field defaults to zero when unparseable.
type KernelMetric struct {
	// ID is the kernel identifier, used as the unique row key downstream.
	ID string `json:"id"`

	// Name is the kernel function name.
	Name string `json:"name"`

	// TimeSeconds is the average execution duration.
	TimeSeconds float64 `json:"timeSeconds"`

	// DRAMBandwidthTBps is the measured DRAM bandwidth in TB/s.
	DRAMBandwidthTBps float64 `json:"dramBandwidthTBps"`

	// TensorInstrPerCycle is the tensor-pipe instruction issue rate per
	// elapsed cycle.
	TensorInstrPerCycle float64 `json:"tensorInstrPerCycle"`

	// Cycles is the number of elapsed GPU cycles.
	Cycles float64 `json:"cycles"`

	// TFLOPS is the derived throughput estimate.
	TFLOPS float64 `json:"tflops"`
}

// Result is the extractor output: the ordered metrics plus a count of rows
// rejected by the validity gate. Rejected is a diagnostic side channel, not
// an error.
type Result struct {
	Metrics  []KernelMetric
	Rejected int
}
