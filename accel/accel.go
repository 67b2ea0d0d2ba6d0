// Package accel defines the types shared by the components of the systolic
// matrix-multiplication accelerator model.
package accel

// Geometry of the processing-element array. The array consumes one weight row
// per load pulse and keeps PipeRegs partial results in flight per PE.
const (
	ArrayHeight = 4
	ArrayWidth  = 12
	PipeRegs    = 3

	// LineBytes is the width of one TCDM access in bytes.
	LineBytes = 32
)

// Opcode tags a memory response with the kind of access it answers.
type Opcode uint8

const (
	OpcodeLoad Opcode = iota
	OpcodeStore
	OpcodeError
)

// Name returns the name of the opcode.
func (o Opcode) Name() string {
	switch o {
	case OpcodeLoad:
		return "Load"
	case OpcodeStore:
		return "Store"
	case OpcodeError:
		return "Error"
	default:
		panic("invalid opcode")
	}
}

// A JobConfig carries one matrix-multiplication job, as decoded from the
// job-dependent registers. Addresses point into TCDM.
type JobConfig struct {
	XAddr uint64
	WAddr uint64
	YAddr uint64
	ZAddr uint64

	// WeightRowsPerTile is the number of weight rows loaded and consumed
	// together before the array drains to the output buffer.
	WeightRowsPerTile uint32

	// TotalStoreOps is the number of output-buffer drains that complete
	// the job.
	TotalStoreOps uint32
}
