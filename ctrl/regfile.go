package ctrl

import (
	"github.com/sarchlab/systolic/accel"
	"github.com/sarchlab/systolic/sched"
)

// Offsets of the memory-mapped registers on the configuration slave. The
// generic registers come first; the job-dependent registers follow.
const (
	RegTrigger   = 0x00
	RegStatus    = 0x08
	RegJobID     = 0x10
	RegSoftClear = 0x18
	RegPush      = 0x20
	RegPull      = 0x28

	RegXAddr      = 0x40
	RegWAddr      = 0x44
	RegYAddr      = 0x48
	RegZAddr      = 0x4C
	RegWeightRows = 0x50
	RegTotalStore = 0x54
)

// Status register bits.
const (
	StatusBusy = 1 << 0
	StatusDone = 1 << 1
)

// regFile holds the configuration slave state: the staged job registers, the
// commit latch, and the pending one-cycle requests toward the scheduler.
type regFile struct {
	staged accel.JobConfig
	job    accel.JobConfig

	jobID uint32
	busy  bool
	done  bool

	// decodeValid is armed by a configuration push and stays up until the
	// next soft clear. Staging writes leave it untouched.
	decodeValid bool

	startPending bool
	clearPending bool
}

func (r *regFile) write(offset uint64, value uint32) {
	switch offset {
	case RegTrigger:
		r.startPending = true
		r.done = false
	case RegSoftClear:
		r.clearPending = true
		r.decodeValid = false
		r.done = false
	case RegPush:
		r.job = r.staged
		r.decodeValid = true
	case RegXAddr:
		r.staged.XAddr = uint64(value)
	case RegWAddr:
		r.staged.WAddr = uint64(value)
	case RegYAddr:
		r.staged.YAddr = uint64(value)
	case RegZAddr:
		r.staged.ZAddr = uint64(value)
	case RegWeightRows:
		r.staged.WeightRowsPerTile = value
	case RegTotalStore:
		r.staged.TotalStoreOps = value
	}
}

func (r *regFile) read(offset uint64) uint32 {
	switch offset {
	case RegStatus:
		var status uint32
		if r.busy {
			status |= StatusBusy
		}
		if r.done {
			status |= StatusDone
		}
		return status
	case RegJobID, RegPull:
		// PULL reports the id of the job slot the next run will occupy.
		return r.jobID
	case RegXAddr:
		return uint32(r.job.XAddr)
	case RegWAddr:
		return uint32(r.job.WAddr)
	case RegYAddr:
		return uint32(r.job.YAddr)
	case RegZAddr:
		return uint32(r.job.ZAddr)
	case RegWeightRows:
		return r.job.WeightRowsPerTile
	case RegTotalStore:
		return r.job.TotalStoreOps
	default:
		return 0
	}
}

// takeStart consumes the pending start request, if any.
func (r *regFile) takeStart() bool {
	pending := r.startPending
	r.startPending = false

	return pending
}

// takeClear consumes the pending soft-clear request, if any.
func (r *regFile) takeClear() bool {
	pending := r.clearPending
	r.clearPending = false

	return pending
}

func (r *regFile) bounds() sched.Bounds {
	return sched.Bounds{
		WeightRowsPerTile: r.job.WeightRowsPerTile,
		TotalStoreOps:     r.job.TotalStoreOps,
	}
}
