// Package sched implements the phase scheduler of the accelerator. The
// scheduler is a synchronous state machine evaluated once per clock. It owns
// the phase register, the tile counters, and the sticky flags, and it derives
// the control signals consumed by the PE array, the output buffer, and the
// downstream consumer.
package sched

// Bounds holds the iteration bounds of one run. They are decoded from the
// job registers, latched at the Starting boundary, and read-only for the
// remainder of the run.
type Bounds struct {
	WeightRowsPerTile uint32
	TotalStoreOps     uint32
}

// Input is the set of external signals the scheduler samples in one cycle.
// Pulse signals are valid for this cycle only.
type Input struct {
	Start    bool
	TestMode bool

	ConfigDecodeValid bool
	Bounds            Bounds

	WeightLoaded      bool
	RowDone           bool
	RegisterEnable    bool
	OutputBufferFull  bool
	OutputBufferEmpty bool

	Clear bool
}

// Output is the set of control signals the scheduler drives in one cycle.
// All outputs are recomputed on every Step.
type Output struct {
	Busy  bool
	Clear bool

	CoreEvents [2]bool

	OutputFillEnable      bool
	WeightShiftEnable     bool
	OutputWrapClockEnable bool

	Bounds Bounds

	Flush      bool
	Accumulate bool

	FirstLoad bool
	Storing   bool
	Finished  bool
	Rst       bool

	Done bool
}

// Scheduler sequences the accelerator through the load, compute, drain, and
// store phases.
type Scheduler struct {
	height int

	phase  Phase
	bounds Bounds

	weightRowCount uint32
	peDoneCount    uint32
	storeOpCount   uint32

	lastWeightRow bool
	accumPending  bool
	tileCounted   bool

	// cfgPushed mirrors the first-configuration-push latch of the
	// configuration slave. It arms the Idle-to-Starting path when a decode
	// completed in an earlier cycle.
	cfgPushed bool
}

// NewScheduler creates a scheduler for an array of the given height.
func NewScheduler(height int) *Scheduler {
	if height < 2 {
		panic("array height must be at least 2")
	}

	return &Scheduler{height: height}
}

// Phase returns the current phase.
func (s *Scheduler) Phase() Phase {
	return s.phase
}

// Bounds returns the iteration bounds latched for the current run.
func (s *Scheduler) Bounds() Bounds {
	return s.bounds
}

// Counters returns the current weight-row, PE-completion, and store-op
// counters.
func (s *Scheduler) Counters() (weightRow, peDone, storeOp uint32) {
	return s.weightRowCount, s.peDoneCount, s.storeOpCount
}

// Step advances the scheduler by one clock edge. Global clear is evaluated
// ahead of every other transition.
func (s *Scheduler) Step(in Input) Output {
	out := Output{}

	if in.Clear {
		s.reset()
		out.Clear = true
		out.OutputWrapClockEnable = true
		return out
	}

	switch s.phase {
	case PhaseIdle:
		s.stepIdle(in, &out)
	case PhaseConfig:
		s.stepConfig(in, &out)
	case PhaseStarting:
		s.stepStarting(in, &out)
	case PhaseComputing:
		s.stepComputing(in, &out)
	case PhaseBuffering:
		s.stepBuffering(in, &out)
	case PhaseStoring:
		s.stepStoring(in, &out)
	case PhaseFinished:
		s.stepFinished(&out)
	default:
		panic("invalid phase")
	}

	out.Bounds = s.bounds
	out.Accumulate = s.accumPending

	return out
}

func (s *Scheduler) reset() {
	s.phase = PhaseIdle
	s.weightRowCount = 0
	s.peDoneCount = 0
	s.storeOpCount = 0
	s.lastWeightRow = false
	s.accumPending = false
	s.tileCounted = false
	s.cfgPushed = false
}

func (s *Scheduler) stepIdle(in Input, out *Output) {
	s.weightRowCount = 0
	s.peDoneCount = 0
	s.storeOpCount = 0

	switch {
	case in.Start && in.ConfigDecodeValid:
		// Fast path: configuration decode completes in the same cycle as
		// the run request.
		s.phase = PhaseConfig
		out.Busy = true
	case in.Start && (s.cfgPushed || in.TestMode):
		s.bounds = in.Bounds
		s.phase = PhaseStarting
		out.Busy = true
	case in.ConfigDecodeValid:
		s.cfgPushed = true
	}
}

func (s *Scheduler) stepConfig(in Input, out *Output) {
	out.Busy = true

	s.weightRowCount = 0
	s.peDoneCount = 0
	s.storeOpCount = 0

	if in.ConfigDecodeValid {
		s.bounds = in.Bounds
		s.phase = PhaseStarting
	}
}

func (s *Scheduler) stepStarting(in Input, out *Output) {
	out.Busy = true
	out.FirstLoad = true
	out.WeightShiftEnable = in.RegisterEnable

	if in.WeightLoaded {
		s.weightRowCount++
		s.phase = PhaseComputing
	}
}

func (s *Scheduler) stepComputing(in Input, out *Output) {
	out.Busy = true
	out.WeightShiftEnable = in.RegisterEnable

	// Sticky flags visible this cycle are the values registered at the
	// previous edge.
	lastRowQ := s.lastWeightRow
	tileCountedQ := s.tileCounted

	if in.WeightLoaded {
		rowCount := s.weightRowCount + 1
		s.weightRowCount = rowCount

		if rowCount == uint32(s.height) && !s.tileCounted {
			s.tileCounted = true
		}

		if rowCount >= s.bounds.WeightRowsPerTile {
			if !s.tileCounted {
				s.tileCounted = true
			}
			if !s.lastWeightRow {
				s.lastWeightRow = true
			}
		}
	}

	if !lastRowQ {
		// A reset of the completion counter has priority over an
		// increment arriving in the same cycle.
		peDoneCleared := false

		if s.peDoneCount >= uint32(s.height-1) {
			if !s.accumPending {
				s.accumPending = true
			}
			if tileCountedQ {
				s.peDoneCount = 0
				peDoneCleared = true
			}
		}
		if in.RowDone && !peDoneCleared {
			s.peDoneCount++
		}

		return
	}

	// The final weight row short-circuits one pipeline stage, so the last
	// completion arrives one count early.
	if s.peDoneCount >= uint32(s.height-2) && in.RegisterEnable {
		s.weightRowCount = 1
		s.peDoneCount = 0
		s.accumPending = false
		s.tileCounted = false
		s.lastWeightRow = false
		s.phase = PhaseBuffering

		return
	}

	if in.RowDone {
		s.peDoneCount++
	}
}

func (s *Scheduler) stepBuffering(in Input, out *Output) {
	out.Busy = true
	out.OutputWrapClockEnable = true
	out.OutputFillEnable = in.RegisterEnable
	out.WeightShiftEnable = in.RegisterEnable

	// A new tile may already be streaming in while the array drains.
	if in.WeightLoaded {
		s.weightRowCount++
	}

	if in.OutputBufferFull {
		s.accumPending = true
		s.phase = PhaseStoring
	}
}

func (s *Scheduler) stepStoring(in Input, out *Output) {
	out.Busy = true
	out.Storing = true
	out.WeightShiftEnable = in.RegisterEnable

	if in.WeightLoaded {
		s.weightRowCount++
	}

	if !in.OutputBufferEmpty {
		return
	}

	if s.storeOpCount == s.bounds.TotalStoreOps-1 {
		s.storeOpCount = 0
		s.phase = PhaseFinished
		out.Finished = true

		return
	}

	if s.storeOpCount < s.bounds.TotalStoreOps {
		s.storeOpCount++
		s.phase = PhaseComputing
	}
}

func (s *Scheduler) stepFinished(out *Output) {
	out.Done = true
	out.Finished = true
	out.Flush = true
	out.Rst = true
	out.CoreEvents = [2]bool{true, true}

	s.reset()
}
