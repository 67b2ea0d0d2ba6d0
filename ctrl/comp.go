// Package ctrl implements the control plane of the accelerator: the
// memory-mapped configuration slave and the phase scheduler that sequences
// the PE array through a job.
package ctrl

import (
	"encoding/binary"

	"github.com/sarchlab/akita/v4/mem/mem"
	"github.com/sarchlab/akita/v4/sim"
	"github.com/sarchlab/systolic/accel"
	"github.com/sarchlab/systolic/sched"
)

// Comp is the control-plane component. ConfigPort is the memory-mapped slave
// toward the driver. ProgressPort samples the pulses reported by the PE
// array. CmdPort drives the control bundle toward the array and delivers the
// job-done notification to the driver.
type Comp struct {
	*sim.TickingComponent

	ConfigPort   sim.Port
	ProgressPort sim.Port
	CmdPort      sim.Port

	arrayPort  sim.RemotePort
	driverPort sim.RemotePort

	testMode bool

	regs      *regFile
	scheduler *sched.Scheduler

	lastBundle accel.CommandBundle
	outgoing   []sim.Msg
}

// SetArray sets the remote port that receives command bundles.
func (c *Comp) SetArray(port sim.RemotePort) {
	c.arrayPort = port
}

// SetDriver sets the remote port that receives job-done notifications.
func (c *Comp) SetDriver(port sim.RemotePort) {
	c.driverPort = port
}

// Scheduler exposes the phase scheduler for observation.
func (c *Comp) Scheduler() *sched.Scheduler {
	return c.scheduler
}

// Tick advances the control plane by one cycle.
func (c *Comp) Tick() (madeProgress bool) {
	madeProgress = c.flushOutgoing() || madeProgress
	madeProgress = c.processConfigReq() || madeProgress
	madeProgress = c.step() || madeProgress

	return madeProgress
}

func (c *Comp) flushOutgoing() bool {
	madeProgress := false

	for len(c.outgoing) > 0 {
		if err := c.CmdPort.Send(c.outgoing[0]); err != nil {
			break
		}

		c.outgoing = c.outgoing[1:]
		madeProgress = true
	}

	return madeProgress
}

// processConfigReq serves at most one register access per cycle.
func (c *Comp) processConfigReq() bool {
	item := c.ConfigPort.PeekIncoming()
	if item == nil {
		return false
	}

	if !c.ConfigPort.CanSend() {
		return false
	}

	switch req := item.(type) {
	case *mem.WriteReq:
		c.ConfigPort.RetrieveIncoming()
		c.regs.write(req.Address, regValue(req.Data))

		rsp := mem.WriteDoneRspBuilder{}.
			WithSrc(c.ConfigPort.AsRemote()).
			WithDst(req.Src).
			WithRspTo(req.ID).
			Build()
		c.ConfigPort.Send(rsp)
	case *mem.ReadReq:
		c.ConfigPort.RetrieveIncoming()

		data := make([]byte, req.AccessByteSize)
		binary.LittleEndian.PutUint32(data[:4], c.regs.read(req.Address))

		rsp := mem.DataReadyRspBuilder{}.
			WithSrc(c.ConfigPort.AsRemote()).
			WithDst(req.Src).
			WithRspTo(req.ID).
			WithData(data).
			Build()
		c.ConfigPort.Send(rsp)
	default:
		panic("unknown configuration request type")
	}

	return true
}

func regValue(data []byte) uint32 {
	if len(data) < 4 {
		padded := make([]byte, 4)
		copy(padded, data)
		data = padded
	}

	return binary.LittleEndian.Uint32(data[:4])
}

// step evaluates one scheduler cycle from the sampled inputs and forwards the
// derived control state.
func (c *Comp) step() bool {
	in := sched.Input{
		TestMode:          c.testMode,
		Start:             c.regs.takeStart(),
		Clear:             c.regs.takeClear(),
		ConfigDecodeValid: c.regs.decodeValid,
		Bounds:            c.regs.bounds(),
	}

	progressSeen := false
	if msg := c.ProgressPort.RetrieveIncoming(); msg != nil {
		pm := msg.(*accel.ProgressMsg)
		in.WeightLoaded = pm.WeightLoaded
		in.RowDone = pm.RowDone
		in.RegisterEnable = pm.RegEnable
		in.OutputBufferFull = pm.BufferFull
		in.OutputBufferEmpty = pm.BufferEmpty
		progressSeen = true
	}

	out := c.scheduler.Step(in)
	c.regs.busy = out.Busy

	madeProgress := progressSeen || in.Start || in.Clear

	bundle := accel.CommandBundle{
		Clear:           out.Clear,
		FirstLoad:       out.FirstLoad,
		Storing:         out.Storing,
		Finished:        out.Finished,
		Rst:             out.Rst,
		Flush:           out.Flush,
		Accumulate:      out.Accumulate,
		FillEnable:      out.OutputFillEnable,
		ShiftEnable:     out.WeightShiftEnable,
		WrapClockEnable: out.OutputWrapClockEnable,
	}

	if bundle != c.lastBundle {
		cmd := accel.CommandMsgBuilder{}.
			WithSrc(c.CmdPort.AsRemote()).
			WithDst(c.arrayPort).
			WithBundle(bundle).
			WithJob(c.regs.job).
			Build()
		c.outgoing = append(c.outgoing, cmd)
		c.lastBundle = bundle

		madeProgress = true
	}

	if out.Done {
		c.regs.done = true

		done := accel.JobDoneMsgBuilder{}.
			WithSrc(c.CmdPort.AsRemote()).
			WithDst(c.driverPort).
			WithJobID(c.regs.jobID).
			Build()
		c.outgoing = append(c.outgoing, done)
		c.regs.jobID++

		madeProgress = true
	}

	if madeProgress {
		c.traceStep(out)
	}

	return madeProgress
}
