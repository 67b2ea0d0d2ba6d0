// Package array models the PE array together with its streamer and its
// output buffer at the transaction level. The model does not compute matrix
// products cycle by cycle; it generates the memory traffic and the progress
// pulses of a run, paced by the command bundles from the control plane.
package array

import (
	"github.com/sarchlab/akita/v4/sim"
	"github.com/sarchlab/systolic/accel"
)

type runPhase int

const (
	phaseIdle runPhase = iota
	phaseLoading
	phaseCompleting
	phaseStrobing
	phaseFilling
	phaseWaitStore
	phaseDraining
	phaseWaitFinish
)

// Comp is the PE-array component. CtrlPort exchanges commands and progress
// pulses with the control plane. MemPort carries the weight loads and the
// result stores.
type Comp struct {
	*sim.TickingComponent

	CtrlPort sim.Port
	MemPort  sim.Port

	progressPort sim.RemotePort
	memPort      sim.RemotePort

	height int

	// redundantFetch re-issues every weight-row fetch once, back to back.
	// It models the two half-row streams sharing one line and gives the
	// deduplication cache something to collapse.
	redundantFetch bool

	job accel.JobConfig

	phase           runPhase
	rowsLeft        int
	fetchesLeft     int
	rowIndex        int
	completionsLeft int
	fillLeft        int
	writesLeft      int
	storesDone      uint32

	memOutstanding bool
	tranID         uint32

	pendingProgress []*accel.ProgressMsg
}

// SetCtrl sets the remote port that receives progress pulses.
func (c *Comp) SetCtrl(port sim.RemotePort) {
	c.progressPort = port
}

// SetMem sets the remote port that memory accesses are sent to.
func (c *Comp) SetMem(port sim.RemotePort) {
	c.memPort = port
}

// Tick advances the array by one cycle.
func (c *Comp) Tick() (madeProgress bool) {
	madeProgress = c.sendProgress() || madeProgress
	madeProgress = c.processMemRsp() || madeProgress
	madeProgress = c.processCmd() || madeProgress
	madeProgress = c.advance() || madeProgress

	return madeProgress
}

func (c *Comp) sendProgress() bool {
	madeProgress := false

	for len(c.pendingProgress) > 0 {
		if err := c.CtrlPort.Send(c.pendingProgress[0]); err != nil {
			break
		}

		c.pendingProgress = c.pendingProgress[1:]
		madeProgress = true
	}

	return madeProgress
}

func (c *Comp) queueProgress(
	build func(accel.ProgressMsgBuilder) accel.ProgressMsgBuilder,
) {
	msg := build(accel.ProgressMsgBuilder{}.
		WithSrc(c.CtrlPort.AsRemote()).
		WithDst(c.progressPort)).
		Build()
	c.pendingProgress = append(c.pendingProgress, msg)
}

func (c *Comp) processCmd() bool {
	item := c.CtrlPort.PeekIncoming()
	cmd, ok := item.(*accel.CommandMsg)
	if !ok {
		return false
	}

	c.CtrlPort.RetrieveIncoming()

	switch {
	case cmd.Bundle.Clear || cmd.Bundle.Rst:
		c.resetRun()
	case cmd.Bundle.FirstLoad && c.phase == phaseIdle:
		c.startRun(cmd.Job)
	case cmd.Bundle.WrapClockEnable && c.phase == phaseStrobing:
		c.phase = phaseFilling
		c.fillLeft = c.height
	case cmd.Bundle.Storing && c.phase == phaseWaitStore:
		c.phase = phaseDraining
		c.writesLeft = c.height
	}

	return true
}

func (c *Comp) resetRun() {
	c.phase = phaseIdle
	c.rowsLeft = 0
	c.fetchesLeft = 0
	c.rowIndex = 0
	c.completionsLeft = 0
	c.fillLeft = 0
	c.writesLeft = 0
	c.memOutstanding = false
}

func (c *Comp) startRun(job accel.JobConfig) {
	c.job = job
	c.phase = phaseLoading
	c.rowsLeft = int(job.WeightRowsPerTile)
	c.rowIndex = 0
	c.storesDone = 0
}

func (c *Comp) processMemRsp() bool {
	item := c.MemPort.PeekIncoming()
	rsp, ok := item.(*accel.AccessRsp)
	if !ok {
		return false
	}

	c.MemPort.RetrieveIncoming()
	c.memOutstanding = false

	// A response can still be in flight when a clear lands. Drop it.
	if c.phase == phaseIdle {
		return true
	}

	switch rsp.Opcode {
	case accel.OpcodeLoad:
		c.completeFetch()
	case accel.OpcodeStore:
		c.completeStore()
	default:
		panic("unexpected response opcode")
	}

	return true
}

func (c *Comp) completeFetch() {
	if c.fetchesLeft > 0 {
		// The same line is fetched again before the row counts as loaded.
		return
	}

	c.rowIndex++
	c.rowsLeft--
	c.queueProgress(
		func(b accel.ProgressMsgBuilder) accel.ProgressMsgBuilder {
			return b.WithWeightLoaded().WithRowDone()
		})

	if c.rowsLeft == 0 {
		c.phase = phaseCompleting
		c.completionsLeft = c.height - 2
	}
}

func (c *Comp) completeStore() {
	c.writesLeft--
	if c.writesLeft > 0 {
		return
	}

	c.queueProgress(
		func(b accel.ProgressMsgBuilder) accel.ProgressMsgBuilder {
			return b.WithBufferEmpty()
		})

	c.storesDone++
	if c.storesDone < c.job.TotalStoreOps {
		c.phase = phaseLoading
		c.rowsLeft = int(c.job.WeightRowsPerTile) - 1

		return
	}

	c.phase = phaseWaitFinish
}

func (c *Comp) advance() bool {
	switch c.phase {
	case phaseLoading:
		return c.issueFetch()
	case phaseCompleting:
		return c.issueCompletion()
	case phaseStrobing:
		return c.issueHeartbeat()
	case phaseFilling:
		return c.issueFill()
	case phaseDraining:
		return c.issueStore()
	default:
		return false
	}
}

func (c *Comp) issueFetch() bool {
	if c.memOutstanding || c.rowsLeft == 0 {
		return false
	}

	if c.fetchesLeft == 0 {
		c.fetchesLeft = 1
		if c.redundantFetch {
			c.fetchesLeft = 2
		}
	}

	addr := c.job.WAddr + uint64(c.rowIndex)*accel.LineBytes
	req := accel.AccessReqBuilder{}.
		WithSrc(c.MemPort.AsRemote()).
		WithDst(c.memPort).
		WithAddress(addr).
		WithTranID(c.nextTranID()).
		WithUser(uint32(c.rowIndex)).
		Build()

	if err := c.MemPort.Send(req); err != nil {
		return false
	}

	c.fetchesLeft--
	c.memOutstanding = true

	return true
}

func (c *Comp) issueCompletion() bool {
	if len(c.pendingProgress) > 0 {
		return false
	}

	if c.completionsLeft > 0 {
		c.completionsLeft--
		c.queueProgress(
			func(b accel.ProgressMsgBuilder) accel.ProgressMsgBuilder {
				return b.WithRowDone()
			})

		return true
	}

	c.phase = phaseStrobing

	return true
}

// issueHeartbeat keeps the register-enable strobe alive while the array waits
// for the control plane to open the output buffer.
func (c *Comp) issueHeartbeat() bool {
	if len(c.pendingProgress) > 0 {
		return false
	}

	c.queueProgress(
		func(b accel.ProgressMsgBuilder) accel.ProgressMsgBuilder {
			return b.WithRegEnable()
		})

	return true
}

func (c *Comp) issueFill() bool {
	if len(c.pendingProgress) > 0 {
		return false
	}

	if c.fillLeft > 0 {
		c.fillLeft--
		c.queueProgress(
			func(b accel.ProgressMsgBuilder) accel.ProgressMsgBuilder {
				return b.WithRegEnable()
			})

		return true
	}

	c.queueProgress(
		func(b accel.ProgressMsgBuilder) accel.ProgressMsgBuilder {
			return b.WithBufferFull()
		})
	c.phase = phaseWaitStore

	return true
}

func (c *Comp) issueStore() bool {
	if c.memOutstanding || c.writesLeft == 0 {
		return false
	}

	row := c.height - c.writesLeft
	addr := c.job.ZAddr +
		(uint64(c.storesDone)*uint64(c.height)+uint64(row))*accel.LineBytes

	req := accel.AccessReqBuilder{}.
		WithSrc(c.MemPort.AsRemote()).
		WithDst(c.memPort).
		WithAddress(addr).
		AsWrite(c.resultLine(int(c.storesDone), row), 0xFFFFFFFF).
		WithTranID(c.nextTranID()).
		WithUser(uint32(row)).
		Build()

	if err := c.MemPort.Send(req); err != nil {
		return false
	}

	c.memOutstanding = true

	return true
}

// resultLine derives a deterministic output line for one buffer row. The
// arithmetic stands in for the accumulated products of the tile.
func (c *Comp) resultLine(tile, row int) []byte {
	line := make([]byte, accel.LineBytes)
	for i := range line {
		line[i] = byte(c.job.WAddr>>4) ^ byte(tile*16+row*4+i)
	}

	return line
}

func (c *Comp) nextTranID() uint32 {
	id := c.tranID
	c.tranID++

	return id
}

// StoresDone returns the number of completed output-buffer drains.
func (c *Comp) StoresDone() uint32 {
	return c.storesDone
}

// Idle reports whether the array has no run in flight.
func (c *Comp) Idle() bool {
	return c.phase == phaseIdle
}
