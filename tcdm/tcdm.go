// Package tcdm models the shared tightly-coupled data memory. It is a
// single-port responder: requests are served strictly in order after a fixed
// latency, and responses carry the echoed transaction id, user tag, and an
// error-correction syndrome side-band.
package tcdm

import (
	"github.com/sarchlab/akita/v4/mem/mem"
	"github.com/sarchlab/akita/v4/sim"
	"github.com/sarchlab/systolic/accel"
)

type transaction struct {
	req        *accel.AccessReq
	cyclesLeft int
}

// Comp is the memory component. TopPort receives requests and returns
// responses.
type Comp struct {
	*sim.TickingComponent

	TopPort sim.Port

	Storage *mem.Storage
	latency int

	inflight []*transaction
}

// Tick advances the memory by one cycle.
func (c *Comp) Tick() (madeProgress bool) {
	madeProgress = c.respond() || madeProgress
	madeProgress = c.countDown() || madeProgress
	madeProgress = c.accept() || madeProgress

	return madeProgress
}

func (c *Comp) accept() bool {
	item := c.TopPort.PeekIncoming()
	req, ok := item.(*accel.AccessReq)
	if !ok {
		return false
	}

	c.TopPort.RetrieveIncoming()
	c.inflight = append(c.inflight, &transaction{
		req:        req,
		cyclesLeft: c.latency,
	})

	return true
}

func (c *Comp) countDown() bool {
	madeProgress := false
	for _, trans := range c.inflight {
		if trans.cyclesLeft > 0 {
			trans.cyclesLeft--
			madeProgress = true
		}
	}

	return madeProgress
}

// respond completes the oldest transaction once its latency has elapsed.
// Later transactions never overtake it.
func (c *Comp) respond() bool {
	if len(c.inflight) == 0 {
		return false
	}

	trans := c.inflight[0]
	if trans.cyclesLeft > 0 {
		return false
	}

	if !c.TopPort.CanSend() {
		return false
	}

	req := trans.req
	if req.Write {
		c.doWrite(req)
	}

	rsp := c.buildRsp(req)
	c.TopPort.Send(rsp)
	c.inflight = c.inflight[1:]

	return true
}

func (c *Comp) doWrite(req *accel.AccessReq) {
	current, err := c.Storage.Read(req.Address, uint64(len(req.Data)))
	if err != nil {
		panic(err)
	}

	for i, b := range req.Data {
		if req.ByteEnable&(1<<uint(i)) != 0 {
			current[i] = b
		}
	}

	err = c.Storage.Write(req.Address, current)
	if err != nil {
		panic(err)
	}
}

func (c *Comp) buildRsp(req *accel.AccessReq) *accel.AccessRsp {
	builder := accel.AccessRspBuilder{}.
		WithSrc(c.TopPort.AsRemote()).
		WithDst(req.Src).
		WithRspTo(req.ID).
		WithTranID(req.TranID).
		WithUser(req.User)

	if req.Write {
		return builder.WithOpcode(accel.OpcodeStore).Build()
	}

	data, err := c.Storage.Read(req.Address, accel.LineBytes)
	if err != nil {
		panic(err)
	}

	return builder.
		WithOpcode(accel.OpcodeLoad).
		WithData(data).
		WithEcc([]byte{Syndrome(data)}).
		Build()
}

// Syndrome folds a data line into the one-byte parity carried on the
// error-correction side-band.
func Syndrome(data []byte) byte {
	var s byte
	for _, b := range data {
		s ^= b
	}

	return s
}
