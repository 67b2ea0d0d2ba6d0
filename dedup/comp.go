// Package dedup implements the access deduplication cache. The cache sits
// between a single memory requester and a single memory responder. It can
// suppress an immediately-repeated identical read and later reconstruct the
// suppressed read's response from a cached copy of the most recent genuine
// response, keeping the response stream indistinguishable from one produced
// by re-issuing the transaction.
package dedup

import (
	"github.com/sarchlab/akita/v4/sim"
	"github.com/sarchlab/systolic/accel"
)

// cachedRsp is a snapshot of the most recent genuine response's full field
// set. It is overwritten on every genuine response and read only when a
// suppressed read's turn in the response stream arrives.
type cachedRsp struct {
	valid bool

	data     []byte
	tranID   uint32
	opcode   accel.Opcode
	user     uint32
	ecc      []byte
	eccValid bool
}

// Comp is the deduplication cache component. TopPort faces the requester,
// BottomPort faces the responder.
type Comp struct {
	*sim.TickingComponent

	TopPort    sim.Port
	BottomPort sim.Port

	reqPort sim.RemotePort
	memPort sim.RemotePort

	// detectDuplicates gates the duplicate predicate. The supporting
	// bookkeeping stays active even while detection is off, so the cache
	// is byte-for-byte transparent in that mode.
	detectDuplicates bool

	prevValid bool
	prevAddr  uint64
	prevWrite bool

	cache cachedRsp
	queue *orderQueue
}

// Tick updates the cache by one cycle. Responses are delivered before
// requests are accepted, so an order-queue entry pushed in this cycle cannot
// be consumed before the next one.
func (c *Comp) Tick() (madeProgress bool) {
	madeProgress = c.deliverWriteRsps() || madeProgress
	madeProgress = c.deliverReadRsp() || madeProgress
	madeProgress = c.acceptReq() || madeProgress

	return madeProgress
}

// deliverWriteRsps passes write responses through unmodified. The write path
// has no response to synthesize, so it never touches the order queue.
func (c *Comp) deliverWriteRsps() bool {
	madeProgress := false

	for {
		item := c.BottomPort.PeekIncoming()
		rsp, ok := item.(*accel.AccessRsp)
		if !ok || rsp.Opcode != accel.OpcodeStore {
			break
		}

		if !c.TopPort.CanSend() {
			break
		}

		c.BottomPort.RetrieveIncoming()
		rsp.Meta().Src = c.TopPort.AsRemote()
		rsp.Meta().Dst = c.reqPort
		c.TopPort.Send(rsp)

		madeProgress = true
	}

	return madeProgress
}

// deliverReadRsp consumes at most one response-stream slot from the head of
// the order queue. A suppressed entry is answered from the cache without
// consuming a genuine response; a genuine entry forwards the responder's
// response untouched and refreshes the cache.
func (c *Comp) deliverReadRsp() bool {
	if c.queue.empty() {
		return false
	}

	head := c.queue.peek()

	if head.wasFiltered {
		return c.synthesizeRsp(head)
	}

	item := c.BottomPort.PeekIncoming()
	rsp, ok := item.(*accel.AccessRsp)
	if !ok || rsp.Opcode == accel.OpcodeStore {
		return false
	}

	if !c.TopPort.CanSend() {
		return false
	}

	c.BottomPort.RetrieveIncoming()
	c.refreshCache(rsp)

	rsp.Meta().Src = c.TopPort.AsRemote()
	rsp.Meta().Dst = c.reqPort
	c.TopPort.Send(rsp)
	c.queue.pop()

	return true
}

func (c *Comp) synthesizeRsp(head pendingRead) bool {
	// Unreachable by construction: the first transaction can never be
	// flagged a duplicate.
	if !c.cache.valid {
		panic("replay requested without a cached response")
	}

	builder := accel.AccessRspBuilder{}.
		WithSrc(c.TopPort.AsRemote()).
		WithDst(c.reqPort).
		WithRspTo(head.reqID).
		WithData(c.cache.data).
		WithTranID(c.cache.tranID).
		WithOpcode(c.cache.opcode).
		WithUser(c.cache.user)
	if c.cache.eccValid {
		builder = builder.WithEcc(c.cache.ecc)
	}
	rsp := builder.Build()

	err := c.TopPort.Send(rsp)
	if err != nil {
		return false
	}

	c.queue.pop()

	return true
}

func (c *Comp) refreshCache(rsp *accel.AccessRsp) {
	c.cache.valid = true
	c.cache.data = append([]byte(nil), rsp.Data...)
	c.cache.tranID = rsp.TranID
	c.cache.opcode = rsp.Opcode
	c.cache.user = rsp.User
	c.cache.ecc = append([]byte(nil), rsp.Ecc...)
	c.cache.eccValid = rsp.EccValid
}

// acceptReq grants at most one request per cycle. A read is granted only if
// the order queue has space; a forwarded request additionally needs the
// responder-facing port to accept it. A duplicate read is granted locally
// without forwarding.
func (c *Comp) acceptReq() bool {
	item := c.TopPort.PeekIncoming()
	req, ok := item.(*accel.AccessReq)
	if !ok {
		return false
	}

	isRead := !req.Write

	if isRead && c.queue.full() {
		return false
	}

	if isRead && c.isDuplicate(req) {
		c.TopPort.RetrieveIncoming()
		c.latchPrev(req)
		c.queue.push(pendingRead{wasFiltered: true, reqID: req.ID})

		return true
	}

	if !c.BottomPort.CanSend() {
		return false
	}

	c.TopPort.RetrieveIncoming()
	c.latchPrev(req)

	if isRead {
		c.queue.push(pendingRead{reqID: req.ID})
	}

	req.Meta().Src = c.BottomPort.AsRemote()
	req.Meta().Dst = c.memPort
	c.BottomPort.Send(req)

	return true
}

// isDuplicate reports whether the request is back-to-back identical in
// address and mode to the immediately preceding accepted request.
func (c *Comp) isDuplicate(req *accel.AccessReq) bool {
	if !c.detectDuplicates {
		return false
	}

	return c.prevValid &&
		req.Address == c.prevAddr &&
		req.Write == c.prevWrite
}

func (c *Comp) latchPrev(req *accel.AccessReq) {
	c.prevValid = true
	c.prevAddr = req.Address
	c.prevWrite = req.Write
}
