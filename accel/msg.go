package accel

import (
	"github.com/sarchlab/akita/v4/sim"
)

// An AccessReq is one transaction issued by the accelerator toward the
// tightly-coupled memory. The error-correction side-band rides on the same
// message as the main channel.
type AccessReq struct {
	sim.MsgMeta

	Address    uint64
	Write      bool
	Data       []byte
	ByteEnable uint32
	User       uint32
	TranID     uint32
	Ecc        []byte
}

// Meta returns the meta data of the message.
func (r *AccessReq) Meta() *sim.MsgMeta {
	return &r.MsgMeta
}

// Clone returns a copy of the message with a new ID.
func (r *AccessReq) Clone() sim.Msg {
	clone := *r
	clone.ID = sim.GetIDGenerator().Generate()
	return &clone
}

// AccessReqBuilder can build access requests.
type AccessReqBuilder struct {
	src, dst   sim.RemotePort
	address    uint64
	write      bool
	data       []byte
	byteEnable uint32
	user       uint32
	tranID     uint32
	ecc        []byte
}

// WithSrc sets the source port of the request.
func (b AccessReqBuilder) WithSrc(src sim.RemotePort) AccessReqBuilder {
	b.src = src
	return b
}

// WithDst sets the destination port of the request.
func (b AccessReqBuilder) WithDst(dst sim.RemotePort) AccessReqBuilder {
	b.dst = dst
	return b
}

// WithAddress sets the TCDM address of the request.
func (b AccessReqBuilder) WithAddress(address uint64) AccessReqBuilder {
	b.address = address
	return b
}

// AsWrite marks the request as a write carrying data under the byte-enable
// mask.
func (b AccessReqBuilder) AsWrite(data []byte, byteEnable uint32) AccessReqBuilder {
	b.write = true
	b.data = data
	b.byteEnable = byteEnable
	return b
}

// WithUser sets the user side-band tag of the request.
func (b AccessReqBuilder) WithUser(user uint32) AccessReqBuilder {
	b.user = user
	return b
}

// WithTranID sets the transaction id of the request.
func (b AccessReqBuilder) WithTranID(id uint32) AccessReqBuilder {
	b.tranID = id
	return b
}

// WithEcc sets the error-correction side-band payload of the request.
func (b AccessReqBuilder) WithEcc(ecc []byte) AccessReqBuilder {
	b.ecc = ecc
	return b
}

// Build creates an AccessReq.
func (b AccessReqBuilder) Build() *AccessReq {
	r := &AccessReq{}
	r.ID = sim.GetIDGenerator().Generate()
	r.Src = b.src
	r.Dst = b.dst
	r.TrafficBytes = len(b.data) + 8
	r.Address = b.address
	r.Write = b.write
	r.Data = b.data
	r.ByteEnable = b.byteEnable
	r.User = b.user
	r.TranID = b.tranID
	r.Ecc = b.ecc
	return r
}

// An AccessRsp answers one AccessReq. Write responses carry no data.
type AccessRsp struct {
	sim.MsgMeta

	RespondTo string

	Data     []byte
	TranID   uint32
	Opcode   Opcode
	User     uint32
	Ecc      []byte
	EccValid bool
}

// Meta returns the meta data of the message.
func (r *AccessRsp) Meta() *sim.MsgMeta {
	return &r.MsgMeta
}

// Clone returns a copy of the message with a new ID.
func (r *AccessRsp) Clone() sim.Msg {
	clone := *r
	clone.ID = sim.GetIDGenerator().Generate()
	return &clone
}

// GetRspTo returns the ID of the request this response answers.
func (r *AccessRsp) GetRspTo() string {
	return r.RespondTo
}

// AccessRspBuilder can build access responses.
type AccessRspBuilder struct {
	src, dst sim.RemotePort
	rspTo    string
	data     []byte
	tranID   uint32
	opcode   Opcode
	user     uint32
	ecc      []byte
	eccValid bool
}

// WithSrc sets the source port of the response.
func (b AccessRspBuilder) WithSrc(src sim.RemotePort) AccessRspBuilder {
	b.src = src
	return b
}

// WithDst sets the destination port of the response.
func (b AccessRspBuilder) WithDst(dst sim.RemotePort) AccessRspBuilder {
	b.dst = dst
	return b
}

// WithRspTo sets the ID of the request that the response answers.
func (b AccessRspBuilder) WithRspTo(id string) AccessRspBuilder {
	b.rspTo = id
	return b
}

// WithData sets the data of the response.
func (b AccessRspBuilder) WithData(data []byte) AccessRspBuilder {
	b.data = data
	return b
}

// WithTranID sets the transaction id of the response.
func (b AccessRspBuilder) WithTranID(id uint32) AccessRspBuilder {
	b.tranID = id
	return b
}

// WithOpcode sets the opcode of the response.
func (b AccessRspBuilder) WithOpcode(op Opcode) AccessRspBuilder {
	b.opcode = op
	return b
}

// WithUser sets the user side-band tag of the response.
func (b AccessRspBuilder) WithUser(user uint32) AccessRspBuilder {
	b.user = user
	return b
}

// WithEcc sets the error-correction side-band payload and marks it valid.
func (b AccessRspBuilder) WithEcc(ecc []byte) AccessRspBuilder {
	b.ecc = ecc
	b.eccValid = true
	return b
}

// Build creates an AccessRsp.
func (b AccessRspBuilder) Build() *AccessRsp {
	r := &AccessRsp{}
	r.ID = sim.GetIDGenerator().Generate()
	r.Src = b.src
	r.Dst = b.dst
	r.TrafficBytes = len(b.data) + 4
	r.RespondTo = b.rspTo
	r.Data = b.data
	r.TranID = b.tranID
	r.Opcode = b.opcode
	r.User = b.user
	r.Ecc = b.ecc
	r.EccValid = b.eccValid
	return r
}

// A ProgressMsg carries the progress pulses that the PE array and the output
// buffer report back to the control plane. Each set field is a one-cycle
// pulse.
type ProgressMsg struct {
	sim.MsgMeta

	WeightLoaded bool
	RowDone      bool
	RegEnable    bool
	BufferFull   bool
	BufferEmpty  bool
}

// Meta returns the meta data of the message.
func (m *ProgressMsg) Meta() *sim.MsgMeta {
	return &m.MsgMeta
}

// Clone returns a copy of the message with a new ID.
func (m *ProgressMsg) Clone() sim.Msg {
	clone := *m
	clone.ID = sim.GetIDGenerator().Generate()
	return &clone
}

// ProgressMsgBuilder can build progress messages.
type ProgressMsgBuilder struct {
	src, dst     sim.RemotePort
	weightLoaded bool
	rowDone      bool
	regEnable    bool
	bufferFull   bool
	bufferEmpty  bool
}

// WithSrc sets the source port of the message.
func (b ProgressMsgBuilder) WithSrc(src sim.RemotePort) ProgressMsgBuilder {
	b.src = src
	return b
}

// WithDst sets the destination port of the message.
func (b ProgressMsgBuilder) WithDst(dst sim.RemotePort) ProgressMsgBuilder {
	b.dst = dst
	return b
}

// WithWeightLoaded marks that one weight row has been consumed.
func (b ProgressMsgBuilder) WithWeightLoaded() ProgressMsgBuilder {
	b.weightLoaded = true
	return b
}

// WithRowDone marks that one PE in the last row has finished a weight row.
func (b ProgressMsgBuilder) WithRowDone() ProgressMsgBuilder {
	b.rowDone = true
	return b
}

// WithRegEnable marks that the datapath register-enable strobe is high in
// this cycle.
func (b ProgressMsgBuilder) WithRegEnable() ProgressMsgBuilder {
	b.regEnable = true
	return b
}

// WithBufferFull marks that the output buffer reports full.
func (b ProgressMsgBuilder) WithBufferFull() ProgressMsgBuilder {
	b.bufferFull = true
	return b
}

// WithBufferEmpty marks that the output buffer reports empty.
func (b ProgressMsgBuilder) WithBufferEmpty() ProgressMsgBuilder {
	b.bufferEmpty = true
	return b
}

// Build creates a ProgressMsg.
func (b ProgressMsgBuilder) Build() *ProgressMsg {
	m := &ProgressMsg{}
	m.ID = sim.GetIDGenerator().Generate()
	m.Src = b.src
	m.Dst = b.dst
	m.WeightLoaded = b.weightLoaded
	m.RowDone = b.rowDone
	m.RegEnable = b.regEnable
	m.BufferFull = b.bufferFull
	m.BufferEmpty = b.bufferEmpty
	return m
}

// A CommandBundle is the phase-qualified control state that the control plane
// drives toward the PE array and the output buffer.
type CommandBundle struct {
	Clear           bool
	FirstLoad       bool
	Storing         bool
	Finished        bool
	Rst             bool
	Flush           bool
	Accumulate      bool
	FillEnable      bool
	ShiftEnable     bool
	WrapClockEnable bool
}

// A CommandMsg delivers a control bundle together with a snapshot of the
// decoded job registers. A message is sent whenever the bundle changes.
type CommandMsg struct {
	sim.MsgMeta

	Bundle CommandBundle
	Job    JobConfig
}

// Meta returns the meta data of the message.
func (m *CommandMsg) Meta() *sim.MsgMeta {
	return &m.MsgMeta
}

// Clone returns a copy of the message with a new ID.
func (m *CommandMsg) Clone() sim.Msg {
	clone := *m
	clone.ID = sim.GetIDGenerator().Generate()
	return &clone
}

// CommandMsgBuilder can build command messages.
type CommandMsgBuilder struct {
	src, dst sim.RemotePort
	bundle   CommandBundle
	job      JobConfig
}

// WithSrc sets the source port of the message.
func (b CommandMsgBuilder) WithSrc(src sim.RemotePort) CommandMsgBuilder {
	b.src = src
	return b
}

// WithDst sets the destination port of the message.
func (b CommandMsgBuilder) WithDst(dst sim.RemotePort) CommandMsgBuilder {
	b.dst = dst
	return b
}

// WithBundle sets the control bundle carried by the message.
func (b CommandMsgBuilder) WithBundle(bundle CommandBundle) CommandMsgBuilder {
	b.bundle = bundle
	return b
}

// WithJob sets the decoded job snapshot carried by the message.
func (b CommandMsgBuilder) WithJob(job JobConfig) CommandMsgBuilder {
	b.job = job
	return b
}

// Build creates a CommandMsg.
func (b CommandMsgBuilder) Build() *CommandMsg {
	m := &CommandMsg{}
	m.ID = sim.GetIDGenerator().Generate()
	m.Src = b.src
	m.Dst = b.dst
	m.Bundle = b.bundle
	m.Job = b.job
	return m
}

// A JobDoneMsg notifies the driver that a job has run to completion.
type JobDoneMsg struct {
	sim.MsgMeta

	JobID uint32
}

// Meta returns the meta data of the message.
func (m *JobDoneMsg) Meta() *sim.MsgMeta {
	return &m.MsgMeta
}

// Clone returns a copy of the message with a new ID.
func (m *JobDoneMsg) Clone() sim.Msg {
	clone := *m
	clone.ID = sim.GetIDGenerator().Generate()
	return &clone
}

// JobDoneMsgBuilder can build job-done messages.
type JobDoneMsgBuilder struct {
	src, dst sim.RemotePort
	jobID    uint32
}

// WithSrc sets the source port of the message.
func (b JobDoneMsgBuilder) WithSrc(src sim.RemotePort) JobDoneMsgBuilder {
	b.src = src
	return b
}

// WithDst sets the destination port of the message.
func (b JobDoneMsgBuilder) WithDst(dst sim.RemotePort) JobDoneMsgBuilder {
	b.dst = dst
	return b
}

// WithJobID sets the id of the completed job.
func (b JobDoneMsgBuilder) WithJobID(id uint32) JobDoneMsgBuilder {
	b.jobID = id
	return b
}

// Build creates a JobDoneMsg.
func (b JobDoneMsgBuilder) Build() *JobDoneMsg {
	m := &JobDoneMsg{}
	m.ID = sim.GetIDGenerator().Generate()
	m.Src = b.src
	m.Dst = b.dst
	m.JobID = b.jobID
	return m
}
