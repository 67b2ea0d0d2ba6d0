// Package api defines the driver API for the accelerator.
package api

import (
	"encoding/binary"

	"github.com/sarchlab/akita/v4/mem/mem"
	"github.com/sarchlab/akita/v4/sim"
	"github.com/sarchlab/systolic/accel"
	"github.com/sarchlab/systolic/ctrl"
)

//go:generate mockgen -destination "mock_api.go" -package $GOPACKAGE -write_package_comment=false -source driver.go

// Driver provides the interface to control an accelerator. Configuration and
// launch are non-blocking; the job completes while the simulation engine
// runs.
type Driver interface {
	// ConfigureJob stages the job registers and commits them with a
	// configuration push.
	ConfigureJob(job accel.JobConfig)

	// Start requests a run of the committed configuration.
	Start()

	// SoftClear abandons the run in flight and clears the committed
	// configuration.
	SoftClear()

	// Done reports whether the most recently started job has completed.
	Done() bool

	// JobsCompleted returns the ids of the completed jobs, in completion
	// order.
	JobsCompleted() []uint32

	// ConfigPort returns the port that carries register accesses.
	ConfigPort() sim.Port

	// NotifyPort returns the port that receives completion notifications.
	NotifyPort() sim.Port

	// SetAccel sets the remote configuration port of the accelerator.
	SetAccel(port sim.RemotePort)
}

// LaunchJob configures a job and starts it in one call.
func LaunchJob(d Driver, job accel.JobConfig) {
	d.ConfigureJob(job)
	d.Start()
}

type regWrite struct {
	offset uint64
	value  uint32
}

type driverImpl struct {
	*sim.TickingComponent

	configPort sim.Port
	notifyPort sim.Port
	target     sim.RemotePort

	writes      []regWrite
	outstanding bool

	jobDone   bool
	completed []uint32
}

func (d *driverImpl) ConfigureJob(job accel.JobConfig) {
	d.writes = append(d.writes,
		regWrite{ctrl.RegXAddr, uint32(job.XAddr)},
		regWrite{ctrl.RegWAddr, uint32(job.WAddr)},
		regWrite{ctrl.RegYAddr, uint32(job.YAddr)},
		regWrite{ctrl.RegZAddr, uint32(job.ZAddr)},
		regWrite{ctrl.RegWeightRows, job.WeightRowsPerTile},
		regWrite{ctrl.RegTotalStore, job.TotalStoreOps},
		regWrite{ctrl.RegPush, 1},
	)
	d.TickLater()
}

func (d *driverImpl) Start() {
	d.jobDone = false
	d.writes = append(d.writes, regWrite{ctrl.RegTrigger, 1})
	d.TickLater()
}

func (d *driverImpl) SoftClear() {
	d.writes = append(d.writes, regWrite{ctrl.RegSoftClear, 1})
	d.TickLater()
}

func (d *driverImpl) Done() bool {
	return d.jobDone
}

func (d *driverImpl) JobsCompleted() []uint32 {
	return d.completed
}

func (d *driverImpl) ConfigPort() sim.Port {
	return d.configPort
}

func (d *driverImpl) NotifyPort() sim.Port {
	return d.notifyPort
}

func (d *driverImpl) SetAccel(port sim.RemotePort) {
	d.target = port
}

// Tick advances the driver by one cycle. Register writes go out one at a
// time; each one waits for its acknowledgement.
func (d *driverImpl) Tick() (madeProgress bool) {
	madeProgress = d.collectConfigRsp() || madeProgress
	madeProgress = d.collectNotify() || madeProgress
	madeProgress = d.issueWrite() || madeProgress

	return madeProgress
}

func (d *driverImpl) collectConfigRsp() bool {
	if d.configPort.RetrieveIncoming() == nil {
		return false
	}

	d.outstanding = false

	return true
}

func (d *driverImpl) collectNotify() bool {
	msg := d.notifyPort.RetrieveIncoming()
	if msg == nil {
		return false
	}

	done := msg.(*accel.JobDoneMsg)
	d.jobDone = true
	d.completed = append(d.completed, done.JobID)

	return true
}

func (d *driverImpl) issueWrite() bool {
	if d.outstanding || len(d.writes) == 0 {
		return false
	}

	w := d.writes[0]
	data := make([]byte, 4)
	binary.LittleEndian.PutUint32(data, w.value)

	req := mem.WriteReqBuilder{}.
		WithSrc(d.configPort.AsRemote()).
		WithDst(d.target).
		WithAddress(w.offset).
		WithData(data).
		Build()

	if err := d.configPort.Send(req); err != nil {
		return false
	}

	d.writes = d.writes[1:]
	d.outstanding = true

	return true
}
