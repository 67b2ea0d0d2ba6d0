// Package platform assembles a complete accelerator instance: driver,
// control plane, PE array, deduplication cache, and TCDM, connected the way
// the hardware wires them.
package platform

import (
	"github.com/sarchlab/akita/v4/monitoring"
	"github.com/sarchlab/akita/v4/sim"
	"github.com/sarchlab/akita/v4/sim/directconnection"
	"github.com/sarchlab/systolic/api"
	"github.com/sarchlab/systolic/array"
	"github.com/sarchlab/systolic/ctrl"
	"github.com/sarchlab/systolic/dedup"
	"github.com/sarchlab/systolic/tcdm"
)

// A Platform is a fully-wired accelerator instance.
type Platform struct {
	Engine sim.Engine
	Driver api.Driver
	Ctrl   *ctrl.Comp
	Array  *array.Comp
	Cache  *dedup.Comp
	Memory *tcdm.Comp
}

// Builder can build platforms.
type Builder struct {
	engine          sim.Engine
	freq            sim.Freq
	monitor         *monitoring.Monitor
	duplicateDetect bool
	redundantFetch  bool
	memLatency      int
	memCapacity     uint64
}

// MakeBuilder creates a builder with default parameters.
func MakeBuilder() Builder {
	return Builder{
		freq:        1 * sim.GHz,
		memLatency:  1,
		memCapacity: 1 << 20,
	}
}

// WithEngine sets the engine. A serial engine is created when none is given.
func (b Builder) WithEngine(engine sim.Engine) Builder {
	b.engine = engine
	return b
}

// WithFreq sets the frequency of all the components.
func (b Builder) WithFreq(freq sim.Freq) Builder {
	b.freq = freq
	return b
}

// WithMonitor registers all the components with a monitor.
func (b Builder) WithMonitor(monitor *monitoring.Monitor) Builder {
	b.monitor = monitor
	return b
}

// WithDuplicateDetection enables the duplicate predicate of the cache.
func (b Builder) WithDuplicateDetection(enable bool) Builder {
	b.duplicateDetect = enable
	return b
}

// WithRedundantFetch makes the array fetch every weight line twice.
func (b Builder) WithRedundantFetch(enable bool) Builder {
	b.redundantFetch = enable
	return b
}

// WithMemLatency sets the TCDM access latency in cycles.
func (b Builder) WithMemLatency(latency int) Builder {
	b.memLatency = latency
	return b
}

// WithMemCapacity sets the TCDM capacity in bytes.
func (b Builder) WithMemCapacity(capacity uint64) Builder {
	b.memCapacity = capacity
	return b
}

// Build creates a platform.
func (b Builder) Build(name string) *Platform {
	p := &Platform{Engine: b.engine}
	if p.Engine == nil {
		p.Engine = sim.NewSerialEngine()
	}

	p.Driver = api.DriverBuilder{}.
		WithEngine(p.Engine).
		WithFreq(b.freq).
		Build(name + ".Driver")
	p.Ctrl = ctrl.MakeBuilder().
		WithEngine(p.Engine).
		WithFreq(b.freq).
		Build(name + ".Ctrl")
	p.Array = array.MakeBuilder().
		WithEngine(p.Engine).
		WithFreq(b.freq).
		WithRedundantFetch(b.redundantFetch).
		Build(name + ".Array")
	p.Cache = dedup.MakeBuilder().
		WithEngine(p.Engine).
		WithFreq(b.freq).
		WithDuplicateDetection(b.duplicateDetect).
		Build(name + ".Cache")
	p.Memory = tcdm.MakeBuilder().
		WithEngine(p.Engine).
		WithFreq(b.freq).
		WithLatency(b.memLatency).
		WithCapacity(b.memCapacity).
		Build(name + ".TCDM")

	b.connect(name, p)
	b.register(p)

	return p
}

func (b Builder) connect(name string, p *Platform) {
	configConn := directconnection.MakeBuilder().
		WithEngine(p.Engine).
		WithFreq(b.freq).
		Build(name + ".Conn.Config")
	configConn.PlugIn(p.Driver.ConfigPort())
	configConn.PlugIn(p.Ctrl.ConfigPort)

	ctrlConn := directconnection.MakeBuilder().
		WithEngine(p.Engine).
		WithFreq(b.freq).
		Build(name + ".Conn.Ctrl")
	ctrlConn.PlugIn(p.Ctrl.CmdPort)
	ctrlConn.PlugIn(p.Ctrl.ProgressPort)
	ctrlConn.PlugIn(p.Array.CtrlPort)
	ctrlConn.PlugIn(p.Driver.NotifyPort())

	accessConn := directconnection.MakeBuilder().
		WithEngine(p.Engine).
		WithFreq(b.freq).
		Build(name + ".Conn.Access")
	accessConn.PlugIn(p.Array.MemPort)
	accessConn.PlugIn(p.Cache.TopPort)

	memConn := directconnection.MakeBuilder().
		WithEngine(p.Engine).
		WithFreq(b.freq).
		Build(name + ".Conn.Mem")
	memConn.PlugIn(p.Cache.BottomPort)
	memConn.PlugIn(p.Memory.TopPort)

	p.Driver.SetAccel(p.Ctrl.ConfigPort.AsRemote())
	p.Ctrl.SetArray(p.Array.CtrlPort.AsRemote())
	p.Ctrl.SetDriver(p.Driver.NotifyPort().AsRemote())
	p.Array.SetCtrl(p.Ctrl.ProgressPort.AsRemote())
	p.Array.SetMem(p.Cache.TopPort.AsRemote())
	p.Cache.SetRequester(p.Array.MemPort.AsRemote())
	p.Cache.SetResponder(p.Memory.TopPort.AsRemote())
}

func (b Builder) register(p *Platform) {
	if b.monitor == nil {
		return
	}

	b.monitor.RegisterEngine(p.Engine)
	b.monitor.RegisterComponent(p.Ctrl)
	b.monitor.RegisterComponent(p.Array)
	b.monitor.RegisterComponent(p.Cache)
	b.monitor.RegisterComponent(p.Memory)
}
