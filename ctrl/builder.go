package ctrl

import (
	"github.com/sarchlab/akita/v4/sim"
	"github.com/sarchlab/systolic/accel"
	"github.com/sarchlab/systolic/sched"
)

// Builder can build control-plane components.
type Builder struct {
	engine      sim.Engine
	freq        sim.Freq
	arrayHeight int
	testMode    bool
}

// MakeBuilder creates a builder with default parameters.
func MakeBuilder() Builder {
	return Builder{
		arrayHeight: accel.ArrayHeight,
	}
}

// WithEngine sets the engine.
func (b Builder) WithEngine(engine sim.Engine) Builder {
	b.engine = engine
	return b
}

// WithFreq sets the frequency of the control plane.
func (b Builder) WithFreq(freq sim.Freq) Builder {
	b.freq = freq
	return b
}

// WithArrayHeight sets the height of the PE array being sequenced.
func (b Builder) WithArrayHeight(height int) Builder {
	b.arrayHeight = height
	return b
}

// WithTestMode lets runs start without a completed configuration decode.
func (b Builder) WithTestMode(enable bool) Builder {
	b.testMode = enable
	return b
}

// Build creates a control-plane component.
func (b Builder) Build(name string) *Comp {
	c := &Comp{
		testMode:  b.testMode,
		regs:      &regFile{},
		scheduler: sched.NewScheduler(b.arrayHeight),
	}

	c.TickingComponent = sim.NewTickingComponent(name, b.engine, b.freq, c)

	c.ConfigPort = sim.NewPort(c, 1, 1, name+".ConfigPort")
	c.AddPort("Config", c.ConfigPort)
	c.ProgressPort = sim.NewPort(c, 4, 4, name+".ProgressPort")
	c.AddPort("Progress", c.ProgressPort)
	c.CmdPort = sim.NewPort(c, 4, 4, name+".CmdPort")
	c.AddPort("Cmd", c.CmdPort)

	return c
}
