package array

import (
	"github.com/sarchlab/akita/v4/sim"
	"github.com/sarchlab/systolic/accel"
)

// Builder can build PE-array components.
type Builder struct {
	engine         sim.Engine
	freq           sim.Freq
	height         int
	redundantFetch bool
}

// MakeBuilder creates a builder with default parameters.
func MakeBuilder() Builder {
	return Builder{
		height: accel.ArrayHeight,
	}
}

// WithEngine sets the engine.
func (b Builder) WithEngine(engine sim.Engine) Builder {
	b.engine = engine
	return b
}

// WithFreq sets the frequency of the array.
func (b Builder) WithFreq(freq sim.Freq) Builder {
	b.freq = freq
	return b
}

// WithHeight sets the height of the array.
func (b Builder) WithHeight(height int) Builder {
	b.height = height
	return b
}

// WithRedundantFetch makes the streamer fetch every weight line twice, back
// to back.
func (b Builder) WithRedundantFetch(enable bool) Builder {
	b.redundantFetch = enable
	return b
}

// Build creates a PE-array component.
func (b Builder) Build(name string) *Comp {
	c := &Comp{
		height:         b.height,
		redundantFetch: b.redundantFetch,
	}

	c.TickingComponent = sim.NewTickingComponent(name, b.engine, b.freq, c)

	c.CtrlPort = sim.NewPort(c, 4, 4, name+".CtrlPort")
	c.AddPort("Ctrl", c.CtrlPort)
	c.MemPort = sim.NewPort(c, 4, 4, name+".MemPort")
	c.AddPort("Mem", c.MemPort)

	return c
}
