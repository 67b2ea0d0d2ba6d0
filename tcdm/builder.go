package tcdm

import (
	"github.com/sarchlab/akita/v4/mem/mem"
	"github.com/sarchlab/akita/v4/sim"
)

// Builder can build TCDM components.
type Builder struct {
	engine   sim.Engine
	freq     sim.Freq
	latency  int
	capacity uint64
	storage  *mem.Storage
}

// MakeBuilder creates a builder with default parameters.
func MakeBuilder() Builder {
	return Builder{
		latency:  1,
		capacity: 1 << 20,
	}
}

// WithEngine sets the engine.
func (b Builder) WithEngine(engine sim.Engine) Builder {
	b.engine = engine
	return b
}

// WithFreq sets the frequency of the memory.
func (b Builder) WithFreq(freq sim.Freq) Builder {
	b.freq = freq
	return b
}

// WithLatency sets the access latency in cycles.
func (b Builder) WithLatency(latency int) Builder {
	b.latency = latency
	return b
}

// WithCapacity sets the capacity of the backing storage in bytes.
func (b Builder) WithCapacity(capacity uint64) Builder {
	b.capacity = capacity
	return b
}

// WithStorage lets the memory share a pre-existing storage.
func (b Builder) WithStorage(storage *mem.Storage) Builder {
	b.storage = storage
	return b
}

// Build creates a TCDM component.
func (b Builder) Build(name string) *Comp {
	c := &Comp{
		Storage: b.storage,
		latency: b.latency,
	}

	if c.Storage == nil {
		c.Storage = mem.NewStorage(b.capacity)
	}

	c.TickingComponent = sim.NewTickingComponent(name, b.engine, b.freq, c)

	c.TopPort = sim.NewPort(c, 1, 1, name+".TopPort")
	c.AddPort("Top", c.TopPort)

	return c
}
