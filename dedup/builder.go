package dedup

import (
	"github.com/sarchlab/akita/v4/sim"
)

// DefaultQueueDepth bounds the number of in-flight reads the cache can
// track.
const DefaultQueueDepth = 32

// Builder can build deduplication caches.
type Builder struct {
	engine           sim.Engine
	freq             sim.Freq
	queueDepth       int
	detectDuplicates bool
}

// MakeBuilder creates a builder with default parameters.
func MakeBuilder() Builder {
	return Builder{
		queueDepth: DefaultQueueDepth,
	}
}

// WithEngine sets the engine.
func (b Builder) WithEngine(engine sim.Engine) Builder {
	b.engine = engine
	return b
}

// WithFreq sets the frequency of the cache.
func (b Builder) WithFreq(freq sim.Freq) Builder {
	b.freq = freq
	return b
}

// WithQueueDepth sets the capacity of the response-order queue.
func (b Builder) WithQueueDepth(depth int) Builder {
	b.queueDepth = depth
	return b
}

// WithDuplicateDetection enables the duplicate predicate. It ships disabled;
// the cache is then a transparent pass-through while all of its bookkeeping
// stays active.
func (b Builder) WithDuplicateDetection(enable bool) Builder {
	b.detectDuplicates = enable
	return b
}

// Build creates a deduplication cache.
func (b Builder) Build(name string) *Comp {
	c := &Comp{
		detectDuplicates: b.detectDuplicates,
		queue:            newOrderQueue(b.queueDepth),
	}

	c.TickingComponent = sim.NewTickingComponent(name, b.engine, b.freq, c)

	c.TopPort = sim.NewPort(c, 1, 1, name+".TopPort")
	c.AddPort("Top", c.TopPort)
	c.BottomPort = sim.NewPort(c, 1, 1, name+".BottomPort")
	c.AddPort("Bottom", c.BottomPort)

	return c
}

// SetRequester sets the remote port that receives the responses.
func (c *Comp) SetRequester(port sim.RemotePort) {
	c.reqPort = port
}

// SetResponder sets the remote port that forwarded requests are sent to.
func (c *Comp) SetResponder(port sim.RemotePort) {
	c.memPort = port
}
