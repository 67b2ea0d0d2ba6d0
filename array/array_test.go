package array_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/akita/v4/sim"
	"github.com/sarchlab/akita/v4/sim/directconnection"
	"github.com/sarchlab/systolic/accel"
	"github.com/sarchlab/systolic/array"
	"github.com/sarchlab/systolic/dedup"
)

var _ = Describe("Array", func() {
	var (
		engine sim.Engine
		comp   *array.Comp
		fsm    *ctrlAgent
		memory *memAgent
	)

	job := accel.JobConfig{
		XAddr:             0x0000,
		WAddr:             0x1000,
		YAddr:             0x2000,
		ZAddr:             0x3000,
		WeightRowsPerTile: 4,
		TotalStoreOps:     2,
	}

	build := func(b array.Builder) {
		engine = sim.NewSerialEngine()

		comp = b.WithEngine(engine).WithFreq(1 * sim.GHz).Build("Array")
		fsm = newCtrlAgent(engine, "FSM")
		memory = newMemAgent(engine, "Memory")

		ctrlConn := directconnection.MakeBuilder().
			WithEngine(engine).
			WithFreq(1 * sim.GHz).
			Build("Conn.Ctrl")
		ctrlConn.PlugIn(fsm.Port)
		ctrlConn.PlugIn(comp.CtrlPort)

		memConn := directconnection.MakeBuilder().
			WithEngine(engine).
			WithFreq(1 * sim.GHz).
			Build("Conn.Mem")
		memConn.PlugIn(comp.MemPort)
		memConn.PlugIn(memory.TopPort)

		fsm.arrayPort = comp.CtrlPort.AsRemote()
		fsm.job = job
		comp.SetCtrl(fsm.Port.AsRemote())
		comp.SetMem(memory.TopPort.AsRemote())
	}

	run := func() {
		fsm.TickLater()
		Expect(engine.Run()).To(Succeed())
	}

	Context("running a two-tile job", func() {
		BeforeEach(func() {
			build(array.MakeBuilder())
			run()
		})

		It("should stream the weight rows in order", func() {
			// Four rows for the first tile, three for the second: the
			// first row of a follow-on tile streams during the drain.
			Expect(memory.ReadAddrs).To(HaveLen(7))
			for i, addr := range memory.ReadAddrs {
				Expect(addr).To(Equal(job.WAddr + uint64(i)*accel.LineBytes))
			}
		})

		It("should drain one line per buffer row", func() {
			Expect(memory.WriteAddrs).To(HaveLen(8))
			for i, addr := range memory.WriteAddrs {
				Expect(addr).To(Equal(job.ZAddr + uint64(i)*accel.LineBytes))
			}
			for _, data := range memory.WriteData {
				Expect(data).To(HaveLen(accel.LineBytes))
			}
		})

		It("should report one drain per store op and go idle", func() {
			Expect(fsm.StoresSeen).To(Equal(2))
			Expect(comp.StoresDone()).To(Equal(uint32(2)))
			Expect(comp.Idle()).To(BeTrue())
		})
	})

	Context("with redundant fetch enabled", func() {
		BeforeEach(func() {
			build(array.MakeBuilder().WithRedundantFetch(true))
			run()
		})

		It("should fetch every weight line twice, back to back", func() {
			Expect(memory.ReadAddrs).To(HaveLen(14))
			for i := 0; i < len(memory.ReadAddrs); i += 2 {
				Expect(memory.ReadAddrs[i]).To(Equal(memory.ReadAddrs[i+1]))
			}
		})

		It("should still complete the job", func() {
			Expect(fsm.StoresSeen).To(Equal(2))
			Expect(comp.Idle()).To(BeTrue())
		})
	})

	Context("when a clear arrives mid-run", func() {
		BeforeEach(func() {
			build(array.MakeBuilder())
			fsm.clearAfterPulses = 2
			run()
		})

		It("should abandon the run and go idle", func() {
			Expect(comp.Idle()).To(BeTrue())
			Expect(fsm.StoresSeen).To(BeZero())
		})
	})

	It("should produce the same store stream with the cache in between", func() {
		// Plumb the array through the deduplication cache and compare the
		// write payloads against the direct run above.
		direct := func(redundant bool) [][]byte {
			build(array.MakeBuilder().WithRedundantFetch(redundant))
			run()
			return memory.WriteData
		}
		baseline := direct(false)

		engine = sim.NewSerialEngine()
		comp = array.MakeBuilder().
			WithRedundantFetch(true).
			WithEngine(engine).
			WithFreq(1 * sim.GHz).
			Build("Array")
		fsm = newCtrlAgent(engine, "FSM")
		memory = newMemAgent(engine, "Memory")
		cache := dedup.MakeBuilder().
			WithEngine(engine).
			WithFreq(1 * sim.GHz).
			WithDuplicateDetection(true).
			Build("Cache")

		ctrlConn := directconnection.MakeBuilder().
			WithEngine(engine).
			WithFreq(1 * sim.GHz).
			Build("Conn.Ctrl")
		ctrlConn.PlugIn(fsm.Port)
		ctrlConn.PlugIn(comp.CtrlPort)

		topConn := directconnection.MakeBuilder().
			WithEngine(engine).
			WithFreq(1 * sim.GHz).
			Build("Conn.Top")
		topConn.PlugIn(comp.MemPort)
		topConn.PlugIn(cache.TopPort)

		bottomConn := directconnection.MakeBuilder().
			WithEngine(engine).
			WithFreq(1 * sim.GHz).
			Build("Conn.Bottom")
		bottomConn.PlugIn(cache.BottomPort)
		bottomConn.PlugIn(memory.TopPort)

		fsm.arrayPort = comp.CtrlPort.AsRemote()
		fsm.job = job
		comp.SetCtrl(fsm.Port.AsRemote())
		comp.SetMem(cache.TopPort.AsRemote())
		cache.SetRequester(comp.MemPort.AsRemote())
		cache.SetResponder(memory.TopPort.AsRemote())

		run()

		// Each line is fetched twice but reaches the memory only once.
		Expect(memory.ReadAddrs).To(HaveLen(7))
		Expect(memory.WriteData).To(Equal(baseline))
	})
})
