package dedup_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/akita/v4/sim"
	"github.com/sarchlab/akita/v4/sim/directconnection"
	"github.com/sarchlab/systolic/accel"
	"github.com/sarchlab/systolic/dedup"
)

func readReq(addr uint64, tranID uint32) *accel.AccessReq {
	return accel.AccessReqBuilder{}.
		WithAddress(addr).
		WithTranID(tranID).
		WithUser(tranID + 100).
		Build()
}

func writeReq(addr uint64, tranID uint32, data []byte) *accel.AccessReq {
	return accel.AccessReqBuilder{}.
		WithAddress(addr).
		WithTranID(tranID).
		AsWrite(data, 0xFFFFFFFF).
		Build()
}

var _ = Describe("Cache", func() {
	var (
		engine    sim.Engine
		cache     *dedup.Comp
		requester *requesterAgent
		responder *responderAgent
	)

	build := func(b dedup.Builder) {
		engine = sim.NewSerialEngine()

		cache = b.WithEngine(engine).WithFreq(1 * sim.GHz).Build("Cache")
		requester = newRequesterAgent(engine, "Requester")
		responder = newResponderAgent(engine, "Responder")

		topConn := directconnection.MakeBuilder().
			WithEngine(engine).
			WithFreq(1 * sim.GHz).
			Build("Conn.Top")
		topConn.PlugIn(requester.MemPort)
		topConn.PlugIn(cache.TopPort)

		bottomConn := directconnection.MakeBuilder().
			WithEngine(engine).
			WithFreq(1 * sim.GHz).
			Build("Conn.Bottom")
		bottomConn.PlugIn(cache.BottomPort)
		bottomConn.PlugIn(responder.TopPort)

		requester.target = cache.TopPort.AsRemote()
		cache.SetRequester(requester.MemPort.AsRemote())
		cache.SetResponder(responder.TopPort.AsRemote())
	}

	run := func(script ...*accel.AccessReq) {
		requester.toSend = script
		requester.TickLater()

		Expect(engine.Run()).To(Succeed())
	}

	Context("with duplicate detection disabled", func() {
		BeforeEach(func() {
			build(dedup.MakeBuilder())
		})

		It("should forward repeated reads unchanged", func() {
			script := []*accel.AccessReq{
				readReq(0x100, 1),
				readReq(0x100, 2),
				readReq(0x140, 3),
			}
			run(script...)

			Expect(responder.ReadCount).To(Equal(3))
			Expect(requester.Rsps).To(HaveLen(3))

			for i, rsp := range requester.Rsps {
				Expect(rsp.RespondTo).To(Equal(script[i].ID))
				Expect(rsp.TranID).To(Equal(script[i].TranID))
				Expect(rsp.User).To(Equal(script[i].User))
				Expect(rsp.Data).To(Equal(patternLine(script[i].Address)))
			}
		})

		It("should keep one response per request with writes mixed in", func() {
			run(
				readReq(0x100, 1),
				writeReq(0x200, 2, patternLine(0x40)),
				readReq(0x100, 3),
			)

			Expect(responder.ReadCount).To(Equal(2))
			Expect(responder.WriteCount).To(Equal(1))
			Expect(requester.Rsps).To(HaveLen(3))
		})
	})

	Context("with duplicate detection enabled", func() {
		BeforeEach(func() {
			build(dedup.MakeBuilder().WithDuplicateDetection(true))
		})

		It("should forward a repeated read only once", func() {
			first := readReq(0x100, 1)
			second := readReq(0x100, 2)
			run(first, second)

			Expect(responder.ReadCount).To(Equal(1))
			Expect(requester.Rsps).To(HaveLen(2))
			Expect(requester.Rsps[0].RespondTo).To(Equal(first.ID))
			Expect(requester.Rsps[1].RespondTo).To(Equal(second.ID))
		})

		It("should replay the cached response bit for bit", func() {
			run(readReq(0x100, 1), readReq(0x100, 2))

			genuine := requester.Rsps[0]
			replayed := requester.Rsps[1]

			Expect(replayed.Data).To(Equal(genuine.Data))
			Expect(replayed.Opcode).To(Equal(genuine.Opcode))
			Expect(replayed.TranID).To(Equal(genuine.TranID))
			Expect(replayed.User).To(Equal(genuine.User))
			Expect(replayed.Ecc).To(Equal(genuine.Ecc))
			Expect(replayed.EccValid).To(Equal(genuine.EccValid))
		})

		It("should collapse a run of identical reads into one access", func() {
			script := []*accel.AccessReq{
				readReq(0x100, 1),
				readReq(0x100, 2),
				readReq(0x100, 3),
			}
			run(script...)

			Expect(responder.ReadCount).To(Equal(1))
			Expect(requester.Rsps).To(HaveLen(3))

			for i, rsp := range requester.Rsps {
				Expect(rsp.RespondTo).To(Equal(script[i].ID))
				Expect(rsp.Data).To(Equal(patternLine(0x100)))
			}
		})

		It("should not match across an intervening different access", func() {
			run(
				readReq(0x100, 1),
				readReq(0x140, 2),
				readReq(0x100, 3),
			)

			Expect(responder.ReadCount).To(Equal(3))
			Expect(requester.Rsps).To(HaveLen(3))
		})

		It("should never filter writes", func() {
			line := patternLine(0x40)
			run(
				writeReq(0x200, 1, line),
				writeReq(0x200, 2, line),
			)

			Expect(responder.WriteCount).To(Equal(2))
			Expect(requester.Rsps).To(HaveLen(2))
			for _, rsp := range requester.Rsps {
				Expect(rsp.Opcode).To(Equal(accel.OpcodeStore))
			}
		})

		It("should not pair a read with a write to the same address", func() {
			run(
				writeReq(0x200, 1, patternLine(0x40)),
				readReq(0x200, 2),
			)

			Expect(responder.WriteCount).To(Equal(1))
			Expect(responder.ReadCount).To(Equal(1))

			Expect(requester.Rsps).To(HaveLen(2))
			Expect(requester.Rsps[1].Data).To(Equal(patternLine(0x40)))
		})
	})

	Context("when the order queue fills up", func() {
		BeforeEach(func() {
			build(dedup.MakeBuilder().WithQueueDepth(2))
			responder.respond = false
		})

		It("should withhold the grant for further reads", func() {
			run(
				readReq(0x100, 1),
				readReq(0x140, 2),
				readReq(0x180, 3),
			)

			Expect(responder.ReadCount).To(Equal(2))
			Expect(requester.Rsps).To(BeEmpty())
		})
	})
})
