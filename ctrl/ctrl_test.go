package ctrl_test

import (
	"encoding/binary"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/akita/v4/mem/mem"
	"github.com/sarchlab/akita/v4/sim"
	"github.com/sarchlab/akita/v4/sim/directconnection"
	"github.com/sarchlab/systolic/accel"
	"github.com/sarchlab/systolic/ctrl"
)

type regWrite struct {
	offset uint64
	value  uint32
}

// A harnessAgent plays the driver and the PE array at the same time: it
// programs the configuration slave, then replays a scripted pulse stream, and
// records everything the control plane sends back.
type harnessAgent struct {
	*sim.TickingComponent

	ConfigPort sim.Port
	CtrlPort   sim.Port

	configTarget   sim.RemotePort
	progressTarget sim.RemotePort

	writes      []regWrite
	reads       []uint64
	readsWait   bool
	progress    []*accel.ProgressMsg
	outstanding bool

	Cmds       []*accel.CommandMsg
	Done       []*accel.JobDoneMsg
	ReadValues []uint32
}

func newHarnessAgent(engine sim.Engine, name string) *harnessAgent {
	a := &harnessAgent{}
	a.TickingComponent = sim.NewTickingComponent(name, engine, 1*sim.GHz, a)
	a.ConfigPort = sim.NewPort(a, 4, 4, name+".ConfigPort")
	a.AddPort("Config", a.ConfigPort)
	a.CtrlPort = sim.NewPort(a, 4, 4, name+".CtrlPort")
	a.AddPort("Ctrl", a.CtrlPort)

	return a
}

func (a *harnessAgent) Tick() bool {
	madeProgress := false

	madeProgress = a.collectConfigRsp() || madeProgress
	madeProgress = a.collectCtrlMsg() || madeProgress
	madeProgress = a.issueConfigReq() || madeProgress
	madeProgress = a.issueProgress() || madeProgress

	return madeProgress
}

func (a *harnessAgent) collectConfigRsp() bool {
	msg := a.ConfigPort.RetrieveIncoming()
	if msg == nil {
		return false
	}

	if rsp, ok := msg.(*mem.DataReadyRsp); ok {
		a.ReadValues = append(a.ReadValues,
			binary.LittleEndian.Uint32(rsp.Data[:4]))
	}
	a.outstanding = false

	return true
}

func (a *harnessAgent) collectCtrlMsg() bool {
	msg := a.CtrlPort.RetrieveIncoming()
	if msg == nil {
		return false
	}

	switch msg := msg.(type) {
	case *accel.CommandMsg:
		a.Cmds = append(a.Cmds, msg)
	case *accel.JobDoneMsg:
		a.Done = append(a.Done, msg)
	default:
		panic("unknown control message type")
	}

	return true
}

func (a *harnessAgent) issueConfigReq() bool {
	if a.outstanding {
		return false
	}

	if len(a.writes) > 0 {
		w := a.writes[0]
		data := make([]byte, 4)
		binary.LittleEndian.PutUint32(data, w.value)

		req := mem.WriteReqBuilder{}.
			WithSrc(a.ConfigPort.AsRemote()).
			WithDst(a.configTarget).
			WithAddress(w.offset).
			WithData(data).
			Build()
		if err := a.ConfigPort.Send(req); err != nil {
			return false
		}

		a.writes = a.writes[1:]
		a.outstanding = true

		return true
	}

	// Reads run after the pulse script has fully drained and, when asked
	// for, after the job-done notification has come back.
	if a.readsWait && len(a.Done) == 0 {
		return false
	}

	if len(a.progress) == 0 && len(a.reads) > 0 {
		req := mem.ReadReqBuilder{}.
			WithSrc(a.ConfigPort.AsRemote()).
			WithDst(a.configTarget).
			WithAddress(a.reads[0]).
			WithByteSize(4).
			Build()
		if err := a.ConfigPort.Send(req); err != nil {
			return false
		}

		a.reads = a.reads[1:]
		a.outstanding = true

		return true
	}

	return false
}

func (a *harnessAgent) issueProgress() bool {
	// The pulse script only starts once the configuration sequence is done.
	if len(a.writes) > 0 || a.outstanding {
		return false
	}

	if len(a.progress) == 0 {
		return false
	}

	msg := a.progress[0]
	msg.Meta().Src = a.CtrlPort.AsRemote()
	msg.Meta().Dst = a.progressTarget

	if err := a.CtrlPort.Send(msg); err != nil {
		return false
	}

	a.progress = a.progress[1:]

	return true
}

var _ = Describe("Ctrl", func() {
	var (
		engine sim.Engine
		comp   *ctrl.Comp
		agent  *harnessAgent
	)

	BeforeEach(func() {
		engine = sim.NewSerialEngine()

		comp = ctrl.MakeBuilder().
			WithEngine(engine).
			WithFreq(1 * sim.GHz).
			Build("Ctrl")
		agent = newHarnessAgent(engine, "Agent")

		configConn := directconnection.MakeBuilder().
			WithEngine(engine).
			WithFreq(1 * sim.GHz).
			Build("Conn.Config")
		configConn.PlugIn(agent.ConfigPort)
		configConn.PlugIn(comp.ConfigPort)

		ctrlConn := directconnection.MakeBuilder().
			WithEngine(engine).
			WithFreq(1 * sim.GHz).
			Build("Conn.Ctrl")
		ctrlConn.PlugIn(agent.CtrlPort)
		ctrlConn.PlugIn(comp.CmdPort)
		ctrlConn.PlugIn(comp.ProgressPort)

		agent.configTarget = comp.ConfigPort.AsRemote()
		agent.progressTarget = comp.ProgressPort.AsRemote()
		comp.SetArray(agent.CtrlPort.AsRemote())
		comp.SetDriver(agent.CtrlPort.AsRemote())
	})

	configureJob := func() []regWrite {
		return []regWrite{
			{ctrl.RegXAddr, 0x0000},
			{ctrl.RegWAddr, 0x1000},
			{ctrl.RegYAddr, 0x2000},
			{ctrl.RegZAddr, 0x3000},
			{ctrl.RegWeightRows, 4},
			{ctrl.RegTotalStore, 1},
			{ctrl.RegPush, 1},
			{ctrl.RegTrigger, 1},
		}
	}

	pulse := func(build func(accel.ProgressMsgBuilder) accel.ProgressMsgBuilder,
	) *accel.ProgressMsg {
		return build(accel.ProgressMsgBuilder{}).Build()
	}

	oneTileScript := func() []*accel.ProgressMsg {
		script := []*accel.ProgressMsg{}
		for i := 0; i < 4; i++ {
			script = append(script, pulse(
				func(b accel.ProgressMsgBuilder) accel.ProgressMsgBuilder {
					return b.WithWeightLoaded()
				}))
		}
		for i := 0; i < 2; i++ {
			script = append(script, pulse(
				func(b accel.ProgressMsgBuilder) accel.ProgressMsgBuilder {
					return b.WithRowDone()
				}))
		}
		script = append(script, pulse(
			func(b accel.ProgressMsgBuilder) accel.ProgressMsgBuilder {
				return b.WithRegEnable()
			}))
		script = append(script, pulse(
			func(b accel.ProgressMsgBuilder) accel.ProgressMsgBuilder {
				return b.WithBufferFull()
			}))
		script = append(script, pulse(
			func(b accel.ProgressMsgBuilder) accel.ProgressMsgBuilder {
				return b.WithBufferEmpty()
			}))

		return script
	}

	It("should run a one-tile job to completion", func() {
		agent.writes = configureJob()
		agent.progress = oneTileScript()
		agent.reads = []uint64{ctrl.RegStatus}
		agent.readsWait = true
		agent.TickLater()

		Expect(engine.Run()).To(Succeed())

		Expect(agent.Done).To(HaveLen(1))
		Expect(agent.Done[0].JobID).To(Equal(uint32(0)))

		Expect(agent.ReadValues).To(HaveLen(1))
		Expect(agent.ReadValues[0] & ctrl.StatusDone).NotTo(BeZero())
		Expect(agent.ReadValues[0] & ctrl.StatusBusy).To(BeZero())
	})

	It("should sequence the command bundles through the run", func() {
		agent.writes = configureJob()
		agent.progress = oneTileScript()
		agent.TickLater()

		Expect(engine.Run()).To(Succeed())

		firstLoad := -1
		storing := -1
		finished := -1
		for i, cmd := range agent.Cmds {
			if cmd.Bundle.FirstLoad && firstLoad < 0 {
				firstLoad = i
			}
			if cmd.Bundle.Storing && storing < 0 {
				storing = i
			}
			if cmd.Bundle.Rst && finished < 0 {
				finished = i
			}
		}

		Expect(firstLoad).To(BeNumerically(">=", 0))
		Expect(storing).To(BeNumerically(">", firstLoad))
		Expect(finished).To(BeNumerically(">", storing))

		last := agent.Cmds[len(agent.Cmds)-1]
		Expect(last.Bundle).To(Equal(accel.CommandBundle{}))
	})

	It("should snapshot the decoded job registers into the commands", func() {
		agent.writes = configureJob()
		agent.progress = oneTileScript()
		agent.TickLater()

		Expect(engine.Run()).To(Succeed())

		var firstLoadCmd *accel.CommandMsg
		for _, cmd := range agent.Cmds {
			if cmd.Bundle.FirstLoad {
				firstLoadCmd = cmd
				break
			}
		}

		Expect(firstLoadCmd).NotTo(BeNil())
		Expect(firstLoadCmd.Job.WAddr).To(Equal(uint64(0x1000)))
		Expect(firstLoadCmd.Job.ZAddr).To(Equal(uint64(0x3000)))
		Expect(firstLoadCmd.Job.WeightRowsPerTile).To(Equal(uint32(4)))
		Expect(firstLoadCmd.Job.TotalStoreOps).To(Equal(uint32(1)))
	})

	It("should assert the wrap clock on a soft clear", func() {
		agent.writes = []regWrite{{ctrl.RegSoftClear, 1}}
		agent.TickLater()

		Expect(engine.Run()).To(Succeed())

		var clearCmd *accel.CommandMsg
		for _, cmd := range agent.Cmds {
			if cmd.Bundle.WrapClockEnable {
				clearCmd = cmd
				break
			}
		}

		Expect(clearCmd).NotTo(BeNil())
		Expect(clearCmd.Bundle.Clear).To(BeTrue())
	})
})
