package ctrl

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/sarchlab/systolic/sched"
)

const (
	PrintToggle            = false
	LevelTrace  slog.Level = slog.LevelInfo + 1
)

func Trace(msg string, args ...any) {
	slog.Log(context.Background(), LevelTrace, msg, args...)
}

func (c *Comp) traceStep(out sched.Output) {
	wrc, peDone, storeOps := c.scheduler.Counters()
	Trace("scheduler step",
		"comp", c.Name(),
		"phase", c.scheduler.Phase().Name(),
		"weightRows", wrc,
		"peDone", peDone,
		"storeOps", storeOps,
		"busy", out.Busy,
	)

	PrintState(c)
}

// PrintState dumps the control-plane state as tables.
func PrintState(c *Comp) {
	if !PrintToggle {
		return
	}

	fmt.Printf("==============State@%s==============\n", c.Name())

	wrc, peDone, storeOps := c.scheduler.Counters()
	bounds := c.scheduler.Bounds()

	schedTable := table.NewWriter()
	schedTable.SetTitle("Scheduler")
	schedTable.AppendHeader(table.Row{
		"Phase", "WeightRows", "PEDone", "StoreOps", "RowsPerTile", "TotalStores",
	})
	schedTable.AppendRow(table.Row{
		c.scheduler.Phase().Name(), wrc, peDone, storeOps,
		bounds.WeightRowsPerTile, bounds.TotalStoreOps,
	})
	fmt.Println(schedTable.Render())
	fmt.Println()

	regTable := table.NewWriter()
	regTable.SetTitle("Job Registers")
	regTable.AppendHeader(table.Row{"X", "W", "Y", "Z", "JobID", "Busy", "Done"})
	regTable.AppendRow(table.Row{
		fmt.Sprintf("0x%x", c.regs.job.XAddr),
		fmt.Sprintf("0x%x", c.regs.job.WAddr),
		fmt.Sprintf("0x%x", c.regs.job.YAddr),
		fmt.Sprintf("0x%x", c.regs.job.ZAddr),
		c.regs.jobID, c.regs.busy, c.regs.done,
	})
	fmt.Println(regTable.Render())
	fmt.Println()
}
