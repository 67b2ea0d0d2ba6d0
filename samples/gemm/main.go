package main

import (
	"flag"
	"fmt"

	"github.com/sarchlab/akita/v4/monitoring"
	"github.com/sarchlab/akita/v4/sim"
	"github.com/sarchlab/systolic/accel"
	"github.com/sarchlab/systolic/api"
	"github.com/sarchlab/systolic/platform"
	"github.com/sarchlab/systolic/util"
	"github.com/tebeka/atexit"
)

var filterDuplicates = flag.Bool("filter-duplicates", false,
	"collapse back-to-back identical weight fetches in the cache")
var redundantFetch = flag.Bool("redundant-fetch", false,
	"fetch every weight line twice, back to back")
var useMonitor = flag.Bool("monitor", false,
	"start the monitoring server")

func main() {
	flag.Parse()

	engine := sim.NewSerialEngine()

	builder := platform.MakeBuilder().
		WithEngine(engine).
		WithFreq(1 * sim.GHz).
		WithDuplicateDetection(*filterDuplicates).
		WithRedundantFetch(*redundantFetch)

	var monitor *monitoring.Monitor
	if *useMonitor {
		monitor = monitoring.NewMonitor()
		builder = builder.WithMonitor(monitor)
	}

	p := builder.Build("Platform")

	if monitor != nil {
		monitor.StartServer()
	}

	job := accel.JobConfig{
		XAddr:             0x0000,
		WAddr:             0x1000,
		YAddr:             0x2000,
		ZAddr:             0x3000,
		WeightRowsPerTile: 4,
		TotalStoreOps:     2,
	}

	seedWeights(p, job)

	api.LaunchJob(p.Driver, job)

	err := engine.Run()
	if err != nil {
		panic(err)
	}

	fmt.Printf("job done: %v, stores: %d\n",
		p.Driver.Done(), p.Array.StoresDone())
	printOutputs(p, job)

	atexit.Exit(0)
}

func seedWeights(p *platform.Platform, job accel.JobConfig) {
	rows := int(job.WeightRowsPerTile * job.TotalStoreOps)
	gen := util.MakeRampLineGen(1)
	for row := 0; row < rows; row++ {
		err := p.Memory.Storage.Write(
			job.WAddr+uint64(row)*accel.LineBytes, gen())
		if err != nil {
			panic(err)
		}
	}
}

func printOutputs(p *platform.Platform, job accel.JobConfig) {
	rows := int(job.TotalStoreOps) * accel.ArrayHeight
	for row := 0; row < rows; row++ {
		line, err := p.Memory.Storage.Read(
			job.ZAddr+uint64(row)*accel.LineBytes, accel.LineBytes)
		if err != nil {
			panic(err)
		}

		fmt.Printf("z[%2d]: %x\n", row, line)
	}
}
