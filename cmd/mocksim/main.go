// mocksim 按交通信号模拟器的格式向标准输出打印交通事件，用于在没有模拟器构建时运行监控
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/tsinghua-fib-lab/signal-monitor/utils/mocksim"
)

var (
	seed          = flag.Uint64("seed", uint64(time.Now().UnixNano()), "random seed")
	steps         = flag.Int("steps", 0, "number of simulated seconds (0 means forever)")
	interval      = flag.Duration("interval", 100*time.Millisecond, "wall time per simulated second")
	intersections = flag.Int("intersections", 4, "number of intersections")
	vehicles      = flag.Int("vehicles", 10, "number of vehicles")
	phaseSteps    = flag.Int("phase", mocksim.DefaultPhaseSteps, "simulated seconds per phase")
)

func main() {
	flag.Parse()
	g := mocksim.New(mocksim.Options{
		Seed:          *seed,
		Intersections: *intersections,
		Vehicles:      *vehicles,
		PhaseSteps:    *phaseSteps,
	})
	w := bufio.NewWriter(os.Stdout)
	for i := 0; *steps == 0 || i < *steps; i++ {
		for _, line := range g.Step() {
			fmt.Fprintln(w, line)
		}
		if err := w.Flush(); err != nil {
			fmt.Fprintf(os.Stderr, "mocksim: write stdout: %v\n", err)
			os.Exit(1)
		}
		time.Sleep(*interval)
	}
}
