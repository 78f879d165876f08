package driver

import (
	"fmt"
	"io"
	"time"

	"github.com/jrsantos/ffsb/internal/config"
	"github.com/jrsantos/ffsb/internal/ops"
	"github.com/jrsantos/ffsb/internal/stats"
	"github.com/jrsantos/ffsb/internal/workload"
	"github.com/jrsantos/ffsb/pkg/fs"
)

// printReport writes the per-group report (only when more than one thread
// group ran) followed by the grand-total report and, if any group
// collected latency data, the merged latency table — §6 "Stdout report".
func printReport(stdout io.Writer, profile *config.Profile, groups []*workload.Group, elapsed time.Duration) {
	elapsedSec := elapsed.Seconds()
	multi := len(profile.Groups) > 1

	var grand ops.Results
	var grandWeight config.ThreadGroup
	var grandStats *stats.Data

	for i, g := range groups {
		if multi {
			fmt.Fprintf(stdout, "\n=== Thread Group %d ===\n", i)
			ops.PrintResults(stdout, g.TG, g.Results(), elapsedSec)
			if g.Stats() != nil {
				printStatsTable(stdout, g.Stats())
			}
		}

		grand.Add(g.Results())
		for op := config.OpCode(0); op < config.NumOps; op++ {
			grandWeight.Weight[op] += g.TG.Weight[op]
		}

		if g.Stats() != nil {
			if grandStats == nil {
				statsCfg := buildStatsConfig(g.TG.Stats)
				grandStats = stats.NewData(statsCfg)
			}
			stats.Merge(grandStats, g.Stats())
		}
	}

	if multi {
		fmt.Fprintln(stdout, "\n=== Total Results ===")
	}
	ops.PrintResults(stdout, &grandWeight, &grand, elapsedSec)

	if grandStats != nil {
		printStatsTable(stdout, grandStats)
	}
}

func printStatsTable(stdout io.Writer, d *stats.Data) {
	fmt.Fprintln(stdout, "-\nLatency (microseconds):")
	fmt.Fprintf(stdout, "%10s %12s %12s %12s %12s\n", "syscall", "count", "mean", "min", "max")
	for s := stats.Syscall(0); int(s) < 7; s++ {
		if d.Count(s) == 0 {
			continue
		}
		fmt.Fprintf(stdout, "%10s %12d %12.2f %12.2f %12.2f\n",
			s.String(), d.Count(s), d.Mean(s), d.Min(s), d.Max(s))
	}
}

// printCPUUtilization writes the three rusage-derived percentage lines,
// in the original's exact format (main.c's print_rusage_stats): user
// time, system time, and overall CPU utilization, each as a percentage
// of wall-clock elapsed time.
func printCPUUtilization(stdout io.Writer, cpu fs.CPUTimes, elapsed time.Duration) {
	elapsedSec := elapsed.Seconds()
	if elapsedSec <= 0 {
		return
	}

	fmt.Fprintf(stdout, "%.1f%% User   Time\n", 100*cpu.UserSec/elapsedSec)
	fmt.Fprintf(stdout, "%.1f%% System Time\n", 100*cpu.SysSec/elapsedSec)
	fmt.Fprintf(stdout, "%.1f%% CPU Utilization\n", 100*(cpu.UserSec+cpu.SysSec)/elapsedSec)
}
