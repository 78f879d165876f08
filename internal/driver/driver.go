// Package driver is the top-level benchmark coordinator: it constructs
// every configured filesystem in parallel, spawns one [workload.Group]
// per thread group behind the two-barrier start protocol, waits for the
// measured run to finish (or a context cancellation to arrive), and
// prints the per-group and grand-total report — grounded on the
// original's main() driver loop (construct_ffsb_fs / tg_run / rusage
// reporting in main.c).
package driver

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"sync"
	"time"

	"github.com/jrsantos/ffsb/internal/config"
	"github.com/jrsantos/ffsb/internal/lifecycle"
	"github.com/jrsantos/ffsb/internal/ops"
	"github.com/jrsantos/ffsb/internal/stats"
	"github.com/jrsantos/ffsb/internal/syncutil"
	"github.com/jrsantos/ffsb/internal/workload"
	"github.com/jrsantos/ffsb/pkg/fs"
)

// Run executes one complete benchmark against a validated profile: parallel
// filesystem construction, the optional callout (§6's "shell command run
// between setup and start"), the measured run (skipped entirely when
// Global.Time == 0 — "setup-only mode", §4.4), and the final stdout
// report.
func Run(ctx context.Context, profile *config.Profile, fsys fs.FS, stdout io.Writer) error {
	targets, err := constructFilesystems(profile, fsys)
	if err != nil {
		return err
	}

	if profile.Global.Callout != "" {
		if err := runCallout(ctx, profile.Global.Callout); err != nil {
			return fmt.Errorf("driver: callout: %w", err)
		}
	}

	if profile.Global.Time == 0 {
		fmt.Fprintln(stdout, "setup complete (time=0, setup-only mode)")
		return nil
	}

	if len(profile.Groups) == 0 {
		return fmt.Errorf("driver: profile has no top-level [threadgroup] sections to run")
	}

	return runMeasured(ctx, profile, targets, stdout)
}

// runCallout shells out to the profile's `callout` command (§6) through
// the host shell, the same "sh -c" idiom the teacher's editor launcher
// uses for a configured external command.
func runCallout(ctx context.Context, callout string) error {
	cmd := exec.CommandContext(ctx, "sh", "-c", callout)
	return cmd.Run()
}

// constructFilesystems builds (or reuses) every configured filesystem in
// parallel, one goroutine each, joined with a WaitGroup and all errors
// collected via errors.Join — the Go idiom for the original's
// pthread_create/pthread_join loop over fs_pts (SPEC_FULL.md §5).
func constructFilesystems(profile *config.Profile, fsys fs.FS) ([]*ops.Target, error) {
	targets := make([]*ops.Target, len(profile.Filesystems))
	errs := make([]error, len(profile.Filesystems))

	var wg sync.WaitGroup
	for i := range profile.Filesystems {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			cfg := &profile.Filesystems[idx]
			rng := syncutil.NewRNG(uint32(time.Now().UnixNano()) ^ uint32(idx))

			res, err := lifecycle.Construct(fsys, cfg, rng)
			if err != nil {
				errs[idx] = fmt.Errorf("driver: constructing filesystem %d (%s): %w", idx, cfg.Location, err)
				return
			}
			targets[idx] = res.Target
		}(i)
	}
	wg.Wait()

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return targets, nil
}

func runMeasured(ctx context.Context, profile *config.Profile, targets []*ops.Target, stdout io.Writer) error {
	totalThreads := 0
	for i := range profile.Groups {
		totalThreads += profile.Groups[i].NumThreads
	}

	threadBarrier := syncutil.NewBarrier(totalThreads)
	tgBarrier := syncutil.NewBarrier(len(profile.Groups) + 1)

	var clock startSignal
	deadline := clock.predicate(profile.Global.Time)
	stop := func() bool {
		select {
		case <-ctx.Done():
			return true
		default:
		}
		return deadline()
	}

	groups := make([]*workload.Group, len(profile.Groups))
	errCh := make(chan error, len(profile.Groups))

	for i := range profile.Groups {
		tg := &profile.Groups[i]
		groupTargets := boundTargets(tg, targets)

		var statsCfg *stats.Config
		if tg.Stats != nil && tg.Stats.Enabled {
			statsCfg = buildStatsConfig(tg.Stats)
		}

		g := workload.NewGroup(tg, groupTargets, threadBarrier, tgBarrier, stop, statsCfg)
		groups[i] = g

		go func() { errCh <- g.Run() }()
	}

	before, rusageErr := fs.GetCPUTimes()

	tgBarrier.Wait()
	clock.publish(time.Now())

	var runErr error
	for range profile.Groups {
		if err := <-errCh; err != nil && runErr == nil {
			runErr = err
		}
	}

	elapsed := clock.elapsed()

	if runErr != nil {
		return fmt.Errorf("driver: benchmark run failed: %w", runErr)
	}

	printReport(stdout, profile, groups, elapsed)

	if rusageErr == nil {
		after, err := fs.GetCPUTimes()
		if err == nil {
			printCPUUtilization(stdout, after.Sub(before), elapsed)
		}
	}

	return nil
}

// boundTargets resolves a thread group's filesystem binding: a single
// target if bound, or every constructed target for a random pick per op
// (§4.2 "Filesystem selection per op").
func boundTargets(tg *config.ThreadGroup, targets []*ops.Target) []*ops.Target {
	if tg.BindFS >= 0 && tg.BindFS < len(targets) {
		return []*ops.Target{targets[tg.BindFS]}
	}
	return targets
}

// buildStatsConfig converts a thread group's [stats] block (buckets in
// milliseconds, as written in the profile) into a [stats.Config] (buckets
// in microseconds, as [stats.Data] records them).
func buildStatsConfig(st *config.ThreadGroupStats) *stats.Config {
	cfg := stats.NewConfig()

	for _, name := range st.Ignore {
		if sc, ok := stats.ParseSyscall(name); ok {
			cfg.IgnoreSyscall(sc)
		}
	}

	for _, b := range st.Buckets {
		cfg.AddBucket(b[0]*1000, b[1]*1000)
	}

	return cfg
}
