// Package workload implements the thread-group scheduler: weighted
// random operation selection, the two-barrier start/stop protocol, the
// polling stop predicate, and per-worker/per-group result aggregation
// (spec §4.2), grounded on the original's ffsb_thread.h/tg_run driver
// loop shape (construct_ffsb_fs/tg_run referenced from main.c).
package workload

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/jrsantos/ffsb/internal/config"
	"github.com/jrsantos/ffsb/internal/ops"
	"github.com/jrsantos/ffsb/internal/stats"
	"github.com/jrsantos/ffsb/internal/syncutil"
)

// StopPredicate reports whether a run should stop. Implementations are
// polled between operations only — an in-flight operation always runs to
// completion (§5, "Suspension points").
type StopPredicate func() bool

// NewDeadlinePredicate returns a [StopPredicate] comparing elapsed wall
// clock seconds (truncated to whole seconds, matching the legacy
// ffsb_poll_fn's tv_sec integer comparison — see SPEC_FULL.md's
// "Observed ambiguity" note) against waitSeconds.
func NewDeadlinePredicate(start time.Time, waitSeconds uint32) StopPredicate {
	return func() bool {
		return time.Since(start) >= time.Duration(waitSeconds)*time.Second
	}
}

// Group runs one [config.ThreadGroup]'s workers against a fixed set of
// [ops.Target]s (one if bound, several for a random pick per op).
type Group struct {
	TG      *config.ThreadGroup
	Targets []*ops.Target

	ThreadBarrier *syncutil.Barrier // size: sum of all groups' NumThreads
	TGBarrier     *syncutil.Barrier // size: num_groups + 1

	Stop StopPredicate

	results     ops.Results
	resultsMu   sync.Mutex
	statsConfig *stats.Config
	mergedStats *stats.Data
}

// NewGroup constructs a [Group]. statsConfig may be nil if latency
// tracking is disabled for this group.
func NewGroup(tg *config.ThreadGroup, targets []*ops.Target, threadBarrier, tgBarrier *syncutil.Barrier, stop StopPredicate, statsConfig *stats.Config) *Group {
	g := &Group{TG: tg, Targets: targets, ThreadBarrier: threadBarrier, TGBarrier: tgBarrier, Stop: stop, statsConfig: statsConfig}
	if statsConfig != nil {
		g.mergedStats = stats.NewData(statsConfig)
	}
	return g
}

// errOnce is the first fatal error observed by any worker in the group;
// subsequent workers stop on their next op-boundary check.
type errOnce struct {
	mu  sync.Mutex
	err error
}

func (e *errOnce) set(err error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.err == nil {
		e.err = err
	}
}

func (e *errOnce) get() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.err
}

// Run is the group coordinator: it spawns NumThreads workers, waits for
// the whole run (driver-synchronized via TGBarrier/ThreadBarrier), sums
// per-worker results into g.Results, and returns the first fatal error
// any worker observed, if any.
func (g *Group) Run() error {
	var failed atomic.Bool
	fail := &errOnce{}

	var wg sync.WaitGroup
	perWorker := make([]ops.Results, g.TG.NumThreads)

	// Signal the driver this group is ready, then wait for every group
	// to be ready before any worker starts (the tg-barrier).
	g.TGBarrier.Wait()

	seedBase := uint32(time.Now().UnixNano())

	for i := 0; i < g.TG.NumThreads; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			w := &ops.Worker{
				RNG: syncutil.NewRNG(seedBase ^ uint32(idx)),
				TG:  g.TG,
			}
			if g.statsConfig != nil {
				w.Stats = stats.NewData(g.statsConfig)
			}

			// All workers across all groups start together.
			g.ThreadBarrier.Wait()

			for {
				if failed.Load() {
					return
				}

				target := g.pickTarget(w.RNG)
				op := pickOp(g.TG, w.RNG)

				if err := ops.Table[op].Handler(w, target, &perWorker[idx]); err != nil {
					fail.set(err)
					failed.Store(true)
					return
				}

				perWorker[idx].Ops[op]++
				perWorker[idx].OpWeight[op] += uint64(g.TG.Weight[op])

				if g.TG.OpDelayMicros > 0 {
					time.Sleep(time.Duration(g.TG.OpDelayMicros) * time.Microsecond)
				}

				if g.Stop() {
					if w.Stats != nil {
						g.resultsMu.Lock()
						stats.Merge(g.mergedStats, w.Stats)
						g.resultsMu.Unlock()
					}
					return
				}
			}
		}(i)
	}

	wg.Wait()

	for i := range perWorker {
		g.results.Add(&perWorker[i])
	}

	return fail.get()
}

// Results returns the group's aggregated results. Valid after Run
// returns.
func (g *Group) Results() *ops.Results { return &g.results }

// Stats returns the group's merged latency stats, or nil if disabled.
func (g *Group) Stats() *stats.Data { return g.mergedStats }

func (g *Group) pickTarget(rng *syncutil.RNG) *ops.Target {
	if len(g.Targets) == 1 {
		return g.Targets[0]
	}
	return g.Targets[rng.Intn(len(g.Targets))]
}

// pickOp draws r uniformly from [0, W) over tg's weight vector and
// returns the smallest op whose prefix sum exceeds r, per §4.2.
func pickOp(tg *config.ThreadGroup, rng *syncutil.RNG) config.OpCode {
	sum := tg.SumWeight()
	if sum == 0 {
		return config.OpRead // unreachable for a Validate-passed profile
	}

	r := rng.Uint64Range(0, sum-1)
	var prefix uint64
	for op := config.OpCode(0); op < config.NumOps; op++ {
		prefix += uint64(tg.Weight[op])
		if prefix > r {
			return op
		}
	}
	return config.NumOps - 1
}
