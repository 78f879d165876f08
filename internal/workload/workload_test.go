package workload_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jrsantos/ffsb/internal/config"
	"github.com/jrsantos/ffsb/internal/fileset"
	"github.com/jrsantos/ffsb/internal/ops"
	"github.com/jrsantos/ffsb/internal/stats"
	"github.com/jrsantos/ffsb/internal/syncutil"
	"github.com/jrsantos/ffsb/internal/workload"
	"github.com/jrsantos/ffsb/pkg/fs"
)

func newTarget(t *testing.T, numFiles int) *ops.Target {
	t.Helper()
	dir := t.TempDir()
	real := fs.NewReal()
	require.NoError(t, real.MkdirAll(dir+"/sub0", 0o755))

	cfg := &config.Filesystem{
		Location:        dir,
		NumDirs:         1,
		MinFilesize:     4096,
		MaxFilesize:     4096,
		CreateBlocksize: 4096,
	}

	cat := fileset.New(dir, "sub", 1)
	target := &ops.Target{Fileset: cat, FS: real, Cfg: cfg, MetaDir: dir + "/metadir"}

	seed := &ops.Worker{RNG: syncutil.NewRNG(1), TG: &config.ThreadGroup{WriteBlocksize: 4096}}
	for i := 0; i < numFiles; i++ {
		var results ops.Results
		require.NoError(t, ops.Table[config.OpCreate].Handler(seed, target, &results))
	}

	require.NoError(t, ops.SetupMetaDir(target, 4))

	return target
}

func TestGroup_Run_AggregatesPerWorkerResultsExactly(t *testing.T) {
	target := newTarget(t, 20)

	tg := &config.ThreadGroup{
		NumThreads:    4,
		ReadBlocksize: 4096,
	}
	tg.Weight[config.OpRead] = 1

	threadBarrier := syncutil.NewBarrier(tg.NumThreads)
	tgBarrier := syncutil.NewBarrier(2)

	start := time.Now()
	stop := workload.NewDeadlinePredicate(start, 1)

	group := workload.NewGroup(tg, []*ops.Target{target}, threadBarrier, tgBarrier, stop, nil)

	errCh := make(chan error, 1)
	go func() { errCh <- group.Run() }()

	tgBarrier.Wait()
	require.NoError(t, <-errCh)

	results := group.Results()
	require.Greater(t, results.Ops[config.OpRead], uint64(0))
	require.Equal(t, results.Ops[config.OpRead], results.Total())
}

func TestGroup_Run_CollectsLatencyStatsWhenEnabled(t *testing.T) {
	target := newTarget(t, 10)

	tg := &config.ThreadGroup{
		NumThreads:    2,
		ReadBlocksize: 4096,
	}
	tg.Weight[config.OpRead] = 1

	threadBarrier := syncutil.NewBarrier(tg.NumThreads)
	tgBarrier := syncutil.NewBarrier(2)

	statsCfg := stats.NewConfig()
	statsCfg.AddBucket(0, 1e9)

	start := time.Now()
	stop := workload.NewDeadlinePredicate(start, 1)

	group := workload.NewGroup(tg, []*ops.Target{target}, threadBarrier, tgBarrier, stop, statsCfg)

	errCh := make(chan error, 1)
	go func() { errCh <- group.Run() }()

	tgBarrier.Wait()
	require.NoError(t, <-errCh)

	require.NotNil(t, group.Stats())
	require.Greater(t, group.Stats().Count(stats.SyscallRead), uint64(0))
}

func TestGroup_Run_StopsPromptlyAfterDeadline(t *testing.T) {
	target := newTarget(t, 10)

	tg := &config.ThreadGroup{NumThreads: 2, ReadBlocksize: 4096}
	tg.Weight[config.OpRead] = 1

	threadBarrier := syncutil.NewBarrier(tg.NumThreads)
	tgBarrier := syncutil.NewBarrier(2)

	start := time.Now()
	stop := workload.NewDeadlinePredicate(start, 1)

	group := workload.NewGroup(tg, []*ops.Target{target}, threadBarrier, tgBarrier, stop, nil)

	errCh := make(chan error, 1)
	go func() { errCh <- group.Run() }()

	tgBarrier.Wait()

	select {
	case err := <-errCh:
		require.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("group did not stop within expected deadline window")
	}
}
