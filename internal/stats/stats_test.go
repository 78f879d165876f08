package stats_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jrsantos/ffsb/internal/stats"
)

func TestRecord_IgnoredSyscallIsNoOp(t *testing.T) {
	cfg := stats.NewConfig()
	cfg.IgnoreSyscall(stats.SyscallRead)
	d := stats.NewData(cfg)

	d.Record(stats.SyscallRead, 42)

	require.Equal(t, uint64(0), d.Count(stats.SyscallRead))
}

func TestRecord_TracksMinMaxMean(t *testing.T) {
	cfg := stats.NewConfig()
	d := stats.NewData(cfg)

	d.Record(stats.SyscallWrite, 10)
	d.Record(stats.SyscallWrite, 30)
	d.Record(stats.SyscallWrite, 20)

	require.Equal(t, uint64(3), d.Count(stats.SyscallWrite))
	require.Equal(t, 10.0, d.Min(stats.SyscallWrite))
	require.Equal(t, 30.0, d.Max(stats.SyscallWrite))
	require.Equal(t, 20.0, d.Mean(stats.SyscallWrite))
}

func TestRecord_BucketAssignment_MinInclusiveMaxExclusive(t *testing.T) {
	cfg := stats.NewConfig()
	cfg.AddBucket(0, 1000)
	cfg.AddBucket(1000, 10000)
	d := stats.NewData(cfg)

	d.Record(stats.SyscallRead, 0)    // == bucket0.min -> bucket0
	d.Record(stats.SyscallRead, 999)  // bucket0
	d.Record(stats.SyscallRead, 1000) // == bucket0.max -> not bucket0, == bucket1.min -> bucket1
	d.Record(stats.SyscallRead, 9999) // bucket1
	d.Record(stats.SyscallRead, 50000) // outside all buckets, still counted in total

	require.Equal(t, uint64(5), d.Count(stats.SyscallRead))
	require.Equal(t, uint64(2), d.BucketCount(stats.SyscallRead, 0))
	require.Equal(t, uint64(2), d.BucketCount(stats.SyscallRead, 1))
}

func TestMerge_SumsCountsAndTakesExtremes(t *testing.T) {
	cfg := stats.NewConfig()
	cfg.AddBucket(0, 100)

	a := stats.NewData(cfg)
	a.Record(stats.SyscallOpen, 5)
	a.Record(stats.SyscallOpen, 50)

	b := stats.NewData(cfg)
	b.Record(stats.SyscallOpen, 1)
	b.Record(stats.SyscallOpen, 90)

	stats.Merge(a, b)

	require.Equal(t, uint64(4), a.Count(stats.SyscallOpen))
	require.Equal(t, 1.0, a.Min(stats.SyscallOpen))
	require.Equal(t, 90.0, a.Max(stats.SyscallOpen))
	require.Equal(t, uint64(4), a.BucketCount(stats.SyscallOpen, 0))
}

func TestMerge_IsAssociativeAndCommutative(t *testing.T) {
	cfg := stats.NewConfig()

	mk := func(vals ...float64) *stats.Data {
		d := stats.NewData(cfg)
		for _, v := range vals {
			d.Record(stats.SyscallClose, v)
		}
		return d
	}

	// (a merge b) merge c
	abc := mk(1, 2)
	stats.Merge(abc, mk(3))
	stats.Merge(abc, mk(4, 5))

	// a merge (b merge c), computed into a fresh accumulator
	bc := mk(3)
	stats.Merge(bc, mk(4, 5))
	a2 := mk(1, 2)
	stats.Merge(a2, bc)

	require.Equal(t, a2.Count(stats.SyscallClose), abc.Count(stats.SyscallClose))
	require.Equal(t, a2.Min(stats.SyscallClose), abc.Min(stats.SyscallClose))
	require.Equal(t, a2.Max(stats.SyscallClose), abc.Max(stats.SyscallClose))
}

func TestParseSyscall(t *testing.T) {
	s, ok := stats.ParseSyscall("read")
	require.True(t, ok)
	require.Equal(t, stats.SyscallRead, s)

	_, ok = stats.ParseSyscall("nope")
	require.False(t, ok)
}
