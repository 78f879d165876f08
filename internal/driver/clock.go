package driver

import (
	"sync/atomic"
	"time"
)

// startSignal publishes the benchmark's start instant exactly once, after
// the tg-barrier releases every thread-group coordinator and the driver
// together (§4.2). Stop predicates built from it are race-free against
// publication: a predicate evaluated before publish simply reports "not
// expired yet" rather than reading a zero time.Time and misfiring.
type startSignal struct {
	t atomic.Value // time.Time
}

func (s *startSignal) publish(t time.Time) { s.t.Store(t) }

func (s *startSignal) elapsed() time.Duration {
	v := s.t.Load()
	if v == nil {
		return 0
	}
	return time.Since(v.(time.Time))
}

// predicate returns a [workload.StopPredicate]-shaped func comparing
// elapsed whole seconds against waitSeconds, matching the legacy
// ffsb_poll_fn's tv_sec integer comparison (SPEC_FULL.md's "Observed
// ambiguity" note).
func (s *startSignal) predicate(waitSeconds uint32) func() bool {
	dur := time.Duration(waitSeconds) * time.Second
	return func() bool { return s.elapsed() >= dur }
}
