package syncutil_test

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jrsantos/ffsb/internal/syncutil"
)

func TestBarrier_ReleasesAllWaitersOnce(t *testing.T) {
	const n = 8
	b := syncutil.NewBarrier(n)

	var arrived atomic.Int32
	var wg sync.WaitGroup
	wg.Add(n)

	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			b.Wait()
			arrived.Add(1)
		}()
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("barrier never released all waiters")
	}

	require.EqualValues(t, n, arrived.Load())
}

func TestBarrier_ReusableAcrossGenerations(t *testing.T) {
	const n = 4
	b := syncutil.NewBarrier(n)

	for gen := 0; gen < 3; gen++ {
		var wg sync.WaitGroup
		wg.Add(n)
		for i := 0; i < n; i++ {
			go func() {
				defer wg.Done()
				b.Wait()
			}()
		}

		done := make(chan struct{})
		go func() { wg.Wait(); close(done) }()

		select {
		case <-done:
		case <-time.After(2 * time.Second):
			t.Fatalf("generation %d never released", gen)
		}
	}
}

func TestBarrier_NoWaiterProceedsBeforeQuorum(t *testing.T) {
	b := syncutil.NewBarrier(2)

	proceeded := make(chan struct{}, 1)
	go func() {
		b.Wait()
		proceeded <- struct{}{}
	}()

	select {
	case <-proceeded:
		t.Fatal("single waiter proceeded before quorum reached")
	case <-time.After(100 * time.Millisecond):
	}

	b.Wait()

	select {
	case <-proceeded:
	case <-time.After(2 * time.Second):
		t.Fatal("waiter never released after quorum reached")
	}
}
