package ops

import (
	"time"

	"github.com/jrsantos/ffsb/internal/stats"
)

// timeSyscall runs fn, records its elapsed time under syscall s if w has
// stats enabled, and returns fn's error.
func (w *Worker) timeSyscall(s stats.Syscall, fn func() error) error {
	if w.Stats == nil {
		return fn()
	}

	start := time.Now()
	err := fn()
	elapsedUs := float64(time.Since(start).Microseconds())
	w.Stats.Record(s, elapsedUs)
	return err
}
