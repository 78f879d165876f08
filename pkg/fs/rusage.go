package fs

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// CPUTimes is a snapshot of accumulated user/system CPU time, in seconds,
// for both the calling process and its already-exited children. The driver
// takes one snapshot before a run and one after, then reports the delta —
// the same before/after rusage pairing as the original benchmark's
// self+children CPU percentage report.
type CPUTimes struct {
	UserSec float64
	SysSec  float64
}

// GetCPUTimes returns the current self+children CPU time totals via
// [unix.Getrusage] (RUSAGE_SELF and RUSAGE_CHILDREN).
func GetCPUTimes() (CPUTimes, error) {
	var self, children unix.Rusage

	if err := unix.Getrusage(unix.RUSAGE_SELF, &self); err != nil {
		return CPUTimes{}, fmt.Errorf("getrusage self: %w", err)
	}
	if err := unix.Getrusage(unix.RUSAGE_CHILDREN, &children); err != nil {
		return CPUTimes{}, fmt.Errorf("getrusage children: %w", err)
	}

	return CPUTimes{
		UserSec: timevalSeconds(self.Utime) + timevalSeconds(children.Utime),
		SysSec:  timevalSeconds(self.Stime) + timevalSeconds(children.Stime),
	}, nil
}

func timevalSeconds(tv unix.Timeval) float64 {
	return float64(tv.Sec) + float64(tv.Usec)/1e6
}

// Sub returns the elapsed user/system time between a "before" and "after"
// snapshot.
func (after CPUTimes) Sub(before CPUTimes) CPUTimes {
	return CPUTimes{
		UserSec: after.UserSec - before.UserSec,
		SysSec:  after.SysSec - before.SysSec,
	}
}
