// Package stats implements the per-syscall latency histogram subsystem:
// per-thread timing data with configurable histogram buckets and an
// ignore filter, aggregated across workers into per-group and grand
// totals.
package stats

import "fmt"

// Syscall identifies one of the seven syscall kinds the benchmark times.
type Syscall int

const (
	SyscallOpen Syscall = iota
	SyscallRead
	SyscallWrite
	SyscallCreate
	SyscallLseek
	SyscallUnlink
	SyscallClose

	numSyscalls
)

// NumSyscalls is the count of distinct syscall kinds tracked (§4.5: open,
// read, write, create, lseek, unlink, close).
const NumSyscalls = int(numSyscalls)

var syscallNames = [numSyscalls]string{
	SyscallOpen:   "open",
	SyscallRead:   "read",
	SyscallWrite:  "write",
	SyscallCreate: "create",
	SyscallLseek:  "lseek",
	SyscallUnlink: "unlink",
	SyscallClose:  "close",
}

func (s Syscall) String() string {
	if s < 0 || int(s) >= int(numSyscalls) {
		return fmt.Sprintf("syscall(%d)", int(s))
	}
	return syscallNames[s]
}

// ParseSyscall maps a config-file syscall name (as used by the
// [threadgroup]'s nested [stats] "ignore=" lines) to a [Syscall]. Unknown
// names return (0, false).
func ParseSyscall(name string) (Syscall, bool) {
	for i, n := range syscallNames {
		if n == name {
			return Syscall(i), true
		}
	}
	return 0, false
}

// Bucket is a half-open latency interval [MinUs, MaxUs) in microseconds.
// MaxUs == 0 means "uninitialized" and such a bucket is never matched.
type Bucket struct {
	MinUs float64
	MaxUs float64
}

// Config is shared, read-only after setup: the ordered bucket list and
// the per-syscall ignore filter. Built once by the driver before the run
// starts and never mutated afterward, matching the spec's "Stats config: all read,
// driver writes at setup" shared-resource policy.
type Config struct {
	Buckets []Bucket
	Ignore  [numSyscalls]bool
}

// NewConfig returns an empty, enabled-for-all-syscalls [Config].
func NewConfig() *Config {
	return &Config{}
}

// IgnoreSyscall marks s as not recorded.
func (c *Config) IgnoreSyscall(s Syscall) {
	c.Ignore[s] = true
}

// AddBucket appends a histogram bucket [minUs, maxUs).
func (c *Config) AddBucket(minUs, maxUs float64) {
	c.Buckets = append(c.Buckets, Bucket{MinUs: minUs, MaxUs: maxUs})
}

// Data is one thread's (or, after Merge, one group's or the grand total's)
// accumulated latency data: per-syscall count/sum/min/max plus, if cfg
// has any buckets, a per-bucket counter array.
type Data struct {
	cfg *Config

	count   [numSyscalls]uint64
	sumUs   [numSyscalls]float64
	minUs   [numSyscalls]float64
	maxUs   [numSyscalls]float64
	buckets [numSyscalls][]uint64 // len(cfg.Buckets) per syscall, lazily sized
}

// NewData returns a [Data] that records against cfg. cfg must outlive
// Data and must not be mutated concurrently with Record/Merge.
func NewData(cfg *Config) *Data {
	d := &Data{cfg: cfg}
	for s := range d.buckets {
		if len(cfg.Buckets) > 0 {
			d.buckets[s] = make([]uint64, len(cfg.Buckets))
		}
	}
	return d
}

// Record appends one observation of syscall s taking elapsedUs
// microseconds. A no-op if s is in the config's ignore filter.
func (d *Data) Record(s Syscall, elapsedUs float64) {
	if d.cfg.Ignore[s] {
		return
	}

	if d.count[s] == 0 {
		d.minUs[s] = elapsedUs
		d.maxUs[s] = elapsedUs
	} else {
		if elapsedUs < d.minUs[s] {
			d.minUs[s] = elapsedUs
		}
		if elapsedUs > d.maxUs[s] {
			d.maxUs[s] = elapsedUs
		}
	}

	d.count[s]++
	d.sumUs[s] += elapsedUs

	for i, b := range d.cfg.Buckets {
		if b.MaxUs == 0 {
			continue
		}
		if elapsedUs >= b.MinUs && elapsedUs < b.MaxUs {
			d.buckets[s][i]++
			break
		}
	}
}

// Count returns the number of recorded samples for s.
func (d *Data) Count(s Syscall) uint64 { return d.count[s] }

// Mean returns the mean latency in microseconds for s, or 0 if no
// samples were recorded.
func (d *Data) Mean(s Syscall) float64 {
	if d.count[s] == 0 {
		return 0
	}
	return d.sumUs[s] / float64(d.count[s])
}

// Min/Max return the recorded extremes in microseconds for s.
func (d *Data) Min(s Syscall) float64 { return d.minUs[s] }
func (d *Data) Max(s Syscall) float64 { return d.maxUs[s] }

// BucketCount returns the number of samples of s that fell into bucket i.
func (d *Data) BucketCount(s Syscall, i int) uint64 {
	if len(d.buckets[s]) == 0 {
		return 0
	}
	return d.buckets[s][i]
}

// Merge folds src into dst: sums counts, sums, and bucket counters;
// takes the pointwise min/max. Associative and commutative, so workers
// can be merged into a group in any order and groups into the grand
// total in any order.
func Merge(dst, src *Data) {
	for s := Syscall(0); s < numSyscalls; s++ {
		if src.count[s] == 0 {
			continue
		}

		if dst.count[s] == 0 {
			dst.minUs[s] = src.minUs[s]
			dst.maxUs[s] = src.maxUs[s]
		} else {
			if src.minUs[s] < dst.minUs[s] {
				dst.minUs[s] = src.minUs[s]
			}
			if src.maxUs[s] > dst.maxUs[s] {
				dst.maxUs[s] = src.maxUs[s]
			}
		}

		dst.count[s] += src.count[s]
		dst.sumUs[s] += src.sumUs[s]

		if len(src.buckets[s]) > 0 {
			if len(dst.buckets[s]) == 0 {
				dst.buckets[s] = make([]uint64, len(src.buckets[s]))
			}
			for i, c := range src.buckets[s] {
				dst.buckets[s][i] += c
			}
		}
	}
}
