// Package config implements the INI-like profile format: parsing (both
// the "old" flat dialect and the "new" sectioned dialect), validation,
// binding into the typed model below, and serialization back to text.
//
// It also provides a JSONC-based diagnostic dump of the bound model
// (DumpResolved / LoadResolvedJSON) for reproducing a run exactly,
// independent of the primary grammar.
package config

import "errors"

// ErrValidation is the sentinel wrapped by every validation failure
// (see Validate). Callers classify with errors.Is.
var ErrValidation = errors.New("config: validation failed")

// FSFlag is a bitmask of filesystem-level I/O behavior flags.
type FSFlag uint8

const (
	FlagReuseFS FSFlag = 1 << iota
	FlagDirectIO
	FlagAlignIO4K
	FlagLibCIO
)

// Has reports whether f is set.
func (flags FSFlag) Has(f FSFlag) bool { return flags&f != 0 }

// OpCode identifies one of the twelve benchmark operations. Order
// matters: it is also the tie-break order for weighted random selection
// (§4.2) and the default print order in reports.
type OpCode int

const (
	OpRead OpCode = iota
	OpReadAll
	OpWrite
	OpCreate
	OpAppend
	OpDelete
	OpMetaOp
	OpCreateDir
	OpStat
	OpWriteAll
	OpWriteAllFsync
	OpOpenClose

	NumOps
)

var opNames = [NumOps]string{
	OpRead:          "read",
	OpReadAll:       "readall",
	OpWrite:         "write",
	OpCreate:        "create",
	OpAppend:        "append",
	OpDelete:        "delete",
	OpMetaOp:        "metaop",
	OpCreateDir:     "createdir",
	OpStat:          "stat",
	OpWriteAll:      "writeall",
	OpWriteAllFsync: "writeall_fsync",
	OpOpenClose:     "open_close",
}

func (op OpCode) String() string {
	if op < 0 || op >= NumOps {
		return "unknown"
	}
	return opNames[op]
}

// SizeWeight is one entry in a weighted file-size distribution
// (the repeatable `size_weight size weight` profile directive).
type SizeWeight struct {
	Size   uint64
	Weight uint32
}

// Global holds the top-level, file-scope profile options.
type Global struct {
	Time     uint32 // seconds; 0 means setup-only
	Verbose  bool
	DirectIO bool
	BufferIO bool
	AlignIO  bool
	Callout  string
}

// ThreadGroupStats is the optional nested [stats] block of a thread
// group.
type ThreadGroupStats struct {
	Enabled bool
	Ignore  []string          // syscall names, as written in the profile
	Buckets [][2]float64      // [min_ms, max_ms] pairs as read; the driver converts them to microseconds when it builds the stats config
}

// ThreadGroup is one [threadgroup]...[end] section.
type ThreadGroup struct {
	NumThreads int
	BindFS     int // index into Profile.Filesystems, or -1 for a random pick across all per op

	Weight [NumOps]uint32

	ReadRandom    bool
	ReadSkip      bool
	ReadSize      uint64
	ReadBlocksize uint64
	ReadSkipsize  uint64

	WriteRandom    bool
	WriteSize      uint64
	WriteBlocksize uint64
	FsyncFile      bool

	OpDelayMicros uint64

	Stats *ThreadGroupStats
}

// SumWeight returns the sum of the op-weight vector.
func (tg *ThreadGroup) SumWeight() uint64 {
	var sum uint64
	for _, w := range tg.Weight {
		sum += uint64(w)
	}
	return sum
}

// Filesystem is one [filesystem]...[end] section.
type Filesystem struct {
	Location        string
	NumFiles        uint64
	NumDirs         int
	Reuse           bool
	MinFilesize     uint64
	MaxFilesize     uint64
	CreateBlocksize uint64
	AgeBlocksize    uint64
	DesiredUtil     float64
	InitUtil        float64
	InitSize        uint64
	SizeWeights     []SizeWeight

	AgeFS   bool
	AgeTG   *ThreadGroup // the nested [threadgroup], if any; always present when AgeFS

	Flags FSFlag
}

// Profile is the fully parsed, not-yet-validated profile.
type Profile struct {
	Global      Global
	Filesystems []Filesystem
	Groups      []ThreadGroup
}
