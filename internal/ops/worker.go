package ops

import (
	"os"

	"github.com/jrsantos/ffsb/internal/config"
	"github.com/jrsantos/ffsb/internal/fileset"
	"github.com/jrsantos/ffsb/internal/stats"
	"github.com/jrsantos/ffsb/internal/syncutil"
	"github.com/jrsantos/ffsb/pkg/fs"
)

// Worker is the per-thread state an operation handler needs: its own
// RNG, its own 4 KiB-aligned scratch buffer (recreated whenever the
// required size changes — see [Worker.EnsureBuffer]), its thread
// group's tuning parameters, and an optional per-thread latency-stats
// sink.
type Worker struct {
	RNG   *syncutil.RNG
	TG    *config.ThreadGroup
	Stats *stats.Data // nil if latency stats are disabled for this group

	buf *fs.AlignedBuffer
}

// EnsureBuffer returns a scratch buffer of exactly n bytes, reallocating
// whenever n differs from the current buffer's size. Matches the spec's
// buffer discipline: one raw allocation per worker, freed and re-acquired
// on size change, never shared across threads.
func (w *Worker) EnsureBuffer(n int) []byte {
	if w.buf == nil || len(w.buf.Bytes()) != n {
		w.buf = fs.NewAlignedBuffer(n)
	}
	return w.buf.Bytes()[:n]
}

// Target is the filesystem an operation runs against: its catalog, the
// [fs.FS] used to reach disk, its bound configuration, and the
// pre-created metaops directory path.
type Target struct {
	Fileset *fileset.Fileset
	FS      fs.FS
	Cfg     *config.Filesystem
	MetaDir string
}

// open opens path with the caller's flags, through [fs.OpenDirect] when
// this target's Filesystem config sets DIRECTIO.
func (t *Target) open(path string, flag int, perm os.FileMode) (fs.File, error) {
	if t.Cfg.Flags.Has(config.FlagDirectIO) {
		return fs.OpenDirect(t.FS, path, flag, perm)
	}
	return t.FS.OpenFile(path, flag, perm)
}
