package ops

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jrsantos/ffsb/internal/stats"
)

// metaRotationWidth bounds the numeric suffix space metaop rotates
// through and createdir allocates from; kept small and fixed so the
// directory entries created by metaop/createdir stay bounded regardless
// of how long a run lasts.
const metaRotationWidth = 1 << 20

// opMetaOp selects a random directory entry under the fileset's metaops
// directory and renames it through a fixed rotation (name -> name+1 mod
// metaRotationWidth), then stats the result — exercising rename/stat
// under contention from many workers hitting the same small directory.
func opMetaOp(w *Worker, t *Target, _ *Results) error {
	n := w.RNG.Intn(metaRotationWidth)
	from := filepath.Join(t.MetaDir, fmt.Sprintf("m%d", n))
	to := filepath.Join(t.MetaDir, fmt.Sprintf("m%d", (n+1)%metaRotationWidth))

	err := w.timeSyscall(stats.SyscallWrite, func() error {
		renameErr := t.FS.Rename(from, to)
		if os.IsNotExist(renameErr) {
			// Another worker already rotated this slot past us, or it
			// was never populated; not a failure of the op itself.
			return nil
		}
		return renameErr
	})
	if err != nil {
		return fmt.Errorf("ops: metaop: rename %s -> %s: %w", from, to, err)
	}

	return w.timeSyscall(stats.SyscallOpen, func() error {
		_, statErr := t.FS.Stat(to)
		if os.IsNotExist(statErr) {
			return nil
		}
		return statErr
	})
}

// opCreateDir creates a subdirectory d<n> under the fileset's metaops
// directory, with n drawn at random from [0, metaRotationWidth). The
// suffix is not checked for prior use: if d<n> already exists, the op
// succeeds without creating a new directory.
func opCreateDir(w *Worker, t *Target, _ *Results) error {
	n := w.RNG.Intn(metaRotationWidth)
	path := filepath.Join(t.MetaDir, fmt.Sprintf("d%d", n))

	return w.timeSyscall(stats.SyscallCreate, func() error {
		return t.FS.MkdirAll(path, 0o755)
	})
}

// SetupMetaDir creates the fileset's metaops directory and seeds it with
// the rotation-slot entries opMetaOp expects to find, per the benchmark
// setup hook described in §4.4 step 4 ("metaops creates its dedicated
// subdirectory tree").
func SetupMetaDir(t *Target, seedCount int) error {
	if err := t.FS.MkdirAll(t.MetaDir, 0o755); err != nil {
		return fmt.Errorf("ops: creating metaops dir %s: %w", t.MetaDir, err)
	}

	for i := 0; i < seedCount; i++ {
		path := filepath.Join(t.MetaDir, fmt.Sprintf("m%d", i))
		f, err := t.FS.Create(path)
		if err != nil {
			return fmt.Errorf("ops: seeding metaops dir: %w", err)
		}
		if err := f.Close(); err != nil {
			return fmt.Errorf("ops: seeding metaops dir: %w", err)
		}
	}

	return nil
}
