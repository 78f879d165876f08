// Package lifecycle implements the filesystem lifecycle manager: initial
// population, reuse detection/validation of an existing on-disk
// fileset, and aging to a target utilization — spec §4.4, grounded on
// the original's construct_ffsb_fs flow (main.c) and fh.c's open/write
// sequence for populating files.
package lifecycle

import (
	"errors"
	"fmt"
	"path/filepath"
	"sync/atomic"

	"github.com/jrsantos/ffsb/internal/config"
	"github.com/jrsantos/ffsb/internal/fileset"
	"github.com/jrsantos/ffsb/internal/ops"
	"github.com/jrsantos/ffsb/internal/syncutil"
	"github.com/jrsantos/ffsb/internal/workload"
	"github.com/jrsantos/ffsb/pkg/fs"
)

// ErrNonConformant is returned when reuse mode finds an on-disk entry
// that doesn't match the expected naming pattern or size range.
var ErrNonConformant = errors.New("lifecycle: non-conformant fileset entry")

// metaDirName is the fixed subdirectory name for metaop/createdir
// entries, per §6's on-disk layout (<basedir>/metadir).
const metaDirName = "metadir"

// Result is what [Construct] hands back to the driver: the bound
// [ops.Target] ready for the main benchmark run.
type Result struct {
	Target *ops.Target
}

// Construct builds (or reuses) one filesystem per the profile's
// [config.Filesystem] section: reuse+validate if REUSE_FS and basedir
// exists (a non-conformant tree is an error, not a reason to
// repopulate), else fresh population; then aging if
// configured; then the per-op bench-setup hooks (currently just the
// metaops directory).
func Construct(fsys fs.FS, cfg *config.Filesystem, rng *syncutil.RNG) (*Result, error) {
	basename := filepath.Base(cfg.Location)
	metaDir := filepath.Join(cfg.Location, metaDirName)

	var cat *fileset.Fileset

	if cfg.Reuse {
		exists, err := fsys.Exists(cfg.Location)
		if err != nil {
			return nil, fmt.Errorf("lifecycle: checking %s: %w", cfg.Location, err)
		}
		if exists {
			cat, err = reuse(fsys, cfg, basename)
			if err != nil {
				return nil, err
			}
		}
	}

	if cat == nil {
		var err error
		cat, err = populate(fsys, cfg, basename, rng)
		if err != nil {
			return nil, err
		}
	}

	target := &ops.Target{Fileset: cat, FS: fsys, Cfg: cfg, MetaDir: metaDir}

	if cfg.AgeFS && cfg.AgeTG != nil {
		if err := age(fsys, target, cfg); err != nil {
			return nil, err
		}
	}

	if err := ops.SetupMetaDir(target, 16); err != nil {
		return nil, err
	}

	return &Result{Target: target}, nil
}

// reuse rebuilds the catalog from an existing on-disk tree and verifies
// every entry's size falls within [MinFilesize, MaxFilesize].
func reuse(fsys fs.FS, cfg *config.Filesystem, basename string) (*fileset.Fileset, error) {
	validator := func(path string, fsys fs.FS) (uint64, error) {
		info, err := fsys.Stat(path)
		if err != nil {
			return 0, err
		}
		size := uint64(info.Size())
		if size < cfg.MinFilesize || (cfg.MaxFilesize > 0 && size > cfg.MaxFilesize) {
			return 0, fmt.Errorf("%w: %s size %d outside [%d,%d]", ErrNonConformant, path, size, cfg.MinFilesize, cfg.MaxFilesize)
		}
		return size, nil
	}

	cat, err := fileset.GrabOldFileset(fsys, cfg.Location, basename, cfg.NumDirs, validator, metaDirName)
	if err != nil {
		return nil, fmt.Errorf("lifecycle: reuse: %w", err)
	}
	return cat, nil
}

// populate (re)creates basedir empty, creates NumDirs subdirectories,
// and creates NumFiles files at uniformly random sizes in
// [MinFilesize, MaxFilesize].
func populate(fsys fs.FS, cfg *config.Filesystem, basename string, rng *syncutil.RNG) (*fileset.Fileset, error) {
	if err := fsys.RemoveAll(cfg.Location); err != nil {
		return nil, fmt.Errorf("lifecycle: clearing %s: %w", cfg.Location, err)
	}
	if err := fsys.MkdirAll(cfg.Location, 0o755); err != nil {
		return nil, fmt.Errorf("lifecycle: creating %s: %w", cfg.Location, err)
	}

	for i := 0; i < cfg.NumDirs; i++ {
		sub := filepath.Join(cfg.Location, fmt.Sprintf("%s%d", basename, i))
		if err := fsys.MkdirAll(sub, 0o755); err != nil {
			return nil, fmt.Errorf("lifecycle: creating subdir %s: %w", sub, err)
		}
	}

	cat := fileset.New(cfg.Location, basename, cfg.NumDirs)

	target := &ops.Target{Fileset: cat, FS: fsys, Cfg: cfg}
	w := &ops.Worker{RNG: rng, TG: &config.ThreadGroup{WriteBlocksize: cfg.CreateBlocksize}}

	for i := uint64(0); i < cfg.NumFiles; i++ {
		var results ops.Results
		if err := ops.Table[config.OpCreate].Handler(w, target, &results); err != nil {
			return nil, fmt.Errorf("lifecycle: populating %s: %w", cfg.Location, err)
		}
	}

	return cat, nil
}

// age runs the filesystem's configured aging thread group until
// statfs-reported utilization reaches DesiredUtil, per §4.4 step 3. The
// first worker to observe util >= DesiredUtil trips a relaxed-atomic
// stop flag shared by all aging workers (spec §5's documented relaxed
// atomic for the aging stop flag).
func age(fsys fs.FS, target *ops.Target, cfg *config.Filesystem) error {
	if cfg.DesiredUtil <= 0 {
		return nil
	}

	var tripped atomic.Bool
	stop := func() bool {
		if tripped.Load() {
			return true
		}
		util, err := fs.Utilization(cfg.Location)
		if err != nil || util >= cfg.DesiredUtil {
			// An error means utilization can't be observed; stop rather
			// than spin forever.
			tripped.Store(true)
			return true
		}
		return false
	}

	threadBarrier := syncutil.NewBarrier(cfg.AgeTG.NumThreads)
	tgBarrier := syncutil.NewBarrier(2)

	group := workload.NewGroup(cfg.AgeTG, []*ops.Target{target}, threadBarrier, tgBarrier, stop, nil)

	errCh := make(chan error, 1)
	go func() { errCh <- group.Run() }()

	tgBarrier.Wait()

	return <-errCh
}
