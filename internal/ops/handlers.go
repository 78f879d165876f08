package ops

import (
	"fmt"
	"io"
	"os"

	"github.com/jrsantos/ffsb/internal/fileset"
	"github.com/jrsantos/ffsb/internal/stats"
	"github.com/jrsantos/ffsb/pkg/fs"
)

// Handler performs one transaction of a given op code against target,
// using worker state w, and updates results' byte counters. Any
// returned error is fatal to the run — per §4.2, a syscall failure
// inside an op handler invalidates the whole measurement.
type Handler func(w *Worker, target *Target, results *Results) error

func opRead(w *Worker, t *Target, results *Results) error {
	entry, err := t.Fileset.ChooseReader(w.RNG.Intn)
	if err != nil {
		return fmt.Errorf("ops: read: %w", err)
	}
	defer entry.RUnlock()

	f, err := w.timeOpenFor(t, entry, os.O_RDONLY)
	if err != nil {
		return err
	}
	defer closeTimed(w, f)

	readSize := w.TG.ReadSize
	if readSize == 0 {
		readSize = entry.Size()
	}

	if w.TG.ReadRandom {
		if err := seekRandom(w, f, entry.Size(), w.TG.ReadBlocksize); err != nil {
			return err
		}
	}

	n, err := w.readChunks(f, readSize, w.TG.ReadBlocksize, w.TG.ReadSkip, w.TG.ReadSkipsize)
	results.ReadBytes += n
	return err
}

func opReadAll(w *Worker, t *Target, results *Results) error {
	entry, err := t.Fileset.ChooseReader(w.RNG.Intn)
	if err != nil {
		return fmt.Errorf("ops: readall: %w", err)
	}
	defer entry.RUnlock()

	f, err := w.timeOpenFor(t, entry, os.O_RDONLY)
	if err != nil {
		return err
	}
	defer closeTimed(w, f)

	n, err := w.readChunks(f, entry.Size(), w.TG.ReadBlocksize, false, 0)
	results.ReadBytes += n
	return err
}

func opWrite(w *Worker, t *Target, results *Results) error {
	entry, err := t.Fileset.ChooseWriter(w.RNG.Intn)
	if err != nil {
		return fmt.Errorf("ops: write: %w", err)
	}
	defer entry.Unlock()

	f, err := w.timeOpenFor(t, entry, os.O_WRONLY)
	if err != nil {
		return err
	}
	defer closeTimed(w, f)

	if w.TG.WriteRandom {
		if err := seekRandom(w, f, entry.Size(), w.TG.WriteBlocksize); err != nil {
			return err
		}
	}

	// write mode never grows the file: cap the write at what remains
	// between the current offset and the file's current size.
	cur, err := f.Seek(0, io.SeekCurrent)
	if err != nil {
		return fmt.Errorf("ops: write: seek current: %w", err)
	}
	remaining := entry.Size() - uint64(cur)
	writeSize := w.TG.WriteSize
	if writeSize > remaining {
		writeSize = remaining
	}

	n, err := w.writeChunks(f, writeSize, w.TG.WriteBlocksize)
	results.WriteBytes += n
	if err != nil {
		return err
	}

	if w.TG.FsyncFile {
		if err := w.timeSyscall(stats.SyscallWrite, f.Sync); err != nil {
			return fmt.Errorf("ops: write: fsync: %w", err)
		}
	}
	return nil
}

func opWriteAll(w *Worker, t *Target, results *Results) error {
	return writeAllImpl(w, t, results, false)
}

func opWriteAllFsync(w *Worker, t *Target, results *Results) error {
	return writeAllImpl(w, t, results, true)
}

func writeAllImpl(w *Worker, t *Target, results *Results, fsync bool) error {
	entry, err := t.Fileset.ChooseWriter(w.RNG.Intn)
	if err != nil {
		return fmt.Errorf("ops: writeall: %w", err)
	}
	defer entry.Unlock()

	f, err := w.timeOpenFor(t, entry, os.O_WRONLY)
	if err != nil {
		return err
	}
	defer closeTimed(w, f)

	n, err := w.writeChunks(f, entry.Size(), w.TG.WriteBlocksize)
	results.WriteBytes += n
	if err != nil {
		return err
	}

	if fsync {
		if err := w.timeSyscall(stats.SyscallWrite, f.Sync); err != nil {
			return fmt.Errorf("ops: writeall_fsync: fsync: %w", err)
		}
	}
	return nil
}

func opCreate(w *Worker, t *Target, results *Results) error {
	size := w.RNG.Uint64Range(t.Cfg.MinFilesize, t.Cfg.MaxFilesize)

	entry, err := t.Fileset.AddFile(size)
	if err != nil {
		return fmt.Errorf("ops: create: %w", err)
	}
	defer entry.Unlock()

	f, err := w.timeOpenFor(t, entry, os.O_WRONLY|os.O_CREATE|os.O_TRUNC)
	if err != nil {
		return err
	}
	defer closeTimed(w, f)

	n, err := w.writeChunks(f, size, t.Cfg.CreateBlocksize)
	results.WriteBytes += n
	return err
}

func opAppend(w *Worker, t *Target, results *Results) error {
	entry, err := t.Fileset.ChooseWriter(w.RNG.Intn)
	if err != nil {
		return fmt.Errorf("ops: append: %w", err)
	}
	defer entry.Unlock()

	f, err := w.timeOpenFor(t, entry, os.O_WRONLY|os.O_APPEND)
	if err != nil {
		return err
	}
	defer closeTimed(w, f)

	n, err := w.writeChunks(f, w.TG.WriteSize, w.TG.WriteBlocksize)
	results.WriteBytes += n
	if err != nil {
		return err
	}

	entry.SetSize(entry.Size() + n)
	return nil
}

func opDelete(w *Worker, t *Target, _ *Results) error {
	entry, err := t.Fileset.ChooseWriter(w.RNG.Intn)
	if err != nil {
		return fmt.Errorf("ops: delete: %w", err)
	}
	defer entry.Unlock()

	path := entry.Name()
	if err := w.timeSyscall(stats.SyscallUnlink, func() error { return t.FS.Remove(path) }); err != nil {
		return fmt.Errorf("ops: delete: unlink %s: %w", path, err)
	}

	t.Fileset.RemoveFile(entry)
	return nil
}

func opStat(w *Worker, t *Target, _ *Results) error {
	entry, err := t.Fileset.ChooseReader(w.RNG.Intn)
	if err != nil {
		return fmt.Errorf("ops: stat: %w", err)
	}
	defer entry.RUnlock()

	path := entry.Name()
	return w.timeSyscall(stats.SyscallOpen, func() error {
		_, err := t.FS.Stat(path)
		return err
	})
}

func opOpenClose(w *Worker, t *Target, _ *Results) error {
	entry, err := t.Fileset.ChooseReader(w.RNG.Intn)
	if err != nil {
		return fmt.Errorf("ops: open_close: %w", err)
	}
	defer entry.RUnlock()

	f, err := w.timeOpenFor(t, entry, os.O_RDONLY)
	if err != nil {
		return err
	}
	return closeTimed(w, f)
}

// --- shared helpers ---

func (w *Worker) timeOpenFor(t *Target, entry *fileset.FileEntry, flag int) (fs.File, error) {
	var f fs.File
	err := w.timeSyscall(stats.SyscallOpen, func() error {
		opened, err := t.open(entry.Name(), flag, 0o644)
		f = opened
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("ops: open %s: %w", entry.Name(), err)
	}
	return f, nil
}

func closeTimed(w *Worker, f interface{ Close() error }) error {
	return w.timeSyscall(stats.SyscallClose, f.Close)
}

func seekRandom(w *Worker, f io.Seeker, fileSize, blocksize uint64) error {
	if blocksize == 0 || fileSize < blocksize {
		return nil
	}
	numBlocks := fileSize / blocksize
	offset := int64(w.RNG.Uint64Range(0, numBlocks-1)) * int64(blocksize)
	return w.timeSyscall(stats.SyscallLseek, func() error {
		_, err := f.Seek(offset, io.SeekStart)
		return err
	})
}

// readChunks reads up to total bytes from f in blocksize chunks. If skip
// is true, it seeks forward by skipsize between chunks instead of
// reading contiguously (read_skip mode, mutually exclusive with random).
// total == 0 reads until EOF.
func (w *Worker) readChunks(f io.ReadSeeker, total, blocksize uint64, skip bool, skipsize uint64) (uint64, error) {
	if blocksize == 0 {
		return 0, nil
	}

	buf := w.EnsureBuffer(int(blocksize))
	var read uint64

	for total == 0 || read < total {
		want := blocksize
		if total != 0 && total-read < want {
			want = total - read
		}

		var n int
		err := w.timeSyscall(stats.SyscallRead, func() error {
			var rerr error
			n, rerr = f.Read(buf[:want])
			return rerr
		})
		read += uint64(n)

		if err == io.EOF || n == 0 {
			break
		}
		if err != nil {
			return read, fmt.Errorf("ops: read: %w", err)
		}

		if skip && skipsize > 0 {
			if err := w.timeSyscall(stats.SyscallLseek, func() error {
				_, serr := f.Seek(int64(skipsize), io.SeekCurrent)
				return serr
			}); err != nil {
				return read, fmt.Errorf("ops: read: skip seek: %w", err)
			}
		}
	}

	return read, nil
}

// writeChunks writes exactly total bytes to f in blocksize chunks from
// the worker's scratch buffer (whose contents are arbitrary, per §6's
// on-disk layout note).
func (w *Worker) writeChunks(f io.Writer, total, blocksize uint64) (uint64, error) {
	if blocksize == 0 || total == 0 {
		return 0, nil
	}

	buf := w.EnsureBuffer(int(blocksize))
	var written uint64

	for written < total {
		want := blocksize
		if total-written < want {
			want = total - written
		}

		var n int
		err := w.timeSyscall(stats.SyscallWrite, func() error {
			var werr error
			n, werr = f.Write(buf[:want])
			return werr
		})
		written += uint64(n)

		if err != nil {
			return written, fmt.Errorf("ops: write: %w", err)
		}
		if uint64(n) < want {
			return written, fmt.Errorf("ops: write: short write (%d of %d)", n, want)
		}
	}

	return written, nil
}
