package fs

import (
	"os"
)

// Real implements [FS] against the host's actual filesystem — the
// implementation op handlers, the fileset catalog, and the lifecycle
// manager run against outside of tests.
//
// All methods are pure passthroughs to the [os] package with identical
// behavior and error semantics. The only exception is [Real.Exists],
// which wraps [os.Stat].
type Real struct{}

// NewReal returns a new [Real] filesystem. The driver wires this into
// every op handler; the package tests also run against it, inside
// temporary directories.
func NewReal() *Real {
	return &Real{}
}

// Open is a passthrough wrapper for [os.Open]. Used by [AtomicWriter]
// to open the parent directory for fsync; the op handlers open files
// through OpenFile instead.
func (r *Real) Open(path string) (File, error) {
	return os.Open(path)
}

// Create is a passthrough wrapper for [os.Create].
func (r *Real) Create(path string) (File, error) {
	return os.Create(path)
}

// OpenFile is a passthrough wrapper for [os.OpenFile]. The create/
// write/append op handlers pass the flag combination (O_CREATE|
// O_TRUNC, O_APPEND, ...) their operation calls for.
func (r *Real) OpenFile(path string, flag int, perm os.FileMode) (File, error) {
	return os.OpenFile(path, flag, perm)
}

// ReadFile is a passthrough wrapper for [os.ReadFile].
func (r *Real) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// WriteFile is a passthrough wrapper for [os.WriteFile].
func (r *Real) WriteFile(path string, data []byte, perm os.FileMode) error {
	return os.WriteFile(path, data, perm)
}

// --- Directory Operations ---

// ReadDir is a passthrough wrapper for [os.ReadDir]. Used by
// GrabOldFileset to walk an existing fileset's basedir subdirectories
// when reuse mode rebuilds the catalog from disk.
func (r *Real) ReadDir(path string) ([]os.DirEntry, error) {
	return os.ReadDir(path)
}

// MkdirAll is a passthrough wrapper for [os.MkdirAll]. Used when
// populating a fileset's numsubdirs subdirectories and the metaops
// directory.
func (r *Real) MkdirAll(path string, perm os.FileMode) error {
	return os.MkdirAll(path, perm)
}

// --- Metadata ---

// Stat is a passthrough wrapper for [os.Stat]. Used by the stat op
// handler and by reuse-mode validation of on-disk file sizes against
// [minfilesize, maxfilesize].
func (r *Real) Stat(path string) (os.FileInfo, error) {
	return os.Stat(path)
}

// Exists checks whether a path exists using [os.Stat].
// Returns (true, nil) if the file exists, (false, nil) if it does not,
// or (false, err) for other errors.
func (r *Real) Exists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}

	if os.IsNotExist(err) {
		return false, nil
	}

	return false, err
}

// --- Mutations ---

// Remove is a passthrough wrapper for [os.Remove]. Used by the delete
// op handler to unlink a catalog entry's path before it's pushed onto
// the fileset's hole pool.
func (r *Real) Remove(path string) error {
	return os.Remove(path)
}

// RemoveAll is a passthrough wrapper for [os.RemoveAll]. Used when
// (re)creating a fileset's basedir empty before a fresh population
// pass (not invoked in reuse mode).
func (r *Real) RemoveAll(path string) error {
	return os.RemoveAll(path)
}

// Rename is a passthrough wrapper for [os.Rename]. Used by the metaop
// handler's directory-entry rotation under the metaops directory.
func (r *Real) Rename(oldpath, newpath string) error {
	return os.Rename(oldpath, newpath)
}

// Compile-time interface check.
var _ FS = (*Real)(nil)
