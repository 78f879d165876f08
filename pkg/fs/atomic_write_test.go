package fs_test

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/jrsantos/ffsb/pkg/fs"
)

const testContentHello = "hello"

func TestAtomicWriteFile_VisibleAfterWrite(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	real := fs.NewReal()
	writer := fs.NewAtomicWriter(real)

	path := filepath.Join(dir, "final.txt")

	if err := writer.WriteWithDefaults(path, strings.NewReader(testContentHello)); err != nil {
		t.Fatalf("AtomicWriteFile: %v", err)
	}

	got, err := real.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}

	if string(got) != testContentHello {
		t.Fatalf("content=%q, want %q", string(got), testContentHello)
	}
}

func TestAtomicWriteFile_NoLeftoverTempFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	real := fs.NewReal()
	writer := fs.NewAtomicWriter(real)

	path := filepath.Join(dir, "final.txt")

	if err := writer.WriteWithDefaults(path, strings.NewReader(testContentHello)); err != nil {
		t.Fatalf("AtomicWriteFile: %v", err)
	}

	entries, err := real.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}

	if len(entries) != 1 {
		t.Fatalf("dir entries=%d, want 1 (no leftover temp file): %v", len(entries), entries)
	}
}
