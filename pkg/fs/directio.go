package fs

import (
	"fmt"
	"os"
	"unsafe"

	"golang.org/x/sys/unix"
)

// AlignBytes is the alignment required by O_DIRECT on Linux. Buffers and
// offsets used for direct I/O must be multiples of this value.
const AlignBytes = 4096

// AlignedBuffer is a scratch buffer whose backing array is aligned to
// [AlignBytes]. It is re-acquired (via [NewAlignedBuffer]) whenever the
// caller needs a different size; there is no in-place resize, mirroring the
// acquire/cleanup pairing used elsewhere in this package (see
// [AtomicWriter.Write]).
type AlignedBuffer struct {
	raw   []byte
	slice []byte
}

// NewAlignedBuffer allocates a buffer of size n whose first usable byte
// starts on an [AlignBytes] boundary. n itself does not need to be a
// multiple of AlignBytes, but callers doing direct I/O should size it so
// that it is (operation handlers do this via blocksize config values).
func NewAlignedBuffer(n int) *AlignedBuffer {
	raw := make([]byte, n+AlignBytes)
	addr := uintptr(unsafe.Pointer(&raw[0]))
	off := (AlignBytes - int(addr%AlignBytes)) % AlignBytes
	return &AlignedBuffer{raw: raw, slice: raw[off : off+n]}
}

// Bytes returns the aligned, n-byte view into the buffer's backing array.
func (b *AlignedBuffer) Bytes() []byte {
	return b.slice
}

// OpenDirect opens path with O_DIRECT in addition to the caller-supplied
// flags. On platforms (or filesystems) that reject O_DIRECT the caller
// should fall back to a regular open; FFSB profiles that request direct I/O
// but run against a filesystem without support surface this as an IoError
// at the op-handler layer rather than silently downgrading.
func OpenDirect(fsys FS, path string, flag int, perm os.FileMode) (File, error) {
	real, ok := fsys.(*Real)
	if !ok {
		// Non-Real implementations (tests) do not support O_DIRECT; fall
		// back to a normal open so unit tests can run against tmpfs.
		return fsys.OpenFile(path, flag, perm)
	}

	f, err := real.OpenFile(path, flag|unix.O_DIRECT, perm)
	if err != nil {
		return nil, fmt.Errorf("open direct %s: %w", path, err)
	}

	return f, nil
}
