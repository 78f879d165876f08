package fileset

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strconv"

	"github.com/jrsantos/ffsb/pkg/fs"
)

// Validator reports the on-disk size of a conformant file found by
// [GrabOldFileset], or an error if it's unreadable or otherwise invalid
// for reuse (e.g. outside the filesystem's configured size range).
type Validator func(path string, info fs.FS) (size uint64, err error)

// GrabOldFileset walks an existing basedir tree, validates that every
// subdirectory and file name conforms to the <basename><digits> pattern,
// invokes validate per conformant file to learn its on-disk size, and
// returns a rebuilt [Fileset]. Whether a file sits in the subdirectory
// numbered <num mod numsubdirs> is not checked; each entry keeps the
// path it was found at. Nums below the highest one found that have no
// file become holes, so listsize stays index size plus hole count. It
// fails if any conformant file is unreadable (validate returns an error)
// or if any entry under basedir does not conform to the naming pattern.
// skip names entries at the top of basedir that are not part of the
// fileset proper (e.g. the metaops directory every filesystem carries
// alongside its <basename><i> subdirs) and must be ignored rather than
// rejected as non-conformant.
func GrabOldFileset(fsys fs.FS, basedir, basename string, numsubdirs int, validate Validator, skip ...string) (*Fileset, error) {
	subdirPattern := regexp.MustCompile("^" + regexp.QuoteMeta(basename) + `(\d+)$`)
	filePattern := regexp.MustCompile("^" + regexp.QuoteMeta(basename) + `(\d+)$`)

	skipSet := make(map[string]bool, len(skip))
	for _, name := range skip {
		skipSet[name] = true
	}

	subdirs, err := fsys.ReadDir(basedir)
	if err != nil {
		return nil, fmt.Errorf("fileset: reading basedir %s: %w", basedir, err)
	}

	out := New(basedir, basename, numsubdirs)

	for _, subdir := range subdirs {
		if skipSet[subdir.Name()] {
			continue
		}

		if !subdir.IsDir() {
			return nil, fmt.Errorf("fileset: non-conformant entry %s in %s: not a directory", subdir.Name(), basedir)
		}

		m := subdirPattern.FindStringSubmatch(subdir.Name())
		if m == nil {
			return nil, fmt.Errorf("fileset: non-conformant subdirectory name %q in %s", subdir.Name(), basedir)
		}

		subdirPath := filepath.Join(basedir, subdir.Name())

		files, err := fsys.ReadDir(subdirPath)
		if err != nil {
			return nil, fmt.Errorf("fileset: reading subdir %s: %w", subdirPath, err)
		}

		for _, f := range files {
			if f.IsDir() {
				return nil, fmt.Errorf("fileset: non-conformant entry %s in %s: unexpected directory", f.Name(), subdirPath)
			}

			fm := filePattern.FindStringSubmatch(f.Name())
			if fm == nil {
				return nil, fmt.Errorf("fileset: non-conformant file name %q in %s", f.Name(), subdirPath)
			}

			num, err := strconv.ParseUint(fm[1], 10, 64)
			if err != nil {
				return nil, fmt.Errorf("fileset: parsing num from %q: %w", f.Name(), err)
			}

			path := filepath.Join(subdirPath, f.Name())

			size, err := validate(path, fsys)
			if err != nil {
				return nil, fmt.Errorf("fileset: validating %s: %w", path, err)
			}

			entry := &FileEntry{num: num, name: path, size: size}
			out.slotOf[num] = len(out.entries)
			out.entries = append(out.entries, entry)
			if num >= out.listsize {
				out.listsize = num + 1
			}
		}
	}

	for num := uint64(0); num < out.listsize; num++ {
		if _, ok := out.slotOf[num]; !ok {
			out.holes = append(out.holes, num)
		}
	}

	return out, nil
}
