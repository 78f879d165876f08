package fs

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// Utilization reports the fraction (0..1) of total space currently used on
// the filesystem that contains path, per [unix.Statfs]. The filesystem
// lifecycle manager polls this while aging a fileset toward a target
// utilization.
func Utilization(path string) (float64, error) {
	var st unix.Statfs_t
	if err := unix.Statfs(path, &st); err != nil {
		return 0, fmt.Errorf("statfs %s: %w", path, err)
	}

	if st.Blocks == 0 {
		return 0, nil
	}

	used := st.Blocks - st.Bfree
	return float64(used) / float64(st.Blocks), nil
}
