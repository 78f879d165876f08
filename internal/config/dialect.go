package config

import "fmt"

// ParseNew parses the "new", sectioned profile dialect: global options at
// top level plus [filesystem]...[end] and [threadgroup]...[end] sections.
func ParseNew(text string) (*Profile, error) {
	root, err := parseNew(text)
	if err != nil {
		return nil, err
	}
	return bind(root)
}

// ParseOld parses the "old", flat profile dialect: a single implicit
// filesystem and a single implicit thread group described by unsectioned
// key=value assignments in one file (the dialect selected when the CLI
// receives a positional time-override argument; see SPEC_FULL.md §4.7).
// timeOverride replaces any `time=` assignment in the file, matching the
// original's argv[2] clobber of fc.time.
func ParseOld(text string, timeOverride uint32) (*Profile, error) {
	lines, err := tokenize(text)
	if err != nil {
		return nil, err
	}

	root := newContainer("")
	fsContainer := newContainer("filesystem")
	tgContainer := newContainer("threadgroup")

	// Keys belonging to the implicit filesystem vs. the implicit thread
	// group are disjoint by name (see bindFilesystem/bindThreadGroup);
	// route each assignment to whichever container recognizes it, and
	// anything else to the global root.
	fsKeys := map[string]bool{
		"location": true, "num_files": true, "num_dirs": true, "reuse": true,
		"min_filesize": true, "max_filesize": true, "create_blocksize": true,
		"age_blocksize": true, "desired_util": true, "init_util": true,
		"init_size": true, "agefs": true,
	}
	tgKeys := map[string]bool{
		"num_threads": true, "bindfs": true, "read_random": true,
		"read_skip": true, "read_size": true, "read_blocksize": true,
		"read_skipsize": true, "write_random": true, "write_size": true,
		"write_blocksize": true, "fsync_file": true, "op_delay": true,
	}
	for op := OpCode(0); op < NumOps; op++ {
		tgKeys[op.String()+"_weight"] = true
	}

	for _, ln := range lines {
		switch ln.kind {
		case lineAssign:
			switch {
			case fsKeys[ln.key]:
				if err := addAssign(fsContainer, ln); err != nil {
					return nil, err
				}
			case tgKeys[ln.key]:
				if err := addAssign(tgContainer, ln); err != nil {
					return nil, err
				}
			default:
				if err := addAssign(root, ln); err != nil {
					return nil, err
				}
			}
		case lineArgs:
			switch ln.key {
			case "size_weight":
				if err := addArgs(fsContainer, ln); err != nil {
					return nil, err
				}
			case "bucket":
				return nil, fmt.Errorf("config: line %d: the old dialect does not support per-op latency buckets", ln.num)
			default:
				if err := addArgs(tgContainer, ln); err != nil {
					return nil, err
				}
			}
		case lineSectionOpen, lineSectionEnd:
			return nil, fmt.Errorf("config: line %d: the old dialect does not support sections", ln.num)
		}
	}

	root.children = append(root.children, fsContainer)
	fsContainer.children = append(fsContainer.children, tgContainerAsTopLevelSibling(tgContainer))

	p, err := bind(root)
	if err != nil {
		return nil, err
	}

	// The old dialect's implicit thread group is the main benchmark
	// workload, not a filesystem's aging group; move it accordingly.
	if len(p.Filesystems) == 1 && p.Filesystems[0].AgeTG != nil {
		mainTG := *p.Filesystems[0].AgeTG
		p.Filesystems[0].AgeTG = nil
		p.Filesystems[0].AgeFS = false
		p.Groups = append(p.Groups, mainTG)
	}

	p.Global.Time = timeOverride

	return p, nil
}

// tgContainerAsTopLevelSibling marks c as a [threadgroup] child so bind's
// generic container-kind dispatch treats it as the aging group; ParseOld
// then relocates it into Profile.Groups immediately after binding, since
// the old dialect has no concept of aging vs. main workload — one
// implicit thread group is both.
func tgContainerAsTopLevelSibling(c *container) *container {
	c.kind = "threadgroup"
	return c
}
