package config

import (
	"fmt"
)

// Bind walks a parsed container tree into a typed [Profile]. Defaults:
// NumDirs=1, CreateBlocksize/AgeBlocksize default to 4096 if unset, a
// thread group with BindFS unset (-1) picks a filesystem at random per op.
func bind(root *container) (*Profile, error) {
	p := &Profile{}

	if v, ok := root.first("time"); ok {
		n, err := v.AsU32()
		if err != nil {
			return nil, fmt.Errorf("config: time: %w", err)
		}
		p.Global.Time = n
	}
	if v, ok := root.first("verbose"); ok {
		p.Global.Verbose, _ = v.AsBool()
	}
	if v, ok := root.first("directio"); ok {
		p.Global.DirectIO, _ = v.AsBool()
	}
	if v, ok := root.first("bufferio"); ok {
		p.Global.BufferIO, _ = v.AsBool()
	}
	if v, ok := root.first("alignio"); ok {
		p.Global.AlignIO, _ = v.AsBool()
	}
	if v, ok := root.first("callout"); ok {
		p.Global.Callout, _ = v.AsString()
	}

	for _, child := range root.children {
		switch child.kind {
		case "filesystem":
			fsCfg, _, err := bindFilesystem(child)
			if err != nil {
				return nil, err
			}
			p.Filesystems = append(p.Filesystems, *fsCfg)

		case "threadgroup":
			// A top-level [threadgroup] (as opposed to one nested inside
			// a [filesystem], which describes that filesystem's aging
			// workload) is one of the main benchmark's worker pools.
			tg, err := bindThreadGroup(child)
			if err != nil {
				return nil, err
			}
			p.Groups = append(p.Groups, *tg)

		default:
			return nil, fmt.Errorf("config: unexpected top-level section [%s]", child.kind)
		}
	}

	applyGlobalIOFlags(p)

	return p, nil
}

// applyGlobalIOFlags folds the global directio/bufferio/alignio toggles
// into every filesystem's flag set, per §6: directio implies
// DIRECTIO+ALIGNIO4K, bufferio implies LIBCIO, alignio implies ALIGNIO4K.
func applyGlobalIOFlags(p *Profile) {
	if !p.Global.DirectIO && !p.Global.BufferIO && !p.Global.AlignIO {
		return
	}
	for i := range p.Filesystems {
		if p.Global.DirectIO {
			p.Filesystems[i].Flags |= FlagDirectIO | FlagAlignIO4K
		}
		if p.Global.BufferIO {
			p.Filesystems[i].Flags |= FlagLibCIO
		}
		if p.Global.AlignIO {
			p.Filesystems[i].Flags |= FlagAlignIO4K
		}
	}
}

func bindFilesystem(c *container) (*Filesystem, *ThreadGroup, error) {
	fsCfg := &Filesystem{NumDirs: 1, CreateBlocksize: 4096, AgeBlocksize: 4096}

	if v, ok := c.first("location"); ok {
		fsCfg.Location, _ = v.AsString()
	}
	if fsCfg.Location == "" {
		return nil, nil, fmt.Errorf("%w: [filesystem] requires location", ErrValidation)
	}
	if v, ok := c.first("num_files"); ok {
		fsCfg.NumFiles, _ = v.AsU64()
	}
	if v, ok := c.first("num_dirs"); ok {
		n, _ := v.AsU64()
		fsCfg.NumDirs = int(n)
	}
	if v, ok := c.first("reuse"); ok {
		fsCfg.Reuse, _ = v.AsBool()
	}
	if v, ok := c.first("min_filesize"); ok {
		fsCfg.MinFilesize, _ = v.AsU64()
	}
	if v, ok := c.first("max_filesize"); ok {
		fsCfg.MaxFilesize, _ = v.AsU64()
	}
	if v, ok := c.first("create_blocksize"); ok {
		fsCfg.CreateBlocksize, _ = v.AsU64()
	}
	if v, ok := c.first("age_blocksize"); ok {
		fsCfg.AgeBlocksize, _ = v.AsU64()
	}
	if v, ok := c.first("desired_util"); ok {
		fsCfg.DesiredUtil, _ = v.AsDouble()
	}
	if v, ok := c.first("init_util"); ok {
		fsCfg.InitUtil, _ = v.AsDouble()
	}
	if v, ok := c.first("init_size"); ok {
		fsCfg.InitSize, _ = v.AsU64()
	}
	if v, ok := c.first("agefs"); ok {
		fsCfg.AgeFS, _ = v.AsBool()
	}

	for _, sw := range c.values["size_weight"] {
		fsCfg.SizeWeights = append(fsCfg.SizeWeights, SizeWeight{Size: sw.SWSize, Weight: sw.SWWt})
	}

	var agingTG *ThreadGroup
	for _, child := range c.children {
		switch child.kind {
		case "threadgroup":
			tg, err := bindThreadGroup(child)
			if err != nil {
				return nil, nil, err
			}
			agingTG = tg
			fsCfg.AgeTG = tg
		default:
			return nil, nil, fmt.Errorf("config: unexpected [filesystem] child section [%s]", child.kind)
		}
	}
	if fsCfg.AgeFS && agingTG == nil {
		return nil, nil, fmt.Errorf("%w: agefs=1 requires a nested [threadgroup]", ErrValidation)
	}

	return fsCfg, nil, nil
}

func bindThreadGroup(c *container) (*ThreadGroup, error) {
	tg := &ThreadGroup{NumThreads: 1, BindFS: -1}

	if v, ok := c.first("num_threads"); ok {
		n, _ := v.AsU64()
		tg.NumThreads = int(n)
	}
	if v, ok := c.first("bindfs"); ok {
		n, _ := v.AsU64()
		tg.BindFS = int(n)
	}

	for op := OpCode(0); op < NumOps; op++ {
		key := op.String() + "_weight"
		if v, ok := c.first(key); ok {
			w, _ := v.AsU32()
			tg.Weight[op] = w
		}
	}

	if v, ok := c.first("read_random"); ok {
		tg.ReadRandom, _ = v.AsBool()
	}
	if v, ok := c.first("read_skip"); ok {
		tg.ReadSkip, _ = v.AsBool()
	}
	if v, ok := c.first("read_size"); ok {
		tg.ReadSize, _ = v.AsU64()
	}
	if v, ok := c.first("read_blocksize"); ok {
		tg.ReadBlocksize, _ = v.AsU64()
	}
	if v, ok := c.first("read_skipsize"); ok {
		tg.ReadSkipsize, _ = v.AsU64()
	}
	if v, ok := c.first("write_random"); ok {
		tg.WriteRandom, _ = v.AsBool()
	}
	if v, ok := c.first("write_size"); ok {
		tg.WriteSize, _ = v.AsU64()
	}
	if v, ok := c.first("write_blocksize"); ok {
		tg.WriteBlocksize, _ = v.AsU64()
	}
	if v, ok := c.first("fsync_file"); ok {
		tg.FsyncFile, _ = v.AsBool()
	}
	if v, ok := c.first("op_delay"); ok {
		tg.OpDelayMicros, _ = v.AsU64()
	}

	for _, child := range c.children {
		if child.kind != "stats" {
			return nil, fmt.Errorf("config: unexpected [threadgroup] child section [%s]", child.kind)
		}
		st, err := bindStats(child)
		if err != nil {
			return nil, err
		}
		tg.Stats = st
	}

	return tg, nil
}

func bindStats(c *container) (*ThreadGroupStats, error) {
	st := &ThreadGroupStats{}

	if v, ok := c.first("enable_stats"); ok {
		st.Enabled, _ = v.AsBool()
	}

	for _, v := range c.values["ignore"] {
		name, _ := v.AsString()
		st.Ignore = append(st.Ignore, name)
	}

	for _, v := range c.values["bucket"] {
		st.Buckets = append(st.Buckets, v.Range)
	}

	return st, nil
}
