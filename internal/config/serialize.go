package config

import (
	"fmt"
	"strconv"
	"strings"
)

// Serialize writes p back out in the new sectioned dialect. Parse(new
// dialect) . Serialize is a fixed point for every key this package
// recognizes (§8's round-trip property); unrecognized keys are not
// preserved, since Profile has no side channel for them.
func Serialize(p *Profile) string {
	var b strings.Builder

	if p.Global.Time != 0 {
		fmt.Fprintf(&b, "time=%d\n", p.Global.Time)
	}
	writeBoolIfSet(&b, "verbose", p.Global.Verbose)
	writeBoolIfSet(&b, "directio", p.Global.DirectIO)
	writeBoolIfSet(&b, "bufferio", p.Global.BufferIO)
	writeBoolIfSet(&b, "alignio", p.Global.AlignIO)
	if p.Global.Callout != "" {
		fmt.Fprintf(&b, "callout=%s\n", p.Global.Callout)
	}

	for i := range p.Filesystems {
		serializeFilesystem(&b, &p.Filesystems[i])
	}
	for i := range p.Groups {
		serializeThreadGroup(&b, &p.Groups[i])
	}

	return b.String()
}

func writeBoolIfSet(b *strings.Builder, key string, v bool) {
	if v {
		fmt.Fprintf(b, "%s=1\n", key)
	}
}

func serializeFilesystem(b *strings.Builder, fsCfg *Filesystem) {
	fmt.Fprintf(b, "[filesystem]\n")
	fmt.Fprintf(b, "location=%s\n", fsCfg.Location)
	fmt.Fprintf(b, "num_files=%d\n", fsCfg.NumFiles)
	fmt.Fprintf(b, "num_dirs=%d\n", fsCfg.NumDirs)
	writeBoolIfSet(b, "reuse", fsCfg.Reuse)
	fmt.Fprintf(b, "min_filesize=%d\n", fsCfg.MinFilesize)
	fmt.Fprintf(b, "max_filesize=%d\n", fsCfg.MaxFilesize)
	fmt.Fprintf(b, "create_blocksize=%d\n", fsCfg.CreateBlocksize)
	fmt.Fprintf(b, "age_blocksize=%d\n", fsCfg.AgeBlocksize)
	if fsCfg.DesiredUtil != 0 {
		fmt.Fprintf(b, "desired_util=%s\n", formatDouble(fsCfg.DesiredUtil))
	}
	if fsCfg.InitUtil != 0 {
		fmt.Fprintf(b, "init_util=%s\n", formatDouble(fsCfg.InitUtil))
	}
	if fsCfg.InitSize != 0 {
		fmt.Fprintf(b, "init_size=%d\n", fsCfg.InitSize)
	}
	for _, sw := range fsCfg.SizeWeights {
		fmt.Fprintf(b, "size_weight %d %d\n", sw.Size, sw.Weight)
	}
	if fsCfg.AgeFS {
		fmt.Fprintf(b, "agefs=1\n")
		if fsCfg.AgeTG != nil {
			serializeThreadGroup(b, fsCfg.AgeTG)
		}
	}
	fmt.Fprintf(b, "[end]\n")
}

func serializeThreadGroup(b *strings.Builder, tg *ThreadGroup) {
	fmt.Fprintf(b, "[threadgroup]\n")
	fmt.Fprintf(b, "num_threads=%d\n", tg.NumThreads)
	if tg.BindFS >= 0 {
		fmt.Fprintf(b, "bindfs=%d\n", tg.BindFS)
	}
	for op := OpCode(0); op < NumOps; op++ {
		if tg.Weight[op] != 0 {
			fmt.Fprintf(b, "%s_weight=%d\n", op.String(), tg.Weight[op])
		}
	}
	writeBoolIfSet(b, "read_random", tg.ReadRandom)
	writeBoolIfSet(b, "read_skip", tg.ReadSkip)
	if tg.ReadSize != 0 {
		fmt.Fprintf(b, "read_size=%d\n", tg.ReadSize)
	}
	if tg.ReadBlocksize != 0 {
		fmt.Fprintf(b, "read_blocksize=%d\n", tg.ReadBlocksize)
	}
	if tg.ReadSkipsize != 0 {
		fmt.Fprintf(b, "read_skipsize=%d\n", tg.ReadSkipsize)
	}
	writeBoolIfSet(b, "write_random", tg.WriteRandom)
	if tg.WriteSize != 0 {
		fmt.Fprintf(b, "write_size=%d\n", tg.WriteSize)
	}
	if tg.WriteBlocksize != 0 {
		fmt.Fprintf(b, "write_blocksize=%d\n", tg.WriteBlocksize)
	}
	writeBoolIfSet(b, "fsync_file", tg.FsyncFile)
	if tg.OpDelayMicros != 0 {
		fmt.Fprintf(b, "op_delay=%d\n", tg.OpDelayMicros)
	}
	if tg.Stats != nil {
		fmt.Fprintf(b, "[stats]\n")
		writeBoolIfSet(b, "enable_stats", tg.Stats.Enabled)
		for _, name := range tg.Stats.Ignore {
			fmt.Fprintf(b, "ignore=%s\n", name)
		}
		for _, bucket := range tg.Stats.Buckets {
			fmt.Fprintf(b, "bucket %s %s\n", formatDouble(bucket[0]), formatDouble(bucket[1]))
		}
		fmt.Fprintf(b, "[end]\n")
	}
	fmt.Fprintf(b, "[end]\n")
}

func formatDouble(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}
