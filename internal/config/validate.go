package config

import "fmt"

// Validate checks a bound [Profile] against the rules in §6: every
// thread group must have a positive weight sum; any read op in the mix
// requires a positive read blocksize; any write/create/append op
// requires a positive write blocksize; read_random and read_skip are
// mutually exclusive; read_skip requires a positive read_skipsize.
// Grounded on verify_tg in the original parser.c.
func Validate(p *Profile) error {
	for i := range p.Filesystems {
		fsCfg := &p.Filesystems[i]
		if fsCfg.Location == "" {
			return fmt.Errorf("%w: filesystem %d: location is required", ErrValidation, i)
		}
		if fsCfg.MinFilesize > fsCfg.MaxFilesize && fsCfg.MaxFilesize != 0 {
			return fmt.Errorf("%w: filesystem %d: min_filesize > max_filesize", ErrValidation, i)
		}
		if fsCfg.AgeFS {
			if fsCfg.AgeTG == nil {
				return fmt.Errorf("%w: filesystem %d: agefs=1 requires a nested [threadgroup]", ErrValidation, i)
			}
			if err := validateThreadGroup(fsCfg.AgeTG); err != nil {
				return fmt.Errorf("filesystem %d aging group: %w", i, err)
			}
		}
	}

	for i := range p.Groups {
		if err := validateThreadGroup(&p.Groups[i]); err != nil {
			return fmt.Errorf("thread group %d: %w", i, err)
		}
		if p.Groups[i].BindFS >= 0 && p.Groups[i].BindFS >= len(p.Filesystems) {
			return fmt.Errorf("%w: thread group %d: bindfs=%d out of range (%d filesystems)",
				ErrValidation, i, p.Groups[i].BindFS, len(p.Filesystems))
		}
	}

	return nil
}

func validateThreadGroup(tg *ThreadGroup) error {
	if tg.SumWeight() == 0 {
		return fmt.Errorf("%w: sum(weights) must be > 0", ErrValidation)
	}

	readsSelected := tg.Weight[OpRead] > 0 || tg.Weight[OpReadAll] > 0
	writesSelected := tg.Weight[OpWrite] > 0 || tg.Weight[OpWriteAll] > 0 ||
		tg.Weight[OpWriteAllFsync] > 0 || tg.Weight[OpCreate] > 0 || tg.Weight[OpAppend] > 0

	if readsSelected && tg.ReadBlocksize == 0 {
		return fmt.Errorf("%w: a read op is weighted but read_blocksize is 0", ErrValidation)
	}
	if writesSelected && tg.WriteBlocksize == 0 {
		return fmt.Errorf("%w: a write/create/append op is weighted but write_blocksize is 0", ErrValidation)
	}
	if tg.ReadRandom && tg.ReadSkip {
		return fmt.Errorf("%w: read_random and read_skip are mutually exclusive", ErrValidation)
	}
	if tg.ReadSkip && tg.ReadSkipsize == 0 {
		return fmt.Errorf("%w: read_skip requires read_skipsize > 0", ErrValidation)
	}
	if tg.NumThreads <= 0 {
		return fmt.Errorf("%w: num_threads must be > 0", ErrValidation)
	}

	return nil
}
