package ops

import "github.com/jrsantos/ffsb/internal/config"

// Descriptor is the static per-op metadata: name (via config.OpCode's
// Stringer), handler, and whether it participates in the exclusive-mix
// bytes/sec report line (read, readall, write, writeall,
// writeall_fsync, create, append — the ops that move a well-defined
// number of bytes).
type Descriptor struct {
	Op            config.OpCode
	Handler       Handler
	ExclusiveMix  bool
}

// Table is the immutable op code -> descriptor mapping, grounded on the
// original's ffsb_op_list[] static table in ffsb_op.c.
var Table = [config.NumOps]Descriptor{
	config.OpRead:          {Op: config.OpRead, Handler: opRead, ExclusiveMix: true},
	config.OpReadAll:       {Op: config.OpReadAll, Handler: opReadAll, ExclusiveMix: true},
	config.OpWrite:         {Op: config.OpWrite, Handler: opWrite, ExclusiveMix: true},
	config.OpCreate:        {Op: config.OpCreate, Handler: opCreate, ExclusiveMix: true},
	config.OpAppend:        {Op: config.OpAppend, Handler: opAppend, ExclusiveMix: true},
	config.OpDelete:        {Op: config.OpDelete, Handler: opDelete, ExclusiveMix: false},
	config.OpMetaOp:        {Op: config.OpMetaOp, Handler: opMetaOp, ExclusiveMix: false},
	config.OpCreateDir:     {Op: config.OpCreateDir, Handler: opCreateDir, ExclusiveMix: false},
	config.OpStat:          {Op: config.OpStat, Handler: opStat, ExclusiveMix: false},
	config.OpWriteAll:      {Op: config.OpWriteAll, Handler: opWriteAll, ExclusiveMix: true},
	config.OpWriteAllFsync: {Op: config.OpWriteAllFsync, Handler: opWriteAllFsync, ExclusiveMix: true},
	config.OpOpenClose:     {Op: config.OpOpenClose, Handler: opOpenClose, ExclusiveMix: false},
}

// ExclusiveOp returns the single nonzero-weighted op in tg's weight
// vector, and true, if exactly one op is weighted ("exclusive mix" per
// the glossary); otherwise (0, false).
func ExclusiveOp(tg *config.ThreadGroup) (config.OpCode, bool) {
	found := -1
	for op, w := range tg.Weight {
		if w == 0 {
			continue
		}
		if found != -1 {
			return 0, false
		}
		found = op
	}
	if found == -1 {
		return 0, false
	}
	return config.OpCode(found), true
}
