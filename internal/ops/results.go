// Package ops implements the twelve filesystem benchmark operations and
// the static descriptor table that maps an [config.OpCode] to its
// handler, grounded on the original ffsb_op.c's ffsb_op_list table and
// do_op dispatcher.
package ops

import "github.com/jrsantos/ffsb/internal/config"

// Results is one worker's (or, after summing, one group's or the grand
// total's) transaction tally: a count and an accumulated weight per op,
// plus total bytes moved by read and write-shaped ops (used by the
// exclusive-mix, bytes/sec report line).
type Results struct {
	Ops       [config.NumOps]uint64
	OpWeight  [config.NumOps]uint64
	ReadBytes uint64
	WriteBytes uint64
}

// Add folds src into r, matching the original's add_results: summation
// across every field, including the byte counters.
func (r *Results) Add(src *Results) {
	for i := range r.Ops {
		r.Ops[i] += src.Ops[i]
		r.OpWeight[i] += src.OpWeight[i]
	}
	r.ReadBytes += src.ReadBytes
	r.WriteBytes += src.WriteBytes
}

// Total returns the sum of all op counts.
func (r *Results) Total() uint64 {
	var total uint64
	for _, n := range r.Ops {
		total += n
	}
	return total
}
