package ops

import (
	"fmt"
	"io"

	"github.com/jrsantos/ffsb/internal/config"
)

// PrintResults writes r's per-op transaction report to w, followed by
// the trailing "Transactions per Second" line, in exactly the original
// tool's format (ffsb_op.c's print_results/generic_op_print/
// exclusive_op): a name/count/trans-per-sec/%trans/%weight table for
// every op with a nonzero count, or — if tg's weight vector is
// exclusive (§4.3) — a single bytes/sec line instead.
func PrintResults(w io.Writer, tg *config.ThreadGroup, r *Results, totalTime float64) {
	if op, ok := ExclusiveOp(tg); ok && Table[op].ExclusiveMix {
		printExclusive(w, op, r, totalTime)
		return
	}

	fmt.Fprintf(w, "             Op Name   Transactions\t Trans/sec\t%% Trans\t    %% Op Wegiht\n")

	total := r.Total()
	var totalWeight uint64
	for _, ww := range tg.Weight {
		totalWeight += uint64(ww)
	}

	for op := config.OpCode(0); op < config.NumOps; op++ {
		count := r.Ops[op]
		if count == 0 {
			continue
		}

		transPerSec := float64(count) / totalTime
		pctTrans := 0.0
		if total > 0 {
			pctTrans = 100 * float64(count) / float64(total)
		}
		pctWeight := 0.0
		if totalWeight > 0 {
			pctWeight = 100 * float64(tg.Weight[op]) / float64(totalWeight)
		}

		fmt.Fprintf(w, "%20s : %12d\t%10.2f\t%6.3f%%\t\t%6.3f%%\n",
			op.String(), count, transPerSec, pctTrans, pctWeight)
	}

	fmt.Fprintf(w, "-\n%.2f Transactions per Second\n", float64(total)/totalTime)
}

func printExclusive(w io.Writer, op config.OpCode, r *Results, totalTime float64) {
	var bytes uint64
	switch op {
	case config.OpRead, config.OpReadAll:
		bytes = r.ReadBytes
	default:
		bytes = r.WriteBytes
	}

	bytesPerSec := float64(bytes) / totalTime
	fmt.Fprintf(w, "%20s : %12d ops\t%12.2f bytes/sec\n", op.String(), r.Ops[op], bytesPerSec)
	fmt.Fprintf(w, "-\n%.2f Transactions per Second\n", float64(r.Ops[op])/totalTime)
}
