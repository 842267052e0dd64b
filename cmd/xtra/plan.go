package main

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/INLOpen/xtra/freezer"
)

// runPlan prints which data files a range touches and where its records start.
func runPlan(ctx context.Context, r *freezer.Reader, cmd *command, stdout io.Writer) error {
	sched, err := r.Schedule(ctx, cmd.category, cmd.blocks.min, cmd.blocks.max)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(stdout, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "FILE\tFIRST BLOCK\tRECORDS\tFIRST OFFSET\tLAST OFFSET\tROLLOVER")
	fmt.Fprintln(w, "----\t-----------\t-------\t------------\t-----------\t--------")
	block := sched.Min
	for _, job := range sched.Jobs {
		fmt.Fprintf(w, "%s\t%d\t%d\t%d\t%d\t%t\n",
			cmd.category.DataFile(job.FileNumber),
			block,
			job.Records(),
			job.Offsets[0],
			job.Offsets[len(job.Offsets)-1],
			job.Rollover,
		)
		block += uint64(job.Records())
	}
	fmt.Fprintf(w, "\n%d records in %d files, %d stored bytes\n", sched.Records(), len(sched.Jobs), sched.StoredBytes())
	return w.Flush()
}
