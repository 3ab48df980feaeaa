package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/imagvfx/renderq"
	"github.com/imagvfx/renderq/service"
	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"
)

func history(ctx *cli.Context) error {
	f := service.RunFilter{
		JobID:  ctx.String("job"),
		Status: ctx.String("status"),
		Limit:  ctx.Int("limit"),
	}
	switch renderq.RunStatus(f.Status) {
	case "", renderq.RunDone, renderq.RunFailed:
	default:
		return cli.NewExitError(fmt.Sprintf("unknown run status %q, should be done or failed", f.Status), 1)
	}
	w, err := openWorkspace(ctx)
	if err != nil {
		return exitError(err)
	}
	defer w.Close()
	runs, err := w.history.Runs(f)
	if err != nil {
		return exitError(err)
	}
	if len(runs) == 0 {
		fmt.Println("no run to show")
		return nil
	}
	writeRunTable(os.Stdout, runs)
	return nil
}

func writeRunTable(out io.Writer, runs []renderq.Run) {
	table := tablewriter.NewWriter(out)
	table.SetHeader([]string{"#", "Job", "Scene", "Frames", "Mode", "Status", "Exit", "Started", "Took"})
	for _, r := range runs {
		table.Append([]string{
			strconv.Itoa(r.Order),
			r.JobID,
			r.Scene,
			fmt.Sprintf("%d-%d", r.Start, r.End),
			r.Mode.String(),
			string(r.Status),
			strconv.Itoa(r.ExitCode),
			r.Started.Format("2006-01-02 15:04:05"),
			r.Finished.Sub(r.Started).Round(time.Second).String(),
		})
	}
	table.Render()
}
