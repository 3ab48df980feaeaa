package main

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/imagvfx/renderq"
	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"
)

func queueAdd(ctx *cli.Context) error {
	j, err := jobFromFlags(ctx)
	if err != nil {
		return exitError(err)
	}
	w, err := openWorkspace(ctx)
	if err != nil {
		return exitError(err)
	}
	defer w.Close()
	q, err := w.Queue()
	if err != nil {
		return exitError(err)
	}
	j, err = q.Enqueue(j)
	if err != nil {
		return exitError(err)
	}
	logger.Noticef("queued %v as %v (%d in queue)", j.Label(), j.ID, q.Len())
	return nil
}

func queueList(ctx *cli.Context) error {
	w, err := openWorkspace(ctx)
	if err != nil {
		return exitError(err)
	}
	defer w.Close()
	q, err := w.Queue()
	if err != nil {
		return exitError(err)
	}
	jobs := q.Jobs()
	if len(jobs) == 0 {
		fmt.Println("no job in queue")
		return nil
	}
	writeJobTable(os.Stdout, jobs)
	return nil
}

func writeJobTable(out io.Writer, jobs []renderq.Job) {
	table := tablewriter.NewWriter(out)
	table.SetHeader([]string{"#", "ID", "Scene", "Frames", "Mode", "Res", "Layer", "Output"})
	for i, j := range jobs {
		table.Append([]string{
			strconv.Itoa(i),
			j.ID,
			j.Scene,
			fmt.Sprintf("%d-%d", j.Start, j.End),
			j.Mode.String(),
			fmt.Sprintf("%d%%", j.Resolution),
			j.Layer,
			j.OutputDir,
		})
	}
	table.Render()
}

func queueRemove(ctx *cli.Context) error {
	arg := ctx.Args().First()
	i, err := strconv.Atoi(arg)
	if err != nil {
		return cli.NewExitError(fmt.Sprintf("need a job index from 'queue list', got %q", arg), 1)
	}
	w, err := openWorkspace(ctx)
	if err != nil {
		return exitError(err)
	}
	defer w.Close()
	q, err := w.Queue()
	if err != nil {
		return exitError(err)
	}
	j, ok, err := q.RemoveAt(i)
	if err != nil {
		return exitError(err)
	}
	if !ok {
		logger.Warningf("no job at index %d", i)
		return nil
	}
	logger.Noticef("removed %v from queue", j.Label())
	return nil
}

func queueRun(ctx *cli.Context) error {
	w, err := openWorkspace(ctx)
	if err != nil {
		return exitError(err)
	}
	defer w.Close()
	q, err := w.Queue()
	if err != nil {
		return exitError(err)
	}
	return runQueue(w, q)
}
