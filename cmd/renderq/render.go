package main

import (
	"fmt"

	"github.com/imagvfx/renderq"
	"github.com/urfave/cli"
)

func renderJob(ctx *cli.Context) error {
	j, err := jobFromFlags(ctx)
	if err != nil {
		return exitError(err)
	}
	w, err := openWorkspace(ctx)
	if err != nil {
		return exitError(err)
	}
	defer w.Close()
	return render(w, j)
}

func launch(ctx *cli.Context) error {
	w, err := openWorkspace(ctx)
	if err != nil {
		return exitError(err)
	}
	defer w.Close()
	q, err := w.Queue()
	if err != nil {
		return exitError(err)
	}
	if q.Len() != 0 {
		return runQueue(w, q)
	}
	j, err := jobFromFlags(ctx)
	if err != nil {
		return exitError(err)
	}
	return render(w, j)
}

func render(w *workspace, j renderq.Job) error {
	rctx, cancel := interruptContext()
	defer cancel()
	_, err := w.history.Render(rctx, j)
	if err != nil {
		return exitError(fmt.Errorf("render %v: %w", j.Scene, err))
	}
	return nil
}

func runQueue(w *workspace, q *renderq.Queue) error {
	n := q.Len()
	if n == 0 {
		logger.Notice("queue is empty")
		return nil
	}
	logger.Noticef("rendering %d queued jobs", n)
	rctx, cancel := interruptContext()
	defer cancel()
	results, err := q.DrainAndExecuteAll(rctx, w.history)
	failed := 0
	for _, res := range results {
		if res.Err != nil {
			failed++
			logger.Errorf("%v: %v", res.Job.Label(), res.Err)
		}
	}
	logger.Noticef("queue finished: %d rendered, %d failed, %d left", len(results)-failed, failed, q.Len())
	if err != nil {
		return exitError(err)
	}
	if failed != 0 {
		return cli.NewExitError(fmt.Sprintf("%d of %d jobs failed", failed, len(results)), 1)
	}
	return nil
}
