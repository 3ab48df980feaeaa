package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/imagvfx/renderq/node"
	"github.com/urfave/cli"
)

// submit sends a job to a render node, and waits until the node renders it.
func submit(ctx *cli.Context) error {
	j, err := jobFromFlags(ctx)
	if err != nil {
		return exitError(err)
	}
	addr := ctx.String("node")
	c, err := node.Dial(addr)
	if err != nil {
		return exitError(err)
	}
	defer c.Close()

	rctx, cancel := interruptContext()
	defer cancel()
	logger.Noticef("submitting %v to %v", j.Label(), addr)
	resp, err := c.Render(rctx, j)
	if err != nil {
		if errors.Is(err, node.ErrNodeBusy) {
			return cli.NewExitError(fmt.Sprintf("%v is rendering another job, try later", addr), 1)
		}
		return exitError(fmt.Errorf("submit to %v: %w", addr, err))
	}
	for _, r := range resp.Results {
		fmt.Fprintf(os.Stdout, "[%d] %v\n", r.ExitCode, r.Command)
	}
	if resp.Error != "" {
		return cli.NewExitError(fmt.Sprintf("%v: %v", resp.Job.ID, resp.Error), 1)
	}
	logger.Noticef("%v rendered %v as %v", addr, resp.Job.Label(), resp.Job.ID)
	return nil
}
