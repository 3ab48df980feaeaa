package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/imagvfx/renderq"
	"github.com/imagvfx/renderq/service"
	"github.com/imagvfx/renderq/service/sqlite"
	"github.com/urfave/cli"
)

// workspace is what the renderq commands work with:
// the services and a runner made from the settings.
type workspace struct {
	services service.Services
	closer   io.Closer
	runner   *renderq.Runner
	history  *renderq.History
}

func openWorkspace(ctx *cli.Context) (*workspace, error) {
	current, err := renderq.NewSettingsFile(ctx.GlobalString("config")).Load()
	if err != nil {
		return nil, err
	}
	db, err := sqlite.OpenOrCreate(ctx.GlobalString("db"))
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	w := newWorkspace(sqlite.NewServices(db), current)
	w.closer = db
	w.runner.Output = os.Stdout
	return w, nil
}

// newWorkspace creates a workspace on the services.
// It renders with the settings applied to the process environment.
func newWorkspace(services service.Services, current renderq.Settings) *workspace {
	runner := renderq.NewRunner(current, logger)
	return &workspace{
		services: services,
		runner:   runner,
		history:  renderq.NewHistory(services.RunService(), runner, logger),
	}
}

func (w *workspace) Close() error {
	if w.closer == nil {
		return nil
	}
	return w.closer.Close()
}

func (w *workspace) Queue() (*renderq.Queue, error) {
	return renderq.NewQueue(w.services.QueueService())
}

// interruptContext returns a context that is canceled on Ctrl-C,
// so running renderer processes are killed with renderq.
func interruptContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

// exitError converts an error to one that makes renderq exit with 1.
func exitError(err error) error {
	if err == nil {
		return nil
	}
	logger.Error(err)
	return cli.NewExitError(err.Error(), 1)
}
