package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/imagvfx/renderq"
	"github.com/imagvfx/renderq/log"
	"github.com/imagvfx/renderq/node"
	"github.com/imagvfx/renderq/service"
	"github.com/imagvfx/renderq/service/sqlite"
	"github.com/urfave/cli"
	"google.golang.org/grpc"
)

var logger = log.New("renderd")

func main() {
	app := cli.NewApp()
	app.Name = "renderd"
	app.Usage = "render jobs sent from other machines"
	app.Version = "0.1.0"
	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "v",
			Usage: "enable verbose logging",
		},
		cli.BoolFlag{
			Name:  "vv",
			Usage: "enable even more verbose logging",
		},
		cli.StringFlag{
			Name:   "addr",
			Value:  "localhost:8283",
			EnvVar: "RENDERQ_NODE",
			Usage:  "address to serve grpc",
		},
		cli.StringFlag{
			Name:  "http",
			Value: "localhost:8284",
			Usage: "address to serve the http api",
		},
		cli.StringFlag{
			Name:   "config",
			Value:  "config.toml",
			EnvVar: "RENDERQ_CONFIG",
			Usage:  "settings file",
		},
		cli.StringFlag{
			Name:   "db",
			Value:  "renderq.db",
			EnvVar: "RENDERQ_DB",
			Usage:  "database keeping the run history",
		},
	}
	app.Action = serve

	app.Run(os.Args)
}

func setupLogging(ctx *cli.Context) {
	if ctx.GlobalBool("v") {
		log.SetLevel(log.Info)
	}

	if ctx.GlobalBool("vv") {
		log.SetLevel(log.Debug)
	}
}

// newNode creates a node server rendering with a runner of the settings.
// Renders of the node are recorded to the services.
func newNode(services service.Services, settings *renderq.SettingsFile, current renderq.Settings) (*node.Server, *renderq.Runner) {
	runner := renderq.NewRunner(current, logger)
	history := renderq.NewHistory(services.RunService(), runner, logger)
	return node.NewServer(history, runner, settings, current, logger), runner
}

func serve(ctx *cli.Context) error {
	setupLogging(ctx)

	settings := renderq.NewSettingsFile(ctx.String("config"))
	current, err := settings.Load()
	if err != nil {
		logger.Error(err)
		return cli.NewExitError(err.Error(), 1)
	}
	db, err := sqlite.OpenOrCreate(ctx.String("db"))
	if err != nil {
		logger.Error(err)
		return cli.NewExitError(err.Error(), 1)
	}
	defer db.Close()
	srv, _ := newNode(sqlite.NewServices(db), settings, current)

	lis, err := net.Listen("tcp", ctx.String("addr"))
	if err != nil {
		logger.Errorf("failed to listen: %v", err)
		return cli.NewExitError(err.Error(), 1)
	}
	gs := grpc.NewServer()
	node.Register(gs, srv)

	hs := &http.Server{
		Addr:    ctx.String("http"),
		Handler: newRouter(srv),
	}

	errc := make(chan error, 2)
	go func() {
		logger.Noticef("serving grpc on %v", lis.Addr())
		errc <- gs.Serve(lis)
	}()
	go func() {
		logger.Noticef("serving http on %v", hs.Addr)
		err := hs.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			err = nil
		}
		errc <- err
	}()

	sig, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	select {
	case err = <-errc:
	case <-sig.Done():
		logger.Notice("shutting down")
	}
	sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	hs.Shutdown(sctx)
	gs.Stop()
	if err != nil {
		logger.Error(err)
		return cli.NewExitError(err.Error(), 1)
	}
	return nil
}
