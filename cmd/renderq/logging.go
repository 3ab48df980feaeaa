package main

import (
	"os"

	"github.com/imagvfx/renderq/log"
	"github.com/urfave/cli"
)

var logger = log.New("renderq")

var logFile *os.File

func setupLogging(ctx *cli.Context) error {
	if ctx.GlobalBool("v") {
		log.SetLevel(log.Info)
	}

	if ctx.GlobalBool("vv") {
		log.SetLevel(log.Debug)
	}

	if path := ctx.GlobalString("log-file"); path != "" {
		f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0644)
		if err != nil {
			return cli.NewExitError("cannot open log file: "+err.Error(), 1)
		}
		logFile = f
		log.AddFile(f)
	}
	return nil
}

func closeLogging(ctx *cli.Context) error {
	if logFile != nil {
		return logFile.Close()
	}
	return nil
}
