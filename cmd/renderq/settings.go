package main

import (
	"fmt"
	"io"
	"os"

	"github.com/imagvfx/renderq"
	"github.com/urfave/cli"
)

func settingsShow(ctx *cli.Context) error {
	f := renderq.NewSettingsFile(ctx.GlobalString("config"))
	s, err := f.Load()
	if err != nil {
		return exitError(err)
	}
	printSettings(os.Stdout, f.Path, s)
	return nil
}

func settingsSet(ctx *cli.Context) error {
	f := renderq.NewSettingsFile(ctx.GlobalString("config"))
	s, err := f.Load()
	if err != nil {
		return exitError(err)
	}
	if !ctx.IsSet("maya-path") && !ctx.IsSet("qt-plugin-path") {
		return cli.NewExitError("nothing to set: need --maya-path or --qt-plugin-path", 1)
	}
	if ctx.IsSet("maya-path") {
		s.RendererPath = ctx.String("maya-path")
	}
	if ctx.IsSet("qt-plugin-path") {
		s.PluginPath = ctx.String("qt-plugin-path")
	}
	err = f.Save(s)
	if err != nil {
		return exitError(err)
	}
	logger.Noticef("settings saved to %v", f.Path)
	printSettings(os.Stdout, f.Path, s)
	return nil
}

func printSettings(w io.Writer, path string, s renderq.Settings) {
	fmt.Fprintf(w, "# %s\n", path)
	fmt.Fprintf(w, "MAYA_PATH      = %s\n", s.RendererPath)
	fmt.Fprintf(w, "QT_PLUGIN_PATH = %s\n", s.PluginPath)
}
