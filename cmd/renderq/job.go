package main

import (
	"github.com/imagvfx/renderq"
	"github.com/urfave/cli"
)

// jobFlags are flags of the commands that take a job.
// Numbers are taken as text, so they are validated with the other fields.
var jobFlags = []cli.Flag{
	cli.StringFlag{
		Name:  "scene",
		Usage: "scene file to render",
	},
	cli.StringFlag{
		Name:  "start",
		Usage: "first frame",
	},
	cli.StringFlag{
		Name:  "end",
		Usage: "last frame",
	},
	cli.StringFlag{
		Name:  "out",
		Usage: "directory rendered images are written to",
	},
	cli.StringFlag{
		Name:  "layer",
		Usage: "render layer, empty renders the scene's default layers",
	},
	cli.StringFlag{
		Name:  "res",
		Value: "100",
		Usage: "resolution percent",
	},
	cli.StringFlag{
		Name:  "mode",
		Value: "full",
		Usage: "render mode: full or fml (fast preview)",
	},
}

func jobFromFlags(ctx *cli.Context) (renderq.Job, error) {
	return renderq.ParseJob(renderq.JobForm{
		Scene:      ctx.String("scene"),
		Start:      ctx.String("start"),
		End:        ctx.String("end"),
		OutputDir:  ctx.String("out"),
		Layer:      ctx.String("layer"),
		Resolution: ctx.String("res"),
		Mode:       ctx.String("mode"),
	})
}
