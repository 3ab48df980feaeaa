package main

import (
	"os"

	"github.com/urfave/cli"
)

func main() {
	cli.VersionFlag = cli.BoolFlag{
		Name:  "version",
		Usage: "print only the version",
	}

	app := cli.NewApp()
	app.Name = "renderq"
	app.Usage = "build, queue and run maya batch renders"
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
			Name:   "config",
			Value:  "config.toml",
			EnvVar: "RENDERQ_CONFIG",
			Usage:  "settings file",
		},
		cli.StringFlag{
			Name:   "db",
			Value:  "renderq.db",
			EnvVar: "RENDERQ_DB",
			Usage:  "database keeping the queue and run history",
		},
		cli.StringFlag{
			Name:  "log-file",
			Usage: "also append the log to this file",
		},
	}
	app.Before = setupLogging
	app.After = closeLogging
	app.Commands = []cli.Command{
		{
			Name:  "render",
			Usage: "render a job now",
			Description: `
Render a job from the job flags right away.

In full mode the whole frame range is rendered with a single renderer command.
In fml (fast preview) mode only the first, middle and last frames are rendered,
one command per frame.`,
			Flags:  jobFlags,
			Action: renderJob,
		},
		{
			Name:  "launch",
			Usage: "run the queue, or render a job when the queue is empty",
			Description: `
Render every queued job in order and empty the queue. When nothing is queued
the job from the job flags is rendered instead.`,
			Flags:  jobFlags,
			Action: launch,
		},
		{
			Name:  "queue",
			Usage: "manage the job queue",
			Subcommands: []cli.Command{
				{
					Name:   "add",
					Usage:  "add a job at the back of the queue",
					Flags:  jobFlags,
					Action: queueAdd,
				},
				{
					Name:   "list",
					Usage:  "list queued jobs in their render order",
					Action: queueList,
				},
				{
					Name:      "remove",
					Usage:     "remove a queued job",
					ArgsUsage: "index",
					Action:    queueRemove,
				},
				{
					Name:   "run",
					Usage:  "render every queued job in order and empty the queue",
					Action: queueRun,
				},
			},
		},
		{
			Name:  "history",
			Usage: "list rendered jobs, the newest first",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "job",
					Usage: "show runs of this job id only",
				},
				cli.StringFlag{
					Name:  "status",
					Usage: "show runs having this status only: done or failed",
				},
				cli.IntFlag{
					Name:  "limit",
					Value: 50,
					Usage: "maximum number of runs to show, 0 shows all",
				},
			},
			Action: history,
		},
		{
			Name:  "settings",
			Usage: "show or change renderer paths",
			Subcommands: []cli.Command{
				{
					Name:   "show",
					Usage:  "show the settings",
					Action: settingsShow,
				},
				{
					Name:  "set",
					Usage: "change the settings and save them",
					Flags: []cli.Flag{
						cli.StringFlag{
							Name:  "maya-path",
							Usage: "directory having the render executable",
						},
						cli.StringFlag{
							Name:  "qt-plugin-path",
							Usage: "qt plugin directory of maya",
						},
					},
					Action: settingsSet,
				},
			},
		},
		{
			Name:  "submit",
			Usage: "send a job to a render node",
			Flags: append([]cli.Flag{
				cli.StringFlag{
					Name:   "node",
					Value:  "localhost:8283",
					EnvVar: "RENDERQ_NODE",
					Usage:  "render node address",
				},
			}, jobFlags...),
			Action: submit,
		},
	}

	app.Run(os.Args)
}
