package main

import (
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"

	"github.com/chronicle-data/chronicle/cmd"
)

var version = "dev"

func main() {
	isDebug := false
	color.NoColor = false

	app := &cli.App{
		Name:     "chronicle",
		Version:  version,
		Usage:    "synthesize Type-2 slowly changing dimension SQL from declarative definitions",
		Compiled: time.Now(),
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "debug",
				Value:       false,
				Usage:       "show debug information",
				Destination: &isDebug,
			},
		},
		Commands: []*cli.Command{
			cmd.Render(&isDebug),
			cmd.Lineage(),
		},
	}

	_ = app.Run(os.Args)
}
