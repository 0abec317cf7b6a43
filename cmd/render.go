package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/alecthomas/chroma/v2/quick"
	"github.com/sourcegraph/conc/pool"
	"github.com/spf13/afero"
	"github.com/urfave/cli/v2"

	"github.com/chronicle-data/chronicle/pkg/logger"
	"github.com/chronicle-data/chronicle/pkg/registry"
	"github.com/chronicle-data/chronicle/pkg/scd"
)

func Render(isDebug *bool) *cli.Command {
	return &cli.Command{
		Name:      "render",
		Usage:     "render the SCD2 queries for the given project file(s)",
		ArgsUsage: "[path to the project file, more than one can be given]",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "full-refresh",
				Aliases: []string{"r"},
				Usage:   "render the full-load query for the historical relations instead of the incremental one",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "output format (json)",
			},
		},
		Action: func(c *cli.Context) error {
			r := RenderCommand{
				logger: makeLogger(*isDebug),
				fs:     fs,
				output: c.String("output"),
				writer: os.Stdout,
			}

			return r.Run(c.Args().Slice(), c.Bool("full-refresh"))
		},
	}
}

type RenderCommand struct {
	logger logger.Logger
	fs     afero.Fs

	output string
	writer io.Writer
}

type renderedArtifact struct {
	Name  string `json:"name"`
	Kind  string `json:"kind"`
	Query string `json:"query"`
}

func (r *RenderCommand) Run(paths []string, fullRefresh bool) error {
	if len(paths) == 0 {
		r.printErrorOrJSON("Please give at least one project file to render: chronicle render <path to the project file>")
		return cli.Exit("", 1)
	}

	projects := make([]*scd.Project, len(paths))
	loadErrors := make([]error, len(paths))

	loaderPool := pool.New().WithMaxGoroutines(8)
	for i, path := range paths {
		loaderPool.Go(func() {
			projects[i], loadErrors[i] = scd.LoadProject(r.fs, path)
		})
	}
	loaderPool.Wait()

	for i, err := range loadErrors {
		if err != nil {
			r.printErrorOrJSON(fmt.Sprintf("Failed to load the project file '%s': %v", paths[i], err))
			return cli.Exit("", 1)
		}
	}

	results := make([]renderedArtifact, 0)
	for i, project := range projects {
		r.logger.Debugf("rendering %d definitions from '%s'", len(project.Definitions), paths[i])

		reg := registry.New(project.Schema, !fullRefresh)
		for _, definition := range project.Definitions {
			if _, err := scd.Register(reg, definition); err != nil {
				r.printErrorOrJSON(fmt.Sprintf("Failed to register '%s' from '%s': %v", definition.Name, paths[i], err))
				return cli.Exit("", 1)
			}
		}

		rendered, err := reg.RenderAll()
		if err != nil {
			r.printErrorOrJSON(fmt.Sprintf("Failed to render '%s': %v", paths[i], err))
			return cli.Exit("", 1)
		}

		for _, item := range rendered {
			results = append(results, renderedArtifact{
				Name:  item.Artifact.QualifiedName(),
				Kind:  string(item.Artifact.Kind),
				Query: item.Query,
			})
		}
	}

	if r.output == "json" {
		js, err := json.Marshal(results)
		if err != nil {
			r.printErrorOrJSON(fmt.Sprintf("Failed to marshal the rendered queries: %v", err))
			return cli.Exit("", 1)
		}

		_, err = r.writer.Write(js)
		return err
	}

	for _, item := range results {
		fmt.Fprintf(r.writer, "-- %s %s\n", item.Name, faint("("+item.Kind+")"))
		fmt.Fprintf(r.writer, "%s\n\n", highlightCode(item.Query, "sql"))
	}

	return nil
}

func (r *RenderCommand) printErrorOrJSON(msg string) {
	if r.output == "json" {
		js, err := json.Marshal(map[string]string{"error": msg})
		if err == nil {
			fmt.Fprintln(r.writer, string(js))
			return
		}
	}

	errorPrinter.Printf("%s\n", msg)
}

func highlightCode(code string, language string) string {
	o, err := os.Stdout.Stat()
	if err != nil {
		return code
	}

	if (o.Mode() & os.ModeCharDevice) != os.ModeCharDevice {
		return code
	}

	b := new(strings.Builder)
	err = quick.Highlight(b, code, language, "terminal16m", "monokai")
	if err != nil {
		errorPrinter.Printf("Failed to highlight the query: %v\n", err.Error())
		return code
	}

	return b.String()
}
