package cmd

import (
	"io"
	"os"

	"github.com/spf13/afero"
	"github.com/urfave/cli/v2"
	"github.com/xlab/treeprint"

	"github.com/chronicle-data/chronicle/pkg/registry"
	"github.com/chronicle-data/chronicle/pkg/scd"
)

func Lineage() *cli.Command {
	return &cli.Command{
		Name:      "lineage",
		Usage:     "dump the artifact dependency tree for a given project file",
		ArgsUsage: "[path to the project file]",
		Action: func(c *cli.Context) error {
			r := LineageCommand{
				fs:     fs,
				writer: os.Stdout,
			}

			return r.Run(c.Args().Get(0))
		},
	}
}

type LineageCommand struct {
	fs     afero.Fs
	writer io.Writer
}

func (r *LineageCommand) Run(path string) error {
	if path == "" {
		errorPrinter.Printf("Please give a project file to show the lineage of: chronicle lineage <path to the project file>\n")
		return cli.Exit("", 1)
	}

	project, err := scd.LoadProject(r.fs, path)
	if err != nil {
		errorPrinter.Printf("Failed to load the project file '%s': %v\n", path, err)
		return cli.Exit("", 1)
	}

	reg := registry.New(project.Schema, true)
	for _, definition := range project.Definitions {
		if _, err := scd.Register(reg, definition); err != nil {
			errorPrinter.Printf("Failed to register '%s': %v\n", definition.Name, err)
			return cli.Exit("", 1)
		}
	}

	if err := reg.CheckCycles(); err != nil {
		errorPrinter.Printf("Invalid dependency graph: %v\n", err)
		return cli.Exit("", 1)
	}

	tree := treeprint.NewWithRoot(infoPrinter.Sprint(path))
	for _, artifact := range reg.Artifacts() {
		branch := tree.AddBranch(artifact.QualifiedName() + " " + faint("("+string(artifact.Kind)+")"))
		for _, dep := range artifact.Metadata.Dependencies {
			branch.AddNode(dep)
		}
	}

	_, err = io.WriteString(r.writer, tree.String())
	return err
}
