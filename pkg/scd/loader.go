package scd

import (
	"github.com/pkg/errors"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

// Project is a set of dimension definitions sharing a default target schema.
type Project struct {
	Schema      string   `yaml:"schema"`
	Definitions []Config `yaml:"definitions"`
}

func LoadProject(fs afero.Fs, path string) (*Project, error) {
	content, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read the project file '%s'", path)
	}

	var project Project
	if err := yaml.Unmarshal(content, &project); err != nil {
		return nil, errors.Wrapf(err, "failed to parse the project file '%s'", path)
	}

	if len(project.Definitions) == 0 {
		return nil, errors.Errorf("the project file '%s' contains no definitions", path)
	}

	for i := range project.Definitions {
		if project.Definitions[i].Schema == "" {
			project.Definitions[i].Schema = project.Schema
		}
	}

	return &project, nil
}
