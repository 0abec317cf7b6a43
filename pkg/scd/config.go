package scd

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

type Strategy string

const (
	StrategyCheck     Strategy = "check"
	StrategyTimestamp Strategy = "timestamp"
)

type InvalidStrategyError struct {
	Strategy Strategy
}

func (e *InvalidStrategyError) Error() string {
	return fmt.Sprintf("invalid strategy '%s', must be either '%s' or '%s'", e.Strategy, StrategyCheck, StrategyTimestamp)
}

type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("the `%s` field is required but was not set", e.Field)
}

// UniqueKey is the ordered list of business key columns. The order is part of
// the surrogate key contract: reordering the columns changes scd_id for every
// row of the dimension.
type UniqueKey []string

func (k *UniqueKey) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		var single string
		if err := value.Decode(&single); err != nil {
			return err
		}

		*k = UniqueKey{single}
		return nil
	}

	var multi []string
	if err := value.Decode(&multi); err != nil {
		return err
	}

	*k = multi
	return nil
}

// SourceRef points at the relation the dimension is built from. It can be
// given as a mapping with `schema` and `name` keys, or as a plain
// "schema.name" string.
type SourceRef struct {
	Schema string `yaml:"schema"`
	Name   string `yaml:"name"`
}

func (s *SourceRef) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		var full string
		if err := value.Decode(&full); err != nil {
			return err
		}

		if schema, name, found := strings.Cut(full, "."); found {
			*s = SourceRef{Schema: schema, Name: name}
		} else {
			*s = SourceRef{Name: full}
		}

		return nil
	}

	type plain SourceRef
	var ref plain
	if err := value.Decode(&ref); err != nil {
		return err
	}

	*s = SourceRef(ref)
	return nil
}

func (s SourceRef) String() string {
	if s.Schema == "" {
		return s.Name
	}

	return s.Schema + "." + s.Name
}

// Config describes a single SCD2 dimension. Name is the base name, the
// registered artifacts are derived from it as `<name>_historical` and
// `<name>_scd`.
type Config struct {
	Name            string                 `yaml:"name"`
	Strategy        Strategy               `yaml:"strategy"`
	UniqueKey       UniqueKey              `yaml:"unique_key"`
	TimestampColumn string                 `yaml:"timestamp_col"`
	CheckColumns    []string               `yaml:"check_cols"`
	Source          SourceRef              `yaml:"source"`
	Tags            []string               `yaml:"tags"`
	Columns         map[string]string      `yaml:"columns"`
	Dependencies    []string               `yaml:"dependencies"`
	Schema          string                 `yaml:"schema"`
	Description     string                 `yaml:"description"`
	Materialization map[string]interface{} `yaml:"materialization"`
}

// Validate checks the strategy tag and the fields that strategy requires. It
// runs before any query text is built, a config that fails here never
// registers anything.
func (c *Config) Validate() error {
	if c.Name == "" {
		return &MissingFieldError{Field: "name"}
	}

	if len(c.UniqueKey) == 0 {
		return &MissingFieldError{Field: "unique_key"}
	}

	if c.Source.Name == "" {
		return &MissingFieldError{Field: "source"}
	}

	switch c.Strategy {
	case StrategyTimestamp:
		if c.TimestampColumn == "" {
			return &MissingFieldError{Field: "timestamp_col"}
		}
	case StrategyCheck:
		if len(c.CheckColumns) == 0 {
			return &MissingFieldError{Field: "check_cols"}
		}
	default:
		return &InvalidStrategyError{Strategy: c.Strategy}
	}

	return nil
}

func (c *Config) HistoricalName() string {
	return c.Name + "_historical"
}

func (c *Config) ViewName() string {
	return c.Name + "_scd"
}

var generatedColumnDocs = map[string]string{
	"scd_id":         "deterministic hash of the unique key, stable across every version of the same record",
	"scd_valid_from": "timestamp from which this version is the authoritative one",
	"scd_valid_to":   "timestamp at which this version was superseded, null while it is still current",
	"scd_active":     "1 if this is the current version of the record, 0 otherwise",
}
