// Package scd synthesizes Type-2 slowly changing dimension SQL. Given a
// source relation, a business key and a change-detection strategy it
// registers two artifacts: an append-only historical relation and a view
// that reconstructs the validity window of every stored version. It only
// emits query text, executing it belongs to whatever engine consumes the
// registry.
package scd

import (
	"github.com/pkg/errors"

	"github.com/chronicle-data/chronicle/pkg/registry"
)

type Result struct {
	Historical *registry.Artifact
	View       *registry.Artifact
}

// Register validates the configuration and registers the
// `<name>_historical` incremental table followed by the `<name>_scd` view.
// The view's query is built against the historical relation's resolved
// location, obtained after the first registration, so the dependency between
// the two is explicit rather than lazily evaluated.
func Register(r *registry.Registry, cfg Config) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	columns := mergeColumnDocs(cfg.Columns)

	historical, err := r.Register(cfg.HistoricalName(), registry.KindIncrementalTable, registry.Metadata{
		Dependencies: cfg.Dependencies,
		Tags:         cfg.Tags,
		Columns:      columns,
		Schema:       cfg.Schema,
		Description:  cfg.Description,
		Options:      cfg.Materialization,
	}, historicalQueryBuilder(cfg))
	if err != nil {
		return nil, errors.Wrapf(err, "failed to register '%s'", cfg.HistoricalName())
	}

	historicalLocation := historical.QualifiedName()

	view, err := r.Register(cfg.ViewName(), registry.KindView, registry.Metadata{
		Dependencies: []string{historical.Name},
		Tags:         cfg.Tags,
		Columns:      columns,
		Schema:       cfg.Schema,
		Description:  cfg.Description,
	}, func(ctx registry.Context) (string, error) {
		return buildValidityWindowQuery(&cfg, historicalLocation), nil
	})
	if err != nil {
		r.Deregister(historical.Name)
		return nil, errors.Wrapf(err, "failed to register '%s'", cfg.ViewName())
	}

	return &Result{Historical: historical, View: view}, nil
}

// historicalQueryBuilder defers the incremental/full-load choice to render
// time, where the registry knows the materialization mode of the run.
func historicalQueryBuilder(cfg Config) registry.QueryBuilder {
	return func(ctx registry.Context) (string, error) {
		source := ctx.ResolveReference(registry.Reference{Schema: cfg.Source.Schema, Name: cfg.Source.Name})

		incremental := buildIncrementalQuery(&cfg, source, ctx.ResolveSelf())
		fullLoad := buildFullLoadQuery(&cfg, source)

		return ctx.When(ctx.IsIncrementalRun(), incremental) + ctx.When(!ctx.IsIncrementalRun(), fullLoad), nil
	}
}

func mergeColumnDocs(userDocs map[string]string) map[string]string {
	merged := make(map[string]string, len(userDocs)+len(generatedColumnDocs))
	for name, doc := range userDocs {
		merged[name] = doc
	}

	for name, doc := range generatedColumnDocs {
		merged[name] = doc
	}

	return merged
}
