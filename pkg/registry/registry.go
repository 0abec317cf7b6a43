// Package registry holds the artifacts a synthesis run produces and renders
// their query text. It owns the materialization mode of the run: a registry
// built for an incremental run hands every query builder an incremental
// context, a full-refresh one does not.
package registry

import (
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/yourbasic/graph"
)

type Kind string

const (
	KindIncrementalTable Kind = "incremental_table"
	KindView             Kind = "view"
)

// Reference is a logical pointer to a relation. An empty schema resolves to
// the registry's default schema.
type Reference struct {
	Schema string
	Name   string
}

func (r Reference) String() string {
	if r.Schema == "" {
		return r.Name
	}

	return r.Schema + "." + r.Name
}

type Metadata struct {
	Dependencies []string
	Tags         []string
	Columns      map[string]string
	Schema       string
	Description  string
	Options      map[string]interface{}
}

// Context is what a query builder sees at render time.
type Context interface {
	ResolveReference(ref Reference) string
	ResolveSelf() string
	IsIncrementalRun() bool
	When(cond bool, text string) string
}

type QueryBuilder func(ctx Context) (string, error)

type Artifact struct {
	ID       string
	Name     string
	Kind     Kind
	Metadata Metadata

	build QueryBuilder
}

func (a *Artifact) QualifiedName() string {
	if a.Metadata.Schema == "" {
		return a.Name
	}

	return a.Metadata.Schema + "." + a.Name
}

type Registry struct {
	defaultSchema  string
	incrementalRun bool

	artifacts map[string]*Artifact
	order     []string
}

func New(defaultSchema string, incrementalRun bool) *Registry {
	return &Registry{
		defaultSchema:  defaultSchema,
		incrementalRun: incrementalRun,
		artifacts:      make(map[string]*Artifact),
	}
}

func (r *Registry) Register(name string, kind Kind, meta Metadata, build QueryBuilder) (*Artifact, error) {
	if name == "" {
		return nil, errors.New("artifact name cannot be empty")
	}

	if build == nil {
		return nil, errors.Errorf("artifact '%s' was registered without a query builder", name)
	}

	if _, exists := r.artifacts[name]; exists {
		return nil, errors.Errorf("artifact '%s' is already registered", name)
	}

	if meta.Schema == "" {
		meta.Schema = r.defaultSchema
	}

	artifact := &Artifact{
		ID:       uuid.NewString(),
		Name:     name,
		Kind:     kind,
		Metadata: meta,
		build:    build,
	}

	r.artifacts[name] = artifact
	r.order = append(r.order, name)

	return artifact, nil
}

// Deregister removes a previously registered artifact. It exists so a caller
// registering a pair of artifacts can roll back the first when the second
// fails, callers never observe a half-registered pair.
func (r *Registry) Deregister(name string) {
	if _, exists := r.artifacts[name]; !exists {
		return
	}

	delete(r.artifacts, name)
	for i, n := range r.order {
		if n == name {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
}

func (r *Registry) Get(name string) (*Artifact, bool) {
	artifact, ok := r.artifacts[name]
	return artifact, ok
}

// Artifacts returns the registered artifacts in registration order.
func (r *Registry) Artifacts() []*Artifact {
	result := make([]*Artifact, 0, len(r.order))
	for _, name := range r.order {
		result = append(result, r.artifacts[name])
	}

	return result
}

func (r *Registry) Render(name string) (string, error) {
	artifact, ok := r.artifacts[name]
	if !ok {
		return "", errors.Errorf("artifact '%s' is not registered", name)
	}

	query, err := artifact.build(&renderContext{registry: r, artifact: artifact})
	if err != nil {
		return "", errors.Wrapf(err, "failed to render artifact '%s'", name)
	}

	return query, nil
}

type Rendered struct {
	Artifact *Artifact
	Query    string
}

func (r *Registry) RenderAll() ([]Rendered, error) {
	result := make([]Rendered, 0, len(r.order))
	for _, name := range r.order {
		query, err := r.Render(name)
		if err != nil {
			return nil, err
		}

		result = append(result, Rendered{Artifact: r.artifacts[name], Query: query})
	}

	return result, nil
}

// CheckCycles validates that the artifact dependencies form a DAG.
// Dependencies on names not present in the registry are treated as external
// and skipped.
func (r *Registry) CheckCycles() error {
	index := make(map[string]int, len(r.order))
	for i, name := range r.order {
		index[name] = i
	}

	g := graph.New(len(r.order))
	for i, name := range r.order {
		for _, dep := range r.artifacts[name].Metadata.Dependencies {
			j, ok := index[dep]
			if !ok {
				continue
			}

			g.Add(i, j)
		}
	}

	for _, component := range graph.StrongComponents(g) {
		if len(component) == 1 {
			continue
		}

		names := make([]string, 0, len(component))
		for _, idx := range component {
			names = append(names, r.order[idx])
		}

		return errors.Errorf("artifact dependencies form a cycle: %s", strings.Join(names, ", "))
	}

	return nil
}

type renderContext struct {
	registry *Registry
	artifact *Artifact
}

func (c *renderContext) ResolveReference(ref Reference) string {
	if ref.Schema == "" {
		ref.Schema = c.registry.defaultSchema
	}

	return ref.String()
}

func (c *renderContext) ResolveSelf() string {
	return c.artifact.QualifiedName()
}

func (c *renderContext) IsIncrementalRun() bool {
	return c.registry.incrementalRun
}

func (c *renderContext) When(cond bool, text string) string {
	if !cond {
		return ""
	}

	return text
}
