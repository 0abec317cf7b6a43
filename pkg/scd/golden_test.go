package scd

import (
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/require"

	"github.com/chronicle-data/chronicle/pkg/registry"
)

func TestRenderedQueries_Golden(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		config      Config
		incremental bool
		view        bool
	}{
		{
			name:        "check_incremental",
			config:      checkScenario(),
			incremental: true,
		},
		{
			name:        "check_view",
			config:      checkScenario(),
			incremental: true,
			view:        true,
		},
		{
			name:   "timestamp_full_load",
			config: timestampScenario(),
		},
		{
			name:        "timestamp_view",
			config:      timestampScenario(),
			incremental: true,
			view:        true,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			reg := registry.New("", tt.incremental)
			result, err := Register(reg, tt.config)
			require.NoError(t, err)

			name := result.Historical.Name
			if tt.view {
				name = result.View.Name
			}

			query, err := reg.Render(name)
			require.NoError(t, err)

			g := goldie.New(t,
				goldie.WithFixtureDir("testdata/golden"),
				goldie.WithNameSuffix(".sql"),
			)
			g.Assert(t, tt.name, []byte(query))
		})
	}
}
