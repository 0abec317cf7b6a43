package cmd

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testProject = `
schema: mart
definitions:
  - name: products
    strategy: check
    unique_key: id
    check_cols: [price]
    source: raw.products
`

func TestRenderCommand_Run(t *testing.T) {
	t.Parallel()

	t.Run("renders both artifacts as json", func(t *testing.T) {
		t.Parallel()

		memFs := afero.NewMemMapFs()
		require.NoError(t, afero.WriteFile(memFs, "project.yml", []byte(testProject), 0o644))

		buf := &bytes.Buffer{}
		r := RenderCommand{
			logger: makeLogger(false),
			fs:     memFs,
			output: "json",
			writer: buf,
		}

		require.NoError(t, r.Run([]string{"project.yml"}, false))

		var rendered []map[string]string
		require.NoError(t, json.Unmarshal(buf.Bytes(), &rendered))
		require.Len(t, rendered, 2)

		assert.Equal(t, "mart.products_historical", rendered[0]["name"])
		assert.Equal(t, "incremental_table", rendered[0]["kind"])
		assert.Contains(t, rendered[0]["query"], "LEFT JOIN mart.products_historical AS t")

		assert.Equal(t, "mart.products_scd", rendered[1]["name"])
		assert.Equal(t, "view", rendered[1]["kind"])
		assert.Contains(t, rendered[1]["query"], "FROM mart.products_historical")
	})

	t.Run("full refresh renders the full-load body", func(t *testing.T) {
		t.Parallel()

		memFs := afero.NewMemMapFs()
		require.NoError(t, afero.WriteFile(memFs, "project.yml", []byte(testProject), 0o644))

		buf := &bytes.Buffer{}
		r := RenderCommand{
			logger: makeLogger(false),
			fs:     memFs,
			output: "json",
			writer: buf,
		}

		require.NoError(t, r.Run([]string{"project.yml"}, true))

		var rendered []map[string]string
		require.NoError(t, json.Unmarshal(buf.Bytes(), &rendered))
		require.Len(t, rendered, 2)
		assert.NotContains(t, rendered[0]["query"], "LEFT JOIN")
	})

	t.Run("missing project file fails with a json error", func(t *testing.T) {
		t.Parallel()

		buf := &bytes.Buffer{}
		r := RenderCommand{
			logger: makeLogger(false),
			fs:     afero.NewMemMapFs(),
			output: "json",
			writer: buf,
		}

		require.Error(t, r.Run([]string{"missing.yml"}, false))
		assert.Contains(t, buf.String(), "error")
	})

	t.Run("no arguments fails", func(t *testing.T) {
		t.Parallel()

		buf := &bytes.Buffer{}
		r := RenderCommand{
			logger: makeLogger(false),
			fs:     afero.NewMemMapFs(),
			output: "json",
			writer: buf,
		}

		require.Error(t, r.Run(nil, false))
	})
}

func TestLineageCommand_Run(t *testing.T) {
	t.Parallel()

	memFs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(memFs, "project.yml", []byte(testProject), 0o644))

	buf := &bytes.Buffer{}
	r := LineageCommand{fs: memFs, writer: buf}

	require.NoError(t, r.Run("project.yml"))
	assert.Contains(t, buf.String(), "mart.products_historical")
	assert.Contains(t, buf.String(), "mart.products_scd")
}
