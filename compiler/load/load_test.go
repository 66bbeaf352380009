package load

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/mosaic/schema"
)

func TestLoadOrder(t *testing.T) {
	l := NewLoader([]string{"testdata/base", "testdata/extra"})
	in, err := l.Load(context.Background())
	require.NoError(t, err)

	// Directory order first, file names sorted within a directory, then
	// document order. core.yaml sorts before library.yml.
	var order []string
	for i, tf := range in.Tables {
		assert.Equal(t, i, tf.Index)
		order = append(order, tf.Table)
	}
	assert.Equal(t, []string{"User", "Book", "User", "Review"}, order)

	assert.Equal(t, schema.Origin{Plugin: "base", File: "core.yaml"}, in.Tables[0].Origin)
	assert.Equal(t, schema.Origin{Plugin: "extra", File: "accounts.yaml"}, in.Tables[2].Origin)

	require.Len(t, in.Types, 1)
	assert.Equal(t, "Description", in.Types[0].Name)
	require.Len(t, in.Mixins, 1)
	assert.Equal(t, "Timestamps", in.Mixins[0].Name)
}

func TestLoadDeterminism(t *testing.T) {
	// Parallel parsing must not leak scheduling into the fragment order.
	l := NewLoader([]string{"testdata/base", "testdata/extra"}, WithWorkers(8))
	first, err := l.Load(context.Background())
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		in, err := l.Load(context.Background())
		require.NoError(t, err)
		require.Len(t, in.Tables, len(first.Tables))
		for j := range in.Tables {
			assert.Equal(t, first.Tables[j].Table, in.Tables[j].Table)
			assert.Equal(t, first.Tables[j].Origin, in.Tables[j].Origin)
		}
	}
}

func TestLoadMissingDir(t *testing.T) {
	l := NewLoader([]string{"testdata/nosuchdir"})
	_, err := l.Load(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nosuchdir")
}

func TestLoadConfig(t *testing.T) {
	cfg, err := LoadConfig("testdata/mosaic.yaml")
	require.NoError(t, err)
	assert.Equal(t, "library", cfg.Name)
	assert.Equal(t, []string{"testdata/base", "testdata/extra"}, cfg.Plugins)
	assert.Equal(t, "model", cfg.Package)
	assert.Equal(t, "model/model.go", cfg.Target)
	assert.Equal(t, "sqlite", cfg.DB.Dialect)
}

func TestLoadConfigMissing(t *testing.T) {
	_, err := LoadConfig("testdata/absent.yaml")
	assert.Error(t, err)
}
