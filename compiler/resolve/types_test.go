package resolve

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/mosaic/schema"
)

func intp(v int) *int    { return &v }
func boolp(v bool) *bool { return &v }

func TestRegistryResolve(t *testing.T) {
	reg, err := NewRegistry([]*schema.TypeDef{
		{Name: "Description", Base: "String", Length: intp(200), Nullable: boolp(false)},
		{Name: "Name", Base: "Description", Index: boolp(true)},
	})
	require.NoError(t, err)

	t.Run("primitive", func(t *testing.T) {
		et, err := reg.Resolve("Integer")
		require.NoError(t, err)
		assert.Equal(t, schema.KindInteger, et.Kind)
		assert.True(t, et.Primitive())
	})

	t.Run("inheritance child wins", func(t *testing.T) {
		et, err := reg.Resolve("Name")
		require.NoError(t, err)
		assert.Equal(t, schema.KindString, et.Kind)
		assert.Equal(t, []string{"Description", "String"}, et.Inheritance)
		require.NotNil(t, et.Nullable)
		assert.False(t, *et.Nullable)
		require.NotNil(t, et.Index)
		assert.True(t, *et.Index)
		require.NotNil(t, et.Length)
		assert.Equal(t, 200, *et.Length)
	})

	t.Run("memoized", func(t *testing.T) {
		first, err := reg.Resolve("Name")
		require.NoError(t, err)
		second, err := reg.Resolve("Name")
		require.NoError(t, err)
		assert.Same(t, first, second)
	})

	t.Run("unknown", func(t *testing.T) {
		_, err := reg.Resolve("Nope")
		require.Error(t, err)
		assert.True(t, IsUnknownType(err))
	})

	t.Run("unknown base", func(t *testing.T) {
		reg, err := NewRegistry([]*schema.TypeDef{{Name: "Orphan", Base: "Missing"}})
		require.NoError(t, err)
		_, err = reg.Resolve("Orphan")
		assert.True(t, IsUnknownType(err))
	})
}

func TestRegistryCycle(t *testing.T) {
	reg, err := NewRegistry([]*schema.TypeDef{
		{Name: "A", Base: "B"},
		{Name: "B", Base: "A"},
	})
	require.NoError(t, err)
	_, err = reg.Resolve("A")
	require.Error(t, err)
	assert.True(t, IsCyclicType(err))

	var terr *TypeError
	require.ErrorAs(t, err, &terr)
	assert.Equal(t, "A", terr.Name)
}

func TestRegistryConflicts(t *testing.T) {
	t.Run("duplicate declaration", func(t *testing.T) {
		_, err := NewRegistry([]*schema.TypeDef{
			{Name: "Money", Base: "Numeric"},
			{Name: "Money", Base: "Float"},
		})
		assert.Error(t, err)
	})

	t.Run("shadows primitive", func(t *testing.T) {
		_, err := NewRegistry([]*schema.TypeDef{{Name: "String", Base: "Text"}})
		assert.Error(t, err)
	})
}
