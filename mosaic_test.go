package mosaic

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/mosaic/compiler/load"
)

func writePlugin(t *testing.T, root, plugin, file, doc string) {
	t.Helper()
	dir := filepath.Join(root, plugin)
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, file), []byte(doc), 0o644))
}

func TestGenerate(t *testing.T) {
	root := t.TempDir()
	writePlugin(t, root, "base", "users.yaml", `
tables:
  User:
    columns:
      - name: id
        type: Integer
        primary_key: true
      - name: username
        type: String
        unique: true
`)
	writePlugin(t, root, "reviews", "reviews.yaml", `
tables:
  User:
    columns:
      - name: review_count
        type: Integer
        default: "0"
  Review:
    columns:
      - name: id
        type: Integer
        primary_key: true
      - name: user_id
        foreign_key:
          target: User.id
`)
	cfg := &load.Config{
		Plugins: []string{filepath.Join(root, "base"), filepath.Join(root, "reviews")},
		Package: "model",
		Target:  filepath.Join(root, "model", "model.go"),
	}

	ctx := context.Background()
	res, err := Generate(ctx, cfg)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Tables)
	assert.True(t, res.Written)

	src, err := os.ReadFile(cfg.Target)
	require.NoError(t, err)
	out := string(src)
	assert.Contains(t, out, "type User struct")
	assert.Contains(t, out, "ReviewCount *int")
	assert.Contains(t, out, "type Review struct")

	// A second run over unchanged inputs resolves to the same fingerprint
	// and leaves the output untouched.
	again, err := Generate(ctx, cfg)
	require.NoError(t, err)
	assert.Equal(t, res.Fingerprint, again.Fingerprint)
	assert.False(t, again.Written)
}

func TestGenerateReportsConflicts(t *testing.T) {
	root := t.TempDir()
	writePlugin(t, root, "base", "users.yaml", `
tables:
  User:
    columns:
      - name: id
        type: Integer
        primary_key: true
      - name: other_id
        type: Integer
        primary_key: true
`)
	cfg := &load.Config{
		Plugins: []string{filepath.Join(root, "base")},
		Package: "model",
		Target:  filepath.Join(root, "model", "model.go"),
	}
	_, err := Generate(context.Background(), cfg)
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "primary key"))
	_, statErr := os.Stat(cfg.Target)
	assert.True(t, os.IsNotExist(statErr), "nothing is written on a failed run")
}
