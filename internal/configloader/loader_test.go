package configloader

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadExplicitPath(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, "custom.yaml", `
extensions:
  tables: true
  footnotes: true
html:
  xhtml: true
max_nesting: 32
smartypants: true
`)

	res, err := Load(LoadOptions{ExplicitPath: path})
	require.NoError(t, err)
	assert.Equal(t, path, res.Path)
	assert.True(t, res.Config.Extensions.Tables)
	assert.True(t, res.Config.Extensions.Footnotes)
	assert.False(t, res.Config.Extensions.Autolink)
	assert.True(t, res.Config.HTML.XHTML)
	assert.Equal(t, 32, res.Config.MaxNesting)
	assert.True(t, res.Config.SmartyPants)
}

func TestLoadExplicitPathMissing(t *testing.T) {
	_, err := Load(LoadOptions{ExplicitPath: filepath.Join(t.TempDir(), "nope.yaml")})
	assert.Error(t, err)
}

func TestLoadDiscoversAncestor(t *testing.T) {
	root := t.TempDir()
	writeConfig(t, root, ".sundial.yaml", "extensions:\n  fenced_code: true\n")
	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	res, err := Load(LoadOptions{WorkingDir: nested})
	require.NoError(t, err)
	assert.True(t, res.Config.Extensions.FencedCode)
	assert.Equal(t, filepath.Join(root, ".sundial.yaml"), res.Path)
}

func TestLoadDefaultsWhenAbsent(t *testing.T) {
	res, err := Load(LoadOptions{WorkingDir: t.TempDir()})
	require.NoError(t, err)
	assert.Empty(t, res.Path)
	assert.Equal(t, 16, res.Config.MaxNesting)
}

func TestStrictDecodeRejectsUnknownKeys(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, ".sundial.yaml", "no_such_key: true\n")

	_, err := Load(LoadOptions{ExplicitPath: path})
	assert.Error(t, err)
}
