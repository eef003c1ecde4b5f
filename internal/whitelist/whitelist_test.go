package whitelist

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeWhitelist(t *testing.T, root, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "data"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "data", "whitelist.json"), []byte(content), 0o644))
}

func TestListMissingFileIsEmpty(t *testing.T) {
	repo := NewRepository(t.TempDir())
	names, err := repo.List()
	require.NoError(t, err)
	assert.Empty(t, names)

	count, err := repo.Count()
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestListSortsCaseInsensitively(t *testing.T) {
	root := t.TempDir()
	writeWhitelist(t, root, `[{"name":"misty"},{"name":"Ash"},{"name":"Brock"}]`)

	repo := NewRepository(root)
	names, err := repo.List()
	require.NoError(t, err)
	assert.Equal(t, []string{"Ash", "Brock", "misty"}, names)
}

func TestListRejectsMalformedFile(t *testing.T) {
	root := t.TempDir()
	writeWhitelist(t, root, `{not json`)

	repo := NewRepository(root)
	_, err := repo.List()
	assert.Error(t, err)
}

func TestListSkipsEntriesWithoutNames(t *testing.T) {
	root := t.TempDir()
	writeWhitelist(t, root, `[{"name":"Ash"},{"uuid":"abc"},{"name":""}]`)

	repo := NewRepository(root)
	names, err := repo.List()
	require.NoError(t, err)
	assert.Equal(t, []string{"Ash"}, names)
}
