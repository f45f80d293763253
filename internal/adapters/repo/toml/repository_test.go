package toml

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bnema/vmsim/internal/domain"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRepository(t *testing.T, catalogPath string) *Repository {
	t.Helper()

	config := viper.New()
	config.Set(CatalogPathKey, catalogPath)

	repo, err := NewRepository(config)
	require.NoError(t, err)
	return repo
}

func sampleCatalog() domain.Catalog {
	return domain.Catalog{
		Programs: []domain.Program{
			{ID: "os", Name: "Operating System", Size: 1, Removable: false, DefaultStatus: domain.StatusOpen},
			{ID: "browser", Name: "Web Browser", Size: 1, Removable: true},
			{ID: "word", Name: "Word Processor", Size: 2, Removable: true},
		},
		Levels: []domain.Level{
			{Capacity: 2, Name: "Warm Up", Description: "Two programs.", Sequence: []domain.ProgramID{"os", "browser", "browser"}},
		},
	}
}

func TestRepositoryRoundTrip(t *testing.T) {
	t.Parallel()

	repo := newTestRepository(t, filepath.Join(t.TempDir(), "catalog.toml"))
	catalog := sampleCatalog()

	require.NoError(t, repo.Save(context.Background(), catalog))

	got, err := repo.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, catalog, got)
}

func TestRepositoryMissingFileFallsBackToDefaultCatalog(t *testing.T) {
	t.Parallel()

	repo := newTestRepository(t, filepath.Join(t.TempDir(), "missing", "catalog.toml"))

	exists, err := repo.Exists()
	require.NoError(t, err)
	assert.False(t, exists)

	got, err := repo.Load(context.Background())
	require.NoError(t, err)

	want, err := DefaultCatalog()
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestDefaultCatalogIsValid(t *testing.T) {
	t.Parallel()

	catalog, err := DefaultCatalog()
	require.NoError(t, err)
	require.NoError(t, catalog.Validate())

	system, err := catalog.Program("os")
	require.NoError(t, err)
	assert.False(t, system.Removable)
	assert.Equal(t, domain.StatusOpen, system.DefaultStatus)

	browser, err := catalog.Program("browser")
	require.NoError(t, err)
	assert.True(t, browser.Removable, "removable defaults to true")

	assert.Len(t, catalog.Levels, 5)
	for _, level := range catalog.Levels {
		for _, id := range level.Sequence {
			program, err := catalog.Program(id)
			require.NoError(t, err)
			assert.LessOrEqual(t, program.Size, level.Capacity, "level %q program %q", level.Name, id)
		}
	}
}

func TestRepositoryOmittedRemovableDefaultsToTrue(t *testing.T) {
	t.Parallel()

	catalogPath := filepath.Join(t.TempDir(), "catalog.toml")
	require.NoError(t, os.WriteFile(catalogPath, []byte(strings.Join([]string{
		"version = 1",
		"",
		"[[programs]]",
		"id = \"os\"",
		"name = \"Operating System\"",
		"size = 1",
		"removable = false",
		"",
		"[[programs]]",
		"id = \"browser\"",
		"name = \"Web Browser\"",
		"size = 1",
		"",
	}, "\n")), 0o644))

	repo := newTestRepository(t, catalogPath)

	catalog, err := repo.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, catalog.Programs, 2)
	assert.False(t, catalog.Programs[0].Removable)
	assert.True(t, catalog.Programs[1].Removable)
	assert.Empty(t, catalog.Levels)
}

func TestRepositoryLoadMalformedTOMLReturnsError(t *testing.T) {
	t.Parallel()

	catalogPath := filepath.Join(t.TempDir(), "catalog.toml")
	require.NoError(t, os.WriteFile(catalogPath, []byte("programs = ["), 0o644))

	repo := newTestRepository(t, catalogPath)

	_, err := repo.Load(context.Background())
	require.Error(t, err)
	assert.ErrorContains(t, err, "decode catalog file")
}

func TestRepositoryLoadRejectsInvalidCatalog(t *testing.T) {
	t.Parallel()

	catalogPath := filepath.Join(t.TempDir(), "catalog.toml")
	require.NoError(t, os.WriteFile(catalogPath, []byte(strings.Join([]string{
		"version = 1",
		"",
		"[[programs]]",
		"id = \"os\"",
		"name = \"Operating System\"",
		"size = 1",
		"",
		"[[levels]]",
		"name = \"Broken\"",
		"capacity = 2",
		"programs = [\"os\", \"ghost\"]",
		"",
	}, "\n")), 0o644))

	repo := newTestRepository(t, catalogPath)

	_, err := repo.Load(context.Background())
	require.ErrorIs(t, err, domain.ErrProgramNotFound)
}

func TestRepositoryFutureSchemaVersionReturnsError(t *testing.T) {
	t.Parallel()

	catalogPath := filepath.Join(t.TempDir(), "catalog.toml")
	require.NoError(t, os.WriteFile(catalogPath, []byte("version = 999\n"), 0o644))

	repo := newTestRepository(t, catalogPath)

	_, err := repo.Load(context.Background())
	require.Error(t, err)
	assert.ErrorContains(t, err, "unsupported catalog schema version")
}

func TestRepositorySaveRejectsInvalidCatalog(t *testing.T) {
	t.Parallel()

	catalogPath := filepath.Join(t.TempDir(), "catalog.toml")
	repo := newTestRepository(t, catalogPath)

	catalog := sampleCatalog()
	catalog.Programs[1].Size = 0

	err := repo.Save(context.Background(), catalog)
	require.Error(t, err)
	assert.ErrorContains(t, err, "size must be positive")

	exists, err := repo.Exists()
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestRepositorySaveCanceledContextReturnsContextError(t *testing.T) {
	t.Parallel()

	repo := newTestRepository(t, filepath.Join(t.TempDir(), "catalog.toml"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := repo.Save(ctx, sampleCatalog())
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestRepositorySaveCreatesDefaultPath(t *testing.T) {
	homeDir := t.TempDir()
	t.Setenv("HOME", homeDir)

	repo, err := NewRepository(viper.New())
	require.NoError(t, err)

	require.NoError(t, repo.Save(context.Background(), sampleCatalog()))

	catalogPath := filepath.Join(homeDir, ".vmsim", "catalog.toml")
	assert.Equal(t, catalogPath, repo.Path())
	info, err := os.Stat(catalogPath)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o644), info.Mode().Perm())
}

func TestRepositorySaveSerializedTOMLIncludesVersion(t *testing.T) {
	t.Parallel()

	catalogPath := filepath.Join(t.TempDir(), "catalog.toml")
	repo := newTestRepository(t, catalogPath)

	require.NoError(t, repo.Save(context.Background(), sampleCatalog()))

	data, err := os.ReadFile(catalogPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "version = 1")
	assert.Contains(t, string(data), "removable = false")
	assert.NotContains(t, string(data), "removable = true")
}
