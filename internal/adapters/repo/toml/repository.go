package toml

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/bnema/vmsim/internal/domain"
	"github.com/bnema/vmsim/internal/ports"
	toml "github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"
)

const (
	CatalogPathKey    = "catalog.path"
	catalogFileMode   = 0o644
	catalogDirMode    = 0o755
	catalogConfigDir  = ".vmsim"
	catalogConfigFile = "catalog.toml"
	tempFilePattern   = ".catalog-*.toml.tmp"
)

//go:embed default_catalog.toml
var defaultCatalogTOML []byte

type Repository struct {
	catalogPath string
	mu          *sync.RWMutex
}

var (
	lockRegistryMu sync.Mutex
	pathLockMap    = map[string]*sync.RWMutex{}
)

var _ ports.CatalogRepository = (*Repository)(nil)

func NewRepository(cfg *viper.Viper) (*Repository, error) {
	if cfg == nil {
		cfg = viper.New()
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("resolve home directory: %w", err)
	}

	cfg.SetDefault(CatalogPathKey, filepath.Join(homeDir, catalogConfigDir, catalogConfigFile))

	catalogPath := cfg.GetString(CatalogPathKey)
	if catalogPath == "" {
		return nil, errors.New("catalog path is empty")
	}
	catalogPath, err = normalizeCatalogPath(catalogPath)
	if err != nil {
		return nil, err
	}

	return &Repository{catalogPath: catalogPath, mu: lockForPath(catalogPath)}, nil
}

func (r *Repository) Path() string {
	return r.catalogPath
}

// Exists reports whether a catalog file has been written at the configured path.
func (r *Repository) Exists() (bool, error) {
	_, err := os.Stat(r.catalogPath)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}

	return false, fmt.Errorf("stat catalog file: %w", err)
}

// Load returns the catalog at the configured path, or the built-in catalog
// when no file exists yet.
func (r *Repository) Load(ctx context.Context) (domain.Catalog, error) {
	if err := ctx.Err(); err != nil {
		return domain.Catalog{}, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	data, err := os.ReadFile(r.catalogPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return DefaultCatalog()
		}
		return domain.Catalog{}, fmt.Errorf("read catalog file: %w", err)
	}

	file, err := decodeSchema(data)
	if err != nil {
		return domain.Catalog{}, err
	}

	return fromSchema(file)
}

func (r *Repository) Save(ctx context.Context, catalog domain.Catalog) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := catalog.Validate(); err != nil {
		return fmt.Errorf("validate catalog: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	return r.writeSchema(toSchema(catalog))
}

// DefaultCatalog decodes the catalog bundled with the binary.
func DefaultCatalog() (domain.Catalog, error) {
	file, err := decodeSchema(defaultCatalogTOML)
	if err != nil {
		return domain.Catalog{}, fmt.Errorf("default catalog: %w", err)
	}

	return fromSchema(file)
}

func decodeSchema(data []byte) (fileSchema, error) {
	var file fileSchema
	if err := toml.Unmarshal(data, &file); err != nil {
		return fileSchema{}, fmt.Errorf("decode catalog file: %w", err)
	}
	if err := file.validateVersion(); err != nil {
		return fileSchema{}, err
	}
	file.applyDefaults()

	return file, nil
}

func normalizeCatalogPath(path string) (string, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolve catalog path: %w", err)
	}

	return filepath.Clean(absPath), nil
}

func lockForPath(path string) *sync.RWMutex {
	lockRegistryMu.Lock()
	defer lockRegistryMu.Unlock()

	if mu, ok := pathLockMap[path]; ok {
		return mu
	}

	mu := &sync.RWMutex{}
	pathLockMap[path] = mu
	return mu
}

func (r *Repository) writeSchema(file fileSchema) error {
	file.applyDefaults()

	if err := os.MkdirAll(filepath.Dir(r.catalogPath), catalogDirMode); err != nil {
		return fmt.Errorf("create catalog directory: %w", err)
	}

	data, err := toml.Marshal(file)
	if err != nil {
		return fmt.Errorf("encode catalog file: %w", err)
	}

	tempFile, err := os.CreateTemp(filepath.Dir(r.catalogPath), tempFilePattern)
	if err != nil {
		return fmt.Errorf("create temp catalog file: %w", err)
	}

	tempName := tempFile.Name()
	cleanup := true
	defer func() {
		if cleanup {
			_ = os.Remove(tempName)
		}
	}()

	if _, err := tempFile.Write(data); err != nil {
		_ = tempFile.Close()
		return fmt.Errorf("write temp catalog file: %w", err)
	}

	if err := tempFile.Chmod(catalogFileMode); err != nil {
		_ = tempFile.Close()
		return fmt.Errorf("chmod temp catalog file: %w", err)
	}

	if err := tempFile.Close(); err != nil {
		return fmt.Errorf("close temp catalog file: %w", err)
	}

	if err := os.Rename(tempName, r.catalogPath); err != nil {
		return fmt.Errorf("replace catalog file: %w", err)
	}

	cleanup = false
	return nil
}

func toSchema(catalog domain.Catalog) fileSchema {
	file := fileSchema{
		Version:  currentSchemaVersion,
		Programs: make([]programSchema, 0, len(catalog.Programs)),
		Levels:   make([]levelSchema, 0, len(catalog.Levels)),
	}

	for _, program := range catalog.Programs {
		entry := programSchema{
			ID:            string(program.ID),
			Name:          program.Name,
			Size:          program.Size,
			DefaultStatus: string(program.DefaultStatus),
		}
		if !program.Removable {
			removable := false
			entry.Removable = &removable
		}
		file.Programs = append(file.Programs, entry)
	}

	for _, level := range catalog.Levels {
		ids := make([]string, 0, len(level.Sequence))
		for _, id := range level.Sequence {
			ids = append(ids, string(id))
		}
		file.Levels = append(file.Levels, levelSchema{
			Name:        level.Name,
			Capacity:    level.Capacity,
			Description: level.Description,
			Programs:    ids,
		})
	}

	return file
}

func fromSchema(file fileSchema) (domain.Catalog, error) {
	catalog := domain.Catalog{
		Programs: make([]domain.Program, 0, len(file.Programs)),
		Levels:   make([]domain.Level, 0, len(file.Levels)),
	}

	for _, entry := range file.Programs {
		removable := true
		if entry.Removable != nil {
			removable = *entry.Removable
		}
		catalog.Programs = append(catalog.Programs, domain.Program{
			ID:            domain.ProgramID(entry.ID),
			Name:          entry.Name,
			Size:          entry.Size,
			Removable:     removable,
			DefaultStatus: domain.Status(entry.DefaultStatus),
		})
	}

	for _, entry := range file.Levels {
		sequence := make([]domain.ProgramID, 0, len(entry.Programs))
		for _, id := range entry.Programs {
			sequence = append(sequence, domain.ProgramID(id))
		}
		catalog.Levels = append(catalog.Levels, domain.Level{
			Capacity:    entry.Capacity,
			Name:        entry.Name,
			Description: entry.Description,
			Sequence:    sequence,
		})
	}

	if err := catalog.Validate(); err != nil {
		return domain.Catalog{}, fmt.Errorf("validate catalog file: %w", err)
	}

	return catalog, nil
}
