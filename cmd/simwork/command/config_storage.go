package command

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/pixil98/go-errors"
	"github.com/pixil98/simwork/internal/catalog"
	"github.com/pixil98/simwork/internal/storage"
)

type StorageConfig struct {
	// DataDir holds saved progress. Empty keeps progress in memory only.
	DataDir string `json:"data_dir" env:"SIMWORK_DATA_DIR"`

	// CatalogPath is a directory of role assets. Empty uses the stock roles.
	CatalogPath string `json:"catalog_path" env:"SIMWORK_CATALOG_PATH"`
}

func (c *StorageConfig) validate() error {
	el := errors.NewErrorList()

	if c.CatalogPath != "" {
		if _, err := os.Stat(c.CatalogPath); err != nil {
			el.Add(fmt.Errorf("storage: invalid catalog_path %q: %w", c.CatalogPath, err))
		}
	}

	return el.Err()
}

func (c *StorageConfig) buildCatalog() (*catalog.Catalog, error) {
	return catalog.Load(c.CatalogPath)
}

func (c *StorageConfig) buildKV() (storage.KeyValueStore, error) {
	if c.DataDir == "" {
		slog.Warn("no data_dir configured, progress will not be saved")
		return storage.NewMemoryKV(), nil
	}
	return storage.NewFileKV(c.DataDir)
}
