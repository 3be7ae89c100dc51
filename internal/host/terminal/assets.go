package terminal

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// assetExt is the extension of saved assets.
const assetExt = ".yaml"

// FileAssets implements ctxapi.AssetAPI by writing YAML files under a
// directory.
type FileAssets struct {
	dir string
}

// NewFileAssets saves assets under dir.
func NewFileAssets(dir string) *FileAssets {
	return &FileAssets{dir: dir}
}

// DefaultAssetPath implements ctxapi.AssetAPI.
func (a *FileAssets) DefaultAssetPath() string {
	return a.dir
}

// UniqueAssetName implements ctxapi.AssetAPI. It returns base-N.yaml for
// the lowest N not already used in folder.
func (a *FileAssets) UniqueAssetName(folder, base string) string {
	for n := 1; ; n++ {
		name := fmt.Sprintf("%s-%d%s", base, n, assetExt)
		if _, err := os.Stat(filepath.Join(folder, name)); errors.Is(err, os.ErrNotExist) {
			return name
		}
	}
}

// SaveGeneratedAsset implements ctxapi.AssetAPI.
func (a *FileAssets) SaveGeneratedAsset(path string, payload any) error {
	data, err := yaml.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encoding asset: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating asset folder: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing asset: %w", err)
	}
	return nil
}
