package store

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const (
	manifestFile = "manifest.yaml"
	vectorsFile  = "vectors.json"
	recordsFile  = "records.json"
	boltFile     = "store.db"
)

// Manifest describes a persisted store: which backend wrote it, the vector
// dimension, the row count, and the embedding tier active at save time.
// Loaders verify dimension and count against the data files before trusting
// them.
type Manifest struct {
	Backend   string `yaml:"backend"`
	Dimension int    `yaml:"dimension"`
	Count     int    `yaml:"count"`
	Embedder  string `yaml:"embedder,omitempty"`
}

func writeManifest(dir string, m Manifest) error {
	data, err := yaml.Marshal(m)
	if err != nil {
		return err
	}
	return writeFileAtomic(filepath.Join(dir, manifestFile), data)
}

// ReadManifest reads the manifest of a persisted store without opening the
// store itself.
func ReadManifest(dir string) (Manifest, error) {
	return readManifest(dir)
}

func readManifest(dir string) (Manifest, error) {
	data, err := os.ReadFile(filepath.Join(dir, manifestFile))
	if err != nil {
		if os.IsNotExist(err) {
			return Manifest{}, ErrNotFound
		}
		return Manifest{}, err
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return Manifest{}, fmt.Errorf("%w: unreadable manifest: %v", ErrCorruptState, err)
	}
	if m.Dimension <= 0 && m.Count > 0 {
		return Manifest{}, fmt.Errorf("%w: manifest has %d rows but no dimension", ErrCorruptState, m.Count)
	}
	return m, nil
}

// writeFileAtomic writes data to a temporary file in the target directory
// and renames it into place, so a torn write never clobbers the previous
// state. The temporary file is removed on every failure path.
func writeFileAtomic(path string, data []byte) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		os.Remove(tmp)
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return err
	}
	return nil
}
