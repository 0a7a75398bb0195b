package dataset

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"influencerag/internal/domain"
)

// Loader reads processed influencer records from JSON and CSV files. The
// ETL pipeline upstream owns normalization and dedup; the loader only maps
// file shapes onto domain.Profile.
type Loader struct {
	includes []string
	excludes []string
}

func NewLoader(includes, excludes []string) *Loader {
	if len(includes) == 0 {
		includes = []string{"**/*.json", "**/*.csv"}
	}
	return &Loader{
		includes: includes,
		excludes: excludes,
	}
}

// Load reads profiles from path, which may be a single file or a directory
// walked with the configured glob patterns.
func (l *Loader) Load(path string) ([]domain.Profile, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("dataset path: %w", err)
	}

	if !info.IsDir() {
		return loadFile(path)
	}

	files, err := l.walk(path)
	if err != nil {
		return nil, err
	}

	var profiles []domain.Profile
	for _, file := range files {
		loaded, err := loadFile(file)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", file, err)
		}
		profiles = append(profiles, loaded...)
	}
	return profiles, nil
}

func (l *Loader) walk(root string) ([]string, error) {
	root, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}

	var files []string
	err = filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}

		relPath, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		if l.matches(l.includes, relPath) && !l.matches(l.excludes, relPath) {
			files = append(files, path)
		}
		return nil
	})
	return files, err
}

func (l *Loader) matches(patterns []string, path string) bool {
	for _, pattern := range patterns {
		matched, err := doublestar.Match(pattern, filepath.ToSlash(path))
		if err == nil && matched {
			return true
		}
	}
	return false
}

func loadFile(path string) ([]domain.Profile, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return loadJSON(path)
	case ".csv":
		return loadCSV(path)
	default:
		return nil, fmt.Errorf("unsupported dataset file type: %s", path)
	}
}

// loadJSON accepts either a bare list of records or an object wrapping the
// list under a "data", "records", or "items" key.
func loadJSON(path string) ([]domain.Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var profiles []domain.Profile
	if err := json.Unmarshal(data, &profiles); err == nil {
		return profiles, nil
	}

	var wrapper map[string]json.RawMessage
	if err := json.Unmarshal(data, &wrapper); err != nil {
		return nil, fmt.Errorf("failed to parse dataset JSON: %w", err)
	}
	for _, key := range []string{"data", "records", "items"} {
		raw, ok := wrapper[key]
		if !ok {
			continue
		}
		if err := json.Unmarshal(raw, &profiles); err != nil {
			return nil, fmt.Errorf("failed to parse dataset JSON under %q: %w", key, err)
		}
		return profiles, nil
	}
	return nil, fmt.Errorf("dataset JSON has no record list")
}

func loadCSV(path string) ([]domain.Profile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse dataset CSV: %w", err)
	}
	if len(rows) < 2 {
		return nil, nil
	}

	col := make(map[string]int, len(rows[0]))
	for i, name := range rows[0] {
		col[strings.ToLower(strings.TrimSpace(name))] = i
	}

	field := func(row []string, name string) string {
		idx, ok := col[name]
		if !ok || idx >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[idx])
	}

	profiles := make([]domain.Profile, 0, len(rows)-1)
	for _, row := range rows[1:] {
		followers, _ := strconv.Atoi(strings.ReplaceAll(field(row, "followers"), ",", ""))
		profiles = append(profiles, domain.Profile{
			ID:         field(row, "id"),
			Name:       field(row, "name"),
			Handle:     field(row, "handle"),
			Niche:      field(row, "niche"),
			Followers:  followers,
			SamplePost: field(row, "sample_post"),
		})
	}
	return profiles, nil
}
