package keymap

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrUnsupportedFormat is returned for files that are neither JSON nor YAML.
var ErrUnsupportedFormat = errors.New("unsupported keymap format")

// Loader reads keymap files from a list of paths. Each path may be a file
// or a directory of *.json, *.yaml and *.yml files.
type Loader struct {
	paths []string
}

// NewLoader creates a loader for paths.
func NewLoader(paths ...string) *Loader {
	return &Loader{paths: append([]string(nil), paths...)}
}

// AddPath appends a file or directory.
func (l *Loader) AddPath(path string) {
	l.paths = append(l.paths, path)
}

// Paths returns the configured paths.
func (l *Loader) Paths() []string {
	return append([]string(nil), l.paths...)
}

// LoadFile reads one keymap file. The format is chosen by extension.
// A keymap without a name is named after its file; a keymap without a
// priority gets UserPriority.
func (l *Loader) LoadFile(path string) (*Keymap, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read keymap: %w", err)
	}

	var km *Keymap
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		km, err = DecodeJSON(data)
	case ".yaml", ".yml":
		km, err = DecodeYAML(data)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	if km.Name == "" {
		km.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	if km.Priority == 0 {
		km.Priority = UserPriority
	}
	if km.Source == "" {
		km.Source = "user"
	}
	return km, nil
}

// LoadAll reads every keymap reachable from the configured paths, sorted by
// file name within a directory. Missing paths are skipped. Files that fail
// to load are reported in the joined error while the others are returned.
func (l *Loader) LoadAll() ([]*Keymap, error) {
	var (
		out  []*Keymap
		errs []error
	)
	for _, p := range l.paths {
		files, err := keymapFiles(p)
		if err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				errs = append(errs, err)
			}
			continue
		}
		for _, f := range files {
			km, err := l.LoadFile(f)
			if err != nil {
				errs = append(errs, err)
				continue
			}
			if err := km.Validate(); err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", f, err))
				continue
			}
			out = append(out, km)
		}
	}
	return out, errors.Join(errs...)
}

func keymapFiles(path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return []string{path}, nil
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, err
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(e.Name())) {
		case ".json", ".yaml", ".yml":
			files = append(files, filepath.Join(path, e.Name()))
		}
	}
	sort.Strings(files)
	return files, nil
}

// DecodeJSON parses a keymap from JSON. Unknown fields are rejected.
func DecodeJSON(data []byte) (*Keymap, error) {
	var km Keymap
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&km); err != nil {
		return nil, fmt.Errorf("decode json keymap: %w", err)
	}
	return &km, nil
}

// DecodeYAML parses a keymap from YAML. Unknown fields are rejected.
func DecodeYAML(data []byte) (*Keymap, error) {
	var km Keymap
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&km); err != nil {
		return nil, fmt.Errorf("decode yaml keymap: %w", err)
	}
	return &km, nil
}

// EncodeYAML writes km as YAML.
func EncodeYAML(km *Keymap) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(km); err != nil {
		return nil, fmt.Errorf("encode yaml keymap: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// SaveFile writes km to path as JSON or YAML by extension.
func SaveFile(km *Keymap, path string) error {
	var (
		data []byte
		err  error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		data, err = json.MarshalIndent(km, "", "  ")
	case ".yaml", ".yml":
		data, err = EncodeYAML(km)
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
