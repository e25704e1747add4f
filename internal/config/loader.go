package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// Loader resolves a Config from defaults, files and the environment.
type Loader struct {
	files  []string
	env    func(string) (string, bool)
	useEnv bool
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithFiles appends TOML files. Missing files are skipped.
func WithFiles(paths ...string) LoaderOption {
	return func(l *Loader) {
		l.files = append(l.files, paths...)
	}
}

// WithEnv sets the environment lookup. Pass nil to ignore the environment.
func WithEnv(lookup func(string) (string, bool)) LoaderOption {
	return func(l *Loader) {
		l.env = lookup
		l.useEnv = lookup != nil
	}
}

// NewLoader creates a loader that reads the process environment.
func NewLoader(opts ...LoaderOption) *Loader {
	l := &Loader{env: os.LookupEnv, useEnv: true}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Files returns the configured file paths.
func (l *Loader) Files() []string {
	return append([]string(nil), l.files...)
}

// Load resolves, expands and validates the configuration.
func (l *Loader) Load() (*Config, error) {
	merged, err := toMap(Default())
	if err != nil {
		return nil, err
	}

	for _, path := range l.files {
		m, err := LoadFile(path)
		if err != nil {
			return nil, err
		}
		merged = DeepMerge(merged, m)
	}

	if l.useEnv {
		m, err := envOverrides(l.env)
		if err != nil {
			return nil, err
		}
		merged = DeepMerge(merged, m)
	}

	coerceFloats(merged, "layout")

	cfg, err := fromMap(merged)
	if err != nil {
		return nil, err
	}
	cfg.ExpandPaths()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFile parses a TOML file into a map. A missing file yields nil.
func LoadFile(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading config file %s: %w", path, err)
	}
	return parse(path, data)
}

func parse(source string, data []byte) (map[string]any, error) {
	var m map[string]any
	if err := toml.Unmarshal(data, &m); err != nil {
		return nil, newParseError(source, err)
	}
	return m, nil
}

func newParseError(source string, err error) *ParseError {
	pe := &ParseError{Path: source, Err: err}
	var de *toml.DecodeError
	if errors.As(err, &de) {
		pe.Line, pe.Column = de.Position()
	}
	return pe
}

func toMap(cfg *Config) (map[string]any, error) {
	data, err := toml.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}
	return parse("<defaults>", data)
}

// fromMap decodes m into a Config. Unknown keys are rejected.
func fromMap(m map[string]any) (*Config, error) {
	data, err := toml.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("encode merged config: %w", err)
	}
	var cfg Config
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		var strict *toml.StrictMissingError
		if errors.As(err, &strict) {
			return nil, fmt.Errorf("unknown settings: %s", strict.String())
		}
		return nil, newParseError("<merged>", err)
	}
	return &cfg, nil
}

// coerceFloats converts integer values in section to floats so that
// "splitPosition = 60" decodes into a float field.
func coerceFloats(m map[string]any, section string) {
	sec, ok := m[section].(map[string]any)
	if !ok {
		return
	}
	for k, v := range sec {
		if i, ok := v.(int64); ok {
			sec[k] = float64(i)
		}
	}
}

// DeepMerge merges src into dst and returns dst. Nested maps merge
// recursively; any other src value replaces the dst value.
func DeepMerge(dst, src map[string]any) map[string]any {
	if dst == nil {
		dst = make(map[string]any, len(src))
	}
	for k, sv := range src {
		sm, sIsMap := sv.(map[string]any)
		dm, dIsMap := dst[k].(map[string]any)
		if sIsMap && dIsMap {
			dst[k] = DeepMerge(dm, sm)
			continue
		}
		dst[k] = sv
	}
	return dst
}
