package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"gopkg.in/yaml.v3"
)

// Common errors for fixture loading.
var (
	ErrFileNotFound     = errors.New("fixture file not found")
	ErrPermissionDenied = errors.New("permission denied")
	ErrInvalidJSON      = errors.New("invalid JSON syntax")
	ErrInvalidYAML      = errors.New("invalid YAML syntax")
	ErrEmptyFile        = errors.New("fixture file is empty")
)

// Format is the encoding of a fixture file.
type Format int

// Fixture file formats.
const (
	FormatJSON Format = iota
	FormatYAML
)

// FormatOf detects the format from the extension: .yaml and .yml are YAML,
// anything else is JSON.
func FormatOf(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// LoadFile reads and validates a fixture from a JSON or YAML file.
func LoadFile(path string) (*Fixture, error) {
	data, err := readFile(path)
	if err != nil {
		return nil, err
	}

	var f *Fixture
	if FormatOf(path) == FormatYAML {
		f, err = ParseYAML(data)
	} else {
		f, err = ParseJSON(data)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	f.Path = path
	return f, nil
}

// readFile reads a fixture file, rejecting directories and blank files.
func readFile(path string) ([]byte, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		if os.IsPermission(err) {
			return nil, fmt.Errorf("%w: %s", ErrPermissionDenied, path)
		}
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	if info.IsDir() {
		return nil, fmt.Errorf("path is a directory, not a file: %s", path)
	}

	file, err := os.Open(path)
	if err != nil {
		if os.IsPermission(err) {
			return nil, fmt.Errorf("%w: %s", ErrPermissionDenied, path)
		}
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	if len(bytes.TrimSpace(data)) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptyFile, path)
	}
	return data, nil
}

// ParseJSON parses and validates a JSON fixture. Unknown fields are rejected.
func ParseJSON(data []byte) (*Fixture, error) {
	if !json.Valid(data) {
		return nil, ErrInvalidJSON
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()

	var f Fixture
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidJSON, err)
	}

	if err := f.Validate(); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}
	return &f, nil
}

// ParseYAML parses and validates a YAML fixture. Unknown fields are rejected.
func ParseYAML(data []byte) (*Fixture, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var f Fixture
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidYAML, err)
	}

	if err := f.Validate(); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}
	return &f, nil
}

// LoadGlob loads every fixture matching the patterns, in the order Expand
// returns them. Loading stops at the first invalid file.
func LoadGlob(patterns ...string) ([]*Fixture, error) {
	paths, err := Expand(patterns...)
	if err != nil {
		return nil, err
	}

	result := make([]*Fixture, 0, len(paths))
	for _, path := range paths {
		f, err := LoadFile(path)
		if err != nil {
			return nil, err
		}
		result = append(result, f)
	}
	return result, nil
}

// Expand resolves patterns to file paths, in pattern order and sorted within
// a pattern so registration order is deterministic. Supports ** for
// recursive directory matching. A pattern without glob characters must name
// an existing file.
func Expand(patterns ...string) ([]string, error) {
	var paths []string
	for _, pattern := range patterns {
		matches, err := expandGlob(pattern)
		if err != nil {
			return nil, fmt.Errorf("expanding glob pattern %q: %w", pattern, err)
		}

		if len(matches) == 0 {
			if !hasMeta(pattern) {
				return nil, fmt.Errorf("%w: %s", ErrFileNotFound, pattern)
			}
			continue
		}

		sort.Strings(matches)
		paths = append(paths, matches...)
	}
	return paths, nil
}

// expandGlob expands a glob pattern to a list of matching file paths.
// Uses doublestar for ** support, falls back to filepath.Glob for simple patterns.
func expandGlob(pattern string) ([]string, error) {
	if strings.Contains(pattern, "**") {
		return doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
	}
	return filepath.Glob(pattern)
}

func hasMeta(pattern string) bool {
	return strings.ContainsAny(pattern, "*?[{")
}
