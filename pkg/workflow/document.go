// Package workflow loads the engine's workflow definition documents,
// rewrites the credential references embedded in them, and stages them for
// bulk import.
//
// Documents are opaque to the provisioner: arbitrary trees of objects,
// arrays and scalars. The only mutation ever applied is the credential-id
// rewrite in remap.go; everything else round-trips unchanged (module
// formatting normalization by the serializer).
package workflow

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-yaml"
)

// Format identifies a document's on-disk serialization.
type Format int

const (
	FormatJSON Format = iota
	FormatYAML
)

// Document is a parsed workflow definition plus enough metadata to write it
// back in its own format.
type Document struct {
	Path   string
	Format Format
	Root   any
}

// ParseError marks a document that could not be parsed as structured data.
// Callers skip the document with a warning; the file is still imported
// unmodified.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse workflow document %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// formatForPath maps a file extension to a document format. The second
// return value is false for extensions the provisioner does not stage.
func formatForPath(path string) (Format, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, true
	case ".yaml", ".yml":
		return FormatYAML, true
	default:
		return 0, false
	}
}

// LoadDocument reads and parses a workflow document. A file that cannot be
// parsed yields a *ParseError.
func LoadDocument(path string) (*Document, error) {
	format, ok := formatForPath(path)
	if !ok {
		return nil, fmt.Errorf("unsupported workflow document extension: %s", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read workflow document %s: %w", path, err)
	}

	var root any
	switch format {
	case FormatJSON:
		err = json.Unmarshal(data, &root)
	case FormatYAML:
		err = yaml.Unmarshal(data, &root)
	}
	if err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	return &Document{Path: path, Format: format, Root: root}, nil
}

// Save re-serializes the document and overwrites it in place, in the same
// format it was loaded from.
func (d *Document) Save() error {
	var data []byte
	var err error
	switch d.Format {
	case FormatJSON:
		data, err = json.MarshalIndent(d.Root, "", "  ")
		if err == nil {
			data = append(data, '\n')
		}
	case FormatYAML:
		data, err = yaml.Marshal(d.Root)
	}
	if err != nil {
		return fmt.Errorf("failed to serialize workflow document %s: %w", d.Path, err)
	}
	if err := os.WriteFile(d.Path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write workflow document %s: %w", d.Path, err)
	}
	return nil
}

// Stage copies the workflow documents from the read-only source directory
// into scratchDir and returns the copied paths. A missing source directory
// is not an error; it returns an empty slice.
func Stage(srcDir, scratchDir string) ([]string, error) {
	entries, err := os.ReadDir(srcDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read workflow source directory %s: %w", srcDir, err)
	}

	if err := os.MkdirAll(scratchDir, 0o700); err != nil {
		return nil, fmt.Errorf("failed to create workflow staging directory: %w", err)
	}

	var staged []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if _, ok := formatForPath(entry.Name()); !ok {
			continue
		}
		src := filepath.Join(srcDir, entry.Name())
		dst := filepath.Join(scratchDir, entry.Name())
		data, err := os.ReadFile(src)
		if err != nil {
			return staged, fmt.Errorf("failed to copy workflow document %s: %w", src, err)
		}
		if err := os.WriteFile(dst, data, 0o600); err != nil {
			return staged, fmt.Errorf("failed to copy workflow document %s: %w", src, err)
		}
		staged = append(staged, dst)
	}
	return staged, nil
}
