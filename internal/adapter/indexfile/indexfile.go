// Package indexfile reads and writes the JSON index file. It imports
// nothing beyond the standard library and the domain so the js/wasm build
// can load indexes.
package indexfile

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"romdex/internal/domain"
)

// Encode writes idx as a JSON object of
// filename -> [url, title, [tags...]], keys and tags sorted, indented by
// four spaces and terminated by a newline.
func Encode(w io.Writer, idx *domain.Index) error {
	records := make(map[string][]any, idx.Len())
	for _, e := range idx.Entries() {
		tags := e.Tags
		if tags == nil {
			tags = []string{}
		}
		records[e.Filename] = []any{e.URL, e.Title, tags}
	}

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	return enc.Encode(records)
}

// Decode reads the format written by Encode.
func Decode(r io.Reader) (*domain.Index, error) {
	var raw map[string][]json.RawMessage
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("failed to decode index: %w", err)
	}

	entries := make([]domain.GameEntry, 0, len(raw))
	for filename, fields := range raw {
		if len(fields) != 3 {
			return nil, fmt.Errorf("index entry %q: expected [url, title, tags], got %d fields", filename, len(fields))
		}
		e := domain.GameEntry{Filename: filename}
		if err := json.Unmarshal(fields[0], &e.URL); err != nil {
			return nil, fmt.Errorf("index entry %q: url: %w", filename, err)
		}
		if err := json.Unmarshal(fields[1], &e.Title); err != nil {
			return nil, fmt.Errorf("index entry %q: title: %w", filename, err)
		}
		if err := json.Unmarshal(fields[2], &e.Tags); err != nil {
			return nil, fmt.Errorf("index entry %q: tags: %w", filename, err)
		}
		entries = append(entries, e)
	}

	return domain.NewIndex(entries), nil
}

// Save writes the index file atomically.
func Save(path string, idx *domain.Index) error {
	var buf bytes.Buffer
	if err := Encode(&buf, idx); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write index: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmp.Name(), 0644); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// Load reads an index file. A missing file yields domain.ErrNoIndex.
func Load(path string) (*domain.Index, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", domain.ErrNoIndex, path)
		}
		return nil, err
	}
	defer f.Close()

	return Decode(f)
}
