package taxonomy

import (
	"bytes"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sync"

	"romdex/internal/domain"
)

const (
	TagsFile       = "tags.json"
	ShortCodesFile = "short-codes.json"
)

//go:embed defaults/*.json
var defaultFiles embed.FS

var loadDefault = sync.OnceValue(func() *Taxonomy {
	tags, err := defaultFiles.ReadFile("defaults/" + TagsFile)
	if err != nil {
		panic(err)
	}
	codes, err := defaultFiles.ReadFile("defaults/" + ShortCodesFile)
	if err != nil {
		panic(err)
	}
	t, err := Parse(tags, codes)
	if err != nil {
		panic(fmt.Sprintf("built-in taxonomy: %v", err))
	}
	return t
})

// Default returns the built-in No-Intro SG-1000 taxonomy.
func Default() *Taxonomy {
	return loadDefault()
}

// Load reads the taxonomy and short-code files. Both files must exist
// together; if neither does, the built-in taxonomy is returned.
func Load(tagsPath, codesPath string) (*Taxonomy, error) {
	tags, tagsErr := os.ReadFile(tagsPath)
	codes, codesErr := os.ReadFile(codesPath)

	switch {
	case errors.Is(tagsErr, fs.ErrNotExist) && errors.Is(codesErr, fs.ErrNotExist):
		return Default(), nil
	case tagsErr != nil:
		return nil, fmt.Errorf("failed to read %s: %w", tagsPath, tagsErr)
	case codesErr != nil:
		return nil, fmt.Errorf("failed to read %s: %w", codesPath, codesErr)
	}

	t, err := Parse(tags, codes)
	if err != nil {
		return nil, fmt.Errorf("failed to load taxonomy from %s and %s: %w", tagsPath, codesPath, err)
	}
	return t, nil
}

// Parse builds a Taxonomy from the JSON contents of the two files,
// keeping the declared order of categories and short codes.
func Parse(tagsJSON, codesJSON []byte) (*Taxonomy, error) {
	var categories []Category
	err := decodeOrdered(tagsJSON, func(key string, dec *json.Decoder) error {
		var tags []string
		if err := dec.Decode(&tags); err != nil {
			return fmt.Errorf("category %q: %w", key, err)
		}
		categories = append(categories, Category{Name: key, Tags: tags})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrInvalidTaxonomy, TagsFile, err)
	}

	var codes []ShortCode
	err = decodeOrdered(codesJSON, func(key string, dec *json.Decoder) error {
		var tag string
		if err := dec.Decode(&tag); err != nil {
			return fmt.Errorf("short code %q: %w", key, err)
		}
		codes = append(codes, ShortCode{Code: key, Tag: tag})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrInvalidTaxonomy, ShortCodesFile, err)
	}

	return New(categories, codes)
}

// Save writes the taxonomy back out in the same two-file layout.
func (t *Taxonomy) Save(tagsPath, codesPath string) error {
	var tagsBuf bytes.Buffer
	keys := make([]string, len(t.categories))
	values := make([]any, len(t.categories))
	for i, c := range t.categories {
		keys[i] = c.Name
		values[i] = c.Tags
	}
	if err := encodeOrdered(&tagsBuf, keys, values); err != nil {
		return err
	}

	var codesBuf bytes.Buffer
	keys = make([]string, len(t.codes))
	values = make([]any, len(t.codes))
	for i, sc := range t.codes {
		keys[i] = sc.Code
		values[i] = sc.Tag
	}
	if err := encodeOrdered(&codesBuf, keys, values); err != nil {
		return err
	}

	if err := os.WriteFile(tagsPath, tagsBuf.Bytes(), 0644); err != nil {
		return err
	}
	return os.WriteFile(codesPath, codesBuf.Bytes(), 0644)
}

// decodeOrdered walks a top-level JSON object key by key. Duplicate keys
// are rejected instead of silently overwritten.
func decodeOrdered(data []byte, fn func(key string, dec *json.Decoder) error) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("expected a JSON object")
	}

	seen := make(map[string]struct{})
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("unexpected token %v", tok)
		}
		if _, dup := seen[key]; dup {
			return fmt.Errorf("duplicate key %q", key)
		}
		seen[key] = struct{}{}
		if err := fn(key, dec); err != nil {
			return err
		}
	}

	if _, err := dec.Token(); err != nil {
		return err
	}
	if dec.More() {
		return fmt.Errorf("trailing data after object")
	}
	return nil
}

func encodeOrdered(buf *bytes.Buffer, keys []string, values []any) error {
	buf.WriteString("{")
	for i, k := range keys {
		if i > 0 {
			buf.WriteString(",")
		}
		buf.WriteString("\n    ")
		kb, err := json.Marshal(k)
		if err != nil {
			return err
		}
		buf.Write(kb)
		buf.WriteString(": ")
		vb, err := json.MarshalIndent(values[i], "    ", "    ")
		if err != nil {
			return err
		}
		buf.Write(vb)
	}
	if len(keys) > 0 {
		buf.WriteString("\n")
	}
	buf.WriteString("}\n")
	return nil
}
