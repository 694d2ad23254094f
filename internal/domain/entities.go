package domain

import (
	"sort"
	"time"
)

// GameEntry is one cataloged archive file.
type GameEntry struct {
	Filename string
	URL      string
	Title    string
	Tags     []string
}

// HasTag reports whether the entry carries tag.
func (e GameEntry) HasTag(tag string) bool {
	i := sort.SearchStrings(e.Tags, tag)
	return i < len(e.Tags) && e.Tags[i] == tag
}

// Index maps filenames to entries. Keys iterate in lexicographic order.
// An Index is never modified after NewIndex returns.
type Index struct {
	entries map[string]GameEntry
	keys    []string
}

// NewIndex builds an index from entries. A later entry with the same
// filename replaces an earlier one.
func NewIndex(entries []GameEntry) *Index {
	idx := &Index{entries: make(map[string]GameEntry, len(entries))}
	for _, e := range entries {
		tags := make([]string, len(e.Tags))
		copy(tags, e.Tags)
		sort.Strings(tags)
		e.Tags = tags
		idx.entries[e.Filename] = e
	}
	idx.keys = make([]string, 0, len(idx.entries))
	for k := range idx.entries {
		idx.keys = append(idx.keys, k)
	}
	sort.Strings(idx.keys)
	return idx
}

// Len returns the number of entries.
func (x *Index) Len() int {
	if x == nil {
		return 0
	}
	return len(x.keys)
}

// Keys returns the filenames in lexicographic order. The slice is shared;
// callers must not modify it.
func (x *Index) Keys() []string {
	if x == nil {
		return nil
	}
	return x.keys
}

// Get returns the entry for filename.
func (x *Index) Get(filename string) (GameEntry, bool) {
	if x == nil {
		return GameEntry{}, false
	}
	e, ok := x.entries[filename]
	return e, ok
}

// Entries returns all entries in key order.
func (x *Index) Entries() []GameEntry {
	out := make([]GameEntry, 0, x.Len())
	for _, k := range x.Keys() {
		out = append(out, x.entries[k])
	}
	return out
}

// Query is a parsed search request. An empty Title matches every title.
type Query struct {
	Title   string
	Include []string
	Exclude []string
}

// ProbeResult is the outcome of checking one listing candidate.
type ProbeResult struct {
	Index    int // position in the listing
	Href     string
	Filename string
	URL      string
	Status   int
	Err      error
}

// DownloadResult is the outcome of one file in a batch download.
type DownloadResult struct {
	Index    int // position in the batch
	Filename string
	URL      string
	Path     string
	Bytes    int64
	Err      error
}

// BuildRecord describes one completed index build.
type BuildRecord struct {
	Platform   string    `json:"platform"`
	Source     string    `json:"source"`
	Candidates int       `json:"candidates"`
	Indexed    int       `json:"indexed"`
	Skipped    int       `json:"skipped"`
	BuiltAt    time.Time `json:"built_at"`
}

// DownloadRecord describes one finished download attempt.
type DownloadRecord struct {
	Platform   string    `json:"platform"`
	Filename   string    `json:"filename"`
	URL        string    `json:"url"`
	Path       string    `json:"path,omitempty"`
	Bytes      int64     `json:"bytes"`
	Error      string    `json:"error,omitempty"`
	FinishedAt time.Time `json:"finished_at"`
}

// Match is a search hit. Score is 0-100; title-less searches score 0.
type Match struct {
	Filename string `json:"filename"`
	Score    int    `json:"score"`
}
