package taxonomy

import (
	"fmt"
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"romdex/internal/domain"
)

// maxSuggestDistance bounds how many edits a reference may be from a
// suggestion.
const maxSuggestDistance = 2

// Category is a named, ordered group of canonical tags.
type Category struct {
	Name string
	Tags []string
}

// ShortCode maps an abbreviation to a canonical tag.
type ShortCode struct {
	Code string
	Tag  string
}

// Taxonomy is the validated set of recognized tags. It is immutable once
// constructed.
type Taxonomy struct {
	categories []Category
	tagCat     map[string]string
	codes      []ShortCode
	codeTag    map[string]string
	tagCode    map[string]string
}

// New validates categories and short codes and builds a Taxonomy.
// A tag may belong to one category only, a short code may appear once,
// and every short code must name a known tag.
func New(categories []Category, codes []ShortCode) (*Taxonomy, error) {
	t := &Taxonomy{
		tagCat:  make(map[string]string),
		codeTag: make(map[string]string, len(codes)),
		tagCode: make(map[string]string, len(codes)),
	}

	seenCat := make(map[string]struct{}, len(categories))
	for _, c := range categories {
		if c.Name == "" {
			return nil, fmt.Errorf("%w: empty category name", domain.ErrInvalidTaxonomy)
		}
		if _, dup := seenCat[c.Name]; dup {
			return nil, fmt.Errorf("%w: category %q listed twice", domain.ErrInvalidTaxonomy, c.Name)
		}
		seenCat[c.Name] = struct{}{}

		tags := make([]string, 0, len(c.Tags))
		for _, tag := range c.Tags {
			if tag == "" {
				return nil, fmt.Errorf("%w: empty tag in category %q", domain.ErrInvalidTaxonomy, c.Name)
			}
			if other, dup := t.tagCat[tag]; dup {
				return nil, fmt.Errorf("%w: tag %q listed under both %q and %q", domain.ErrInvalidTaxonomy, tag, other, c.Name)
			}
			t.tagCat[tag] = c.Name
			tags = append(tags, tag)
		}
		t.categories = append(t.categories, Category{Name: c.Name, Tags: tags})
	}

	for _, sc := range codes {
		if sc.Code == "" {
			return nil, fmt.Errorf("%w: empty short code for %q", domain.ErrInvalidTaxonomy, sc.Tag)
		}
		if prev, dup := t.codeTag[sc.Code]; dup {
			return nil, fmt.Errorf("%w: short code %q maps to both %q and %q", domain.ErrInvalidTaxonomy, sc.Code, prev, sc.Tag)
		}
		if _, ok := t.tagCat[sc.Tag]; !ok {
			return nil, fmt.Errorf("%w: short code %q names unknown tag %q", domain.ErrInvalidTaxonomy, sc.Code, sc.Tag)
		}
		if prev, dup := t.tagCode[sc.Tag]; dup {
			return nil, fmt.Errorf("%w: tag %q has short codes %q and %q", domain.ErrInvalidTaxonomy, sc.Tag, prev, sc.Code)
		}
		t.codeTag[sc.Code] = sc.Tag
		t.tagCode[sc.Tag] = sc.Code
		t.codes = append(t.codes, sc)
	}

	return t, nil
}

// Has reports whether tag is a canonical tag.
func (t *Taxonomy) Has(tag string) bool {
	_, ok := t.tagCat[tag]
	return ok
}

// Resolve maps a canonical tag or a short code to its canonical tag.
func (t *Taxonomy) Resolve(ref string) (string, bool) {
	if t.Has(ref) {
		return ref, true
	}
	tag, ok := t.codeTag[ref]
	return tag, ok
}

// CategoryOf returns the category a canonical tag belongs to.
func (t *Taxonomy) CategoryOf(tag string) (string, bool) {
	c, ok := t.tagCat[tag]
	return c, ok
}

// CodeFor returns the short code of a canonical tag, if it has one.
func (t *Taxonomy) CodeFor(tag string) (string, bool) {
	c, ok := t.tagCode[tag]
	return c, ok
}

// Categories returns the categories in their declared order.
func (t *Taxonomy) Categories() []Category {
	out := make([]Category, len(t.categories))
	for i, c := range t.categories {
		out[i] = Category{Name: c.Name, Tags: append([]string(nil), c.Tags...)}
	}
	return out
}

// ShortCodes returns the short codes in their declared order.
func (t *Taxonomy) ShortCodes() []ShortCode {
	return append([]ShortCode(nil), t.codes...)
}

// Tags returns the flat set of canonical tags, sorted.
func (t *Taxonomy) Tags() []string {
	out := make([]string, 0, len(t.tagCat))
	for tag := range t.tagCat {
		out = append(out, tag)
	}
	sort.Strings(out)
	return out
}

// Suggest returns the short code or canonical tag closest to ref, ignoring
// case, when it is at most maxSuggestDistance edits away and fewer edits
// than ref is long. Short codes win ties.
func (t *Taxonomy) Suggest(ref string) (string, bool) {
	needle := strings.ToLower(ref)
	if needle == "" {
		return "", false
	}

	candidates := make([]string, 0, len(t.codes)+len(t.tagCat))
	for _, sc := range t.codes {
		candidates = append(candidates, sc.Code)
	}
	candidates = append(candidates, t.Tags()...)

	best, bestDist := "", maxSuggestDistance+1
	for _, c := range candidates {
		d := fuzzy.LevenshteinDistance(needle, strings.ToLower(c))
		if d < bestDist && d < len([]rune(needle)) {
			best, bestDist = c, d
		}
	}
	return best, best != ""
}
