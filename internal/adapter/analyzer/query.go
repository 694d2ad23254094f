package analyzer

import (
	"fmt"
	"strings"

	"github.com/google/shlex"

	"romdex/internal/domain"
)

// TagResolver maps a canonical tag or a short code to its canonical tag.
type TagResolver interface {
	Resolve(ref string) (string, bool)
}

// TagSuggester offers a close match for a reference that did not resolve.
type TagSuggester interface {
	Suggest(ref string) (string, bool)
}

// SplitQuery splits a raw query line into shell words, so quoted
// substrings become single tokens.
func SplitQuery(line string) ([]string, error) {
	tokens, err := shlex.Split(line)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMalformedQuery, err)
	}
	return tokens, nil
}

// ParseQuery turns query tokens into a title term and tag filters.
// "+tag" includes, "-tag" excludes, and at most one bare token is the title.
// Any token that cannot be resolved fails the whole query. When tags is also
// a TagSuggester the error names the closest known reference.
func ParseQuery(tokens []string, tags TagResolver) (domain.Query, error) {
	var q domain.Query
	hasTitle := false

	for _, tok := range tokens {
		switch {
		case strings.HasPrefix(tok, "+"), strings.HasPrefix(tok, "-"):
			tag, ok := tags.Resolve(tok[1:])
			if !ok {
				return domain.Query{}, unknownTag(tok, tags)
			}
			if tok[0] == '+' {
				q.Include = appendUnique(q.Include, tag)
			} else {
				q.Exclude = appendUnique(q.Exclude, tag)
			}
		default:
			if hasTitle {
				return domain.Query{}, fmt.Errorf("%w: more than one title term (%q and %q)", domain.ErrMalformedQuery, q.Title, tok)
			}
			q.Title = tok
			hasTitle = true
		}
	}

	return q, nil
}

func unknownTag(tok string, tags TagResolver) error {
	if s, ok := tags.(TagSuggester); ok {
		if hint, ok := s.Suggest(tok[1:]); ok {
			return fmt.Errorf("%w: %q, did you mean %q?", domain.ErrUnknownTag, tok, tok[:1]+hint)
		}
	}
	return fmt.Errorf("%w: %q", domain.ErrUnknownTag, tok)
}

// ParseQueryLine splits and parses a raw query line.
func ParseQueryLine(line string, tags TagResolver) (domain.Query, error) {
	tokens, err := SplitQuery(line)
	if err != nil {
		return domain.Query{}, err
	}
	return ParseQuery(tokens, tags)
}

func appendUnique(list []string, s string) []string {
	for _, v := range list {
		if v == s {
			return list
		}
	}
	return append(list, s)
}
