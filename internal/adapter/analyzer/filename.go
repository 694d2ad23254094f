package analyzer

import (
	"path/filepath"
	"regexp"
	"sort"
	"strings"
)

// BIOSTag is added to any filename carrying the [BIOS] marker, whether or
// not the taxonomy lists it.
const BIOSTag = "BIOS"

const biosMarker = "[BIOS]"

var groupPattern = regexp.MustCompile(`\((.*?)\)`)

// TagSet answers membership of canonical tags.
type TagSet interface {
	Has(tag string) bool
}

// ParseFilename splits a No-Intro style filename such as
// "Kagaku (Gensokigou Master) (Japan) (SC-3000).zip" into its title and
// sorted tags. Parenthesized groups that are not recognized tags belong to
// the title; if several such groups exist the last one decides where the
// title ends.
func ParseFilename(filename string, known TagSet) (string, []string) {
	var tags []string
	title := ""
	hasSubtitle := false

	for _, m := range groupPattern.FindAllStringSubmatch(filename, -1) {
		group := m[1]
		switch {
		case strings.Contains(group, ","):
			// Unrecognized members of a comma group are dropped.
			for _, part := range strings.Split(group, ", ") {
				if known.Has(part) {
					tags = append(tags, part)
				}
			}
		case known.Has(group):
			tags = append(tags, group)
		default:
			subtitle := "(" + group + ")"
			end := strings.Index(filename, subtitle) + len(subtitle)
			title = filename[:end]
			hasSubtitle = true
		}
	}

	if strings.Contains(filename, biosMarker) {
		tags = append(tags, BIOSTag)
	}

	tags = sortUnique(tags)

	if hasSubtitle {
		return title, tags
	}
	return baseTitle(filename), tags
}

// baseTitle is everything before the first group, minus the separator
// that introduces it.
func baseTitle(filename string) string {
	i := strings.IndexByte(filename, '(')
	if i < 0 {
		return strings.TrimSuffix(filename, filepath.Ext(filename))
	}
	title := filename[:i]
	if n := len(title); n > 0 && (title[n-1] == ' ' || title[n-1] == '\t') {
		title = title[:n-1]
	}
	return title
}

func sortUnique(tags []string) []string {
	if len(tags) == 0 {
		return []string{}
	}
	sort.Strings(tags)
	out := tags[:1]
	for _, t := range tags[1:] {
		if t != out[len(out)-1] {
			out = append(out, t)
		}
	}
	return out
}
