package content

import (
	"sort"
	"strconv"
	"strings"
)

const seriesPrefix = "series:"

// ParseSeriesTag interprets a tag of the form "series:<name>:<n>".
// Tags missing the prefix, the name, or a non-negative integer index are
// not series tags and fall back to being plain tags.
func ParseSeriesTag(tag string) (SeriesRef, bool) {
	rest, ok := strings.CutPrefix(strings.TrimSpace(tag), seriesPrefix)
	if !ok {
		return SeriesRef{}, false
	}
	name, index, ok := strings.Cut(rest, ":")
	if !ok {
		return SeriesRef{}, false
	}
	name = strings.TrimSpace(name)
	n, err := strconv.Atoi(strings.TrimSpace(index))
	if err != nil || name == "" || n < 0 {
		return SeriesRef{}, false
	}
	return SeriesRef{Name: strings.ToLower(name), Index: n}, true
}

// IsSeriesTag reports whether tag is a well-formed series tag.
func IsSeriesTag(tag string) bool {
	_, ok := ParseSeriesTag(tag)
	return ok
}

// PublicTags returns the tags meant for display and filtering: trimmed,
// with well-formed series tags removed. Order is preserved.
func PublicTags(tags []string) []string {
	var out []string
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" || IsSeriesTag(t) {
			continue
		}
		out = append(out, t)
	}
	return out
}

// SortSeries orders the given documents by their series index, breaking
// ties by publish date. Documents without a series ref keep their
// relative position at the end.
func SortSeries(docs []*Document) {
	sort.SliceStable(docs, func(i, j int) bool {
		a, b := docs[i].Frontmatter.Series(), docs[j].Frontmatter.Series()
		switch {
		case a == nil && b == nil:
			return false
		case a == nil:
			return false
		case b == nil:
			return true
		case a.Index != b.Index:
			return a.Index < b.Index
		default:
			return docs[i].Frontmatter.PublishDate.Before(docs[j].Frontmatter.PublishDate)
		}
	})
}
