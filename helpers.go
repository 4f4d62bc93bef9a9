package quill

import (
	"net/url"
	"path"
	"strings"

	slug "github.com/goliatone/go-slug"
)

// Slugify converts a title to a URL-safe slug. An empty string comes
// back when nothing slug-worthy remains.
func Slugify(s string) string {
	normalized, err := slug.Normalize(s)
	if err != nil {
		return ""
	}
	return normalized
}

// BuildURL joins a base URL with path segments, ensuring a trailing
// slash on routed paths.
func BuildURL(base string, pathSegments ...string) string {
	u, err := url.Parse(base)
	if err != nil {
		return base
	}
	u.Path = path.Join(u.Path, path.Join(pathSegments...))
	if len(pathSegments) > 0 && !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	return u.String()
}

// FilterEmpty removes empty/whitespace-only strings from a slice and
// trims the rest.
func FilterEmpty(vals []string) []string {
	var out []string
	for _, v := range vals {
		if s := strings.TrimSpace(v); s != "" {
			out = append(out, s)
		}
	}
	return out
}
