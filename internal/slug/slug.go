// Package slug derives URL slugs for posts and the output paths and relative
// prefixes that follow from them.
package slug

import (
	"errors"
	"fmt"
	"path"
	"regexp"
	"strings"
)

var (
	// ErrInvalidSlug is returned for overrides that would escape the output root.
	ErrInvalidSlug = errors.New("invalid slug")
	// ErrDuplicateSlug is returned when two sources resolve to the same slug.
	ErrDuplicateSlug = errors.New("duplicate slug")
)

var unsafeRun = regexp.MustCompile(`[^a-zA-Z0-9/_-]+`)

// FromPath derives a slug from a slash-separated path relative to the content
// root: the extension is dropped, runs of characters outside [a-zA-Z0-9/_-]
// collapse to "-" and the result is lowercased.
func FromPath(relPath string) string {
	p := strings.ReplaceAll(relPath, "\\", "/")
	p = strings.TrimSuffix(p, path.Ext(p))
	return strings.ToLower(unsafeRun.ReplaceAllString(p, "-"))
}

// Resolve returns the override when one is given, after checking that it
// stays inside the output root, and the derived slug otherwise.
func Resolve(relPath, override string) (string, error) {
	if override = strings.TrimSpace(override); override != "" {
		if err := Validate(override); err != nil {
			return "", err
		}
		return override, nil
	}
	s := FromPath(relPath)
	if err := Validate(s); err != nil {
		return "", fmt.Errorf("derived from %s: %w", relPath, err)
	}
	return s, nil
}

// Generated file names a slug must not shadow. A post at "feed.xml" would
// turn the feed into a directory; an "index.html" segment collides with a
// page file.
const (
	feedFile  = "feed.xml"
	indexFile = "index.html"
)

// Validate rejects slugs that are empty, absolute, contain backslashes,
// parent or current directory segments, or empty segments, and slugs that
// would collide with a generated file.
func Validate(s string) error {
	switch {
	case s == "":
		return fmt.Errorf("%w: empty", ErrInvalidSlug)
	case strings.HasPrefix(s, "/"):
		return fmt.Errorf("%w: %q is absolute", ErrInvalidSlug, s)
	case strings.Contains(s, "\\"):
		return fmt.Errorf("%w: %q contains a backslash", ErrInvalidSlug, s)
	}
	segs := strings.Split(s, "/")
	for _, seg := range segs {
		switch seg {
		case "":
			return fmt.Errorf("%w: %q has an empty segment", ErrInvalidSlug, s)
		case ".", "..":
			return fmt.Errorf("%w: %q has a %q segment", ErrInvalidSlug, s, seg)
		case indexFile:
			return fmt.Errorf("%w: %q collides with a generated %s", ErrInvalidSlug, s, indexFile)
		}
	}
	if strings.EqualFold(segs[0], feedFile) {
		return fmt.Errorf("%w: %q collides with the generated %s", ErrInvalidSlug, s, feedFile)
	}
	return nil
}

// Segments counts the path segments of a slug. The root slug has none.
func Segments(s string) int {
	if s == "" {
		return 0
	}
	return strings.Count(s, "/") + 1
}

// Prefix returns the relative path from a page at slug back to the site root.
func Prefix(s string) string {
	return strings.Repeat("../", Segments(s))
}

// OutputPath is the file a page with the given slug is written to.
func OutputPath(s string) string {
	if s == "" {
		return "index.html"
	}
	return s + "/index.html"
}
