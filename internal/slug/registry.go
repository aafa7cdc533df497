package slug

import "fmt"

// Reserved slugs belong to aggregate pages. The empty slug is the homepage.
var Reserved = []string{"", "posts", "about"}

// Registry tracks which source claimed each slug. It is not safe for
// concurrent use; claims happen after all posts are compiled.
type Registry struct {
	owners map[string]string
}

// NewRegistry returns a registry with the reserved slugs already taken.
func NewRegistry() *Registry {
	r := &Registry{owners: make(map[string]string, 16)}
	for _, s := range Reserved {
		r.owners[s] = "(reserved)"
	}
	return r
}

// Claim records source as the owner of slug. A second claim fails with an
// error wrapping ErrDuplicateSlug that names both sources.
func (r *Registry) Claim(slug, source string) error {
	if prev, ok := r.owners[slug]; ok {
		return fmt.Errorf("%w %q: %s conflicts with %s", ErrDuplicateSlug, slug, source, prev)
	}
	r.owners[slug] = source
	return nil
}

// Owner returns the source that claimed slug.
func (r *Registry) Owner(slug string) (string, bool) {
	s, ok := r.owners[slug]
	return s, ok
}

// Len counts claimed slugs including the reserved ones.
func (r *Registry) Len() int { return len(r.owners) }
