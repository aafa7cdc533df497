package templates

import (
	"io/fs"

	"git.home.luguber.info/inful/blogbuilder/internal/foundation/errors"
)

// Paths locates the three template files inside a filesystem.
type Paths struct {
	Layout string
	Header string
	Footer string
}

// Load reads the layout and partials from fsys. A missing file is a fatal
// template error naming the path.
func Load(fsys fs.FS, paths Paths) (Templates, error) {
	var tpl Templates
	for _, f := range []struct {
		path string
		dst  *string
	}{
		{paths.Layout, &tpl.Layout},
		{paths.Header, &tpl.Header},
		{paths.Footer, &tpl.Footer},
	} {
		b, err := fs.ReadFile(fsys, f.path)
		if err != nil {
			return Templates{}, errors.TemplateError("failed to read template").WithCause(err).
				WithContext("path", f.path).
				Build()
		}
		*f.dst = string(b)
	}
	return tpl, nil
}
