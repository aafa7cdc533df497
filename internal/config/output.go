package config

import (
	"os"
	"path/filepath"

	"git.home.luguber.info/inful/blogbuilder/internal/foundation/errors"
)

// CheckOutputDir rejects an output directory that a build would destroy
// inputs through. Builds clear the output directory and its "_stage" and
// ".prev" siblings, so none of them may be, or contain, the working
// directory, the content or static directory, or a template file.
func (c *Config) CheckOutputDir(outputDir string) error {
	wd, err := os.Getwd()
	if err != nil {
		return errors.ConfigError("cannot determine working directory").WithCause(err).Build()
	}

	inputs := []struct{ key, path string }{
		{"working directory", wd},
		{"content.dir", c.Content.Dir},
		{"static.dir", c.Static.Dir},
		{"templates.layout", c.Templates.Layout},
		{"templates.header", c.Templates.Header},
		{"templates.footer", c.Templates.Footer},
	}

	out := resolvePath(outputDir)
	for _, cleared := range []string{out, out + "_stage", out + ".prev"} {
		for _, in := range inputs {
			if in.path == "" {
				continue
			}
			if within(resolvePath(in.path), cleared) {
				return errors.ConfigError("output directory overlaps an input").
					WithContext("path", outputDir).
					WithContext("key", in.key).
					WithContext("input", in.path).
					Build()
			}
		}
	}
	return nil
}

// resolvePath returns p as an absolute path with symlinks resolved in the
// longest prefix that exists.
func resolvePath(p string) string {
	abs, err := filepath.Abs(p)
	if err != nil {
		return filepath.Clean(p)
	}
	rest := ""
	for cur := abs; ; {
		if resolved, err := filepath.EvalSymlinks(cur); err == nil {
			return filepath.Join(resolved, rest)
		}
		parent := filepath.Dir(cur)
		if parent == cur {
			return abs
		}
		rest = filepath.Join(filepath.Base(cur), rest)
		cur = parent
	}
}

// within reports whether p is dir or lies below it.
func within(p, dir string) bool {
	rel, err := filepath.Rel(dir, p)
	if err != nil {
		return false
	}
	return rel == "." || filepath.IsLocal(rel)
}
