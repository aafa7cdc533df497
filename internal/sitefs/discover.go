package sitefs

import (
	"context"
	"io/fs"
	"path"
	"slices"
	"strings"

	"git.home.luguber.info/inful/blogbuilder/internal/docmodel"
	"git.home.luguber.info/inful/blogbuilder/internal/foundation/errors"
)

// Discover reads every markdown file below the root of fsys. Hidden files
// and directories are skipped. Documents are returned sorted by path so
// builds are deterministic.
func Discover(ctx context.Context, fsys fs.FS) ([]docmodel.Document, error) {
	var paths []string
	err := fs.WalkDir(fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if p != "." && strings.HasPrefix(d.Name(), ".") {
			if d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() || !isMarkdown(p) {
			return nil
		}
		paths = append(paths, p)
		return nil
	})
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, errors.FileSystemError("content discovery failed").WithCause(err).Build()
	}

	slices.Sort(paths)
	docs := make([]docmodel.Document, 0, len(paths))
	for _, p := range paths {
		doc, err := docmodel.ReadFile(fsys, p)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

func isMarkdown(p string) bool {
	return strings.EqualFold(path.Ext(p), ".md")
}
