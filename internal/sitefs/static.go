package sitefs

import (
	"context"
	stderrors "errors"
	"io/fs"
	"log/slog"
	"os"

	"git.home.luguber.info/inful/blogbuilder/internal/foundation/errors"
	"git.home.luguber.info/inful/blogbuilder/internal/logfields"
)

// CopyStatic copies the static asset directory src into dst, which must not
// contain any of the copied files yet. A missing src is not an error.
func CopyStatic(ctx context.Context, src, dst string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	info, err := os.Stat(src)
	switch {
	case stderrors.Is(err, fs.ErrNotExist):
		slog.Debug("No static directory, skipping asset copy", logfields.Path(src))
		return false, nil
	case err != nil:
		return false, staticError(src, err)
	case !info.IsDir():
		return false, errors.ConfigError("static path is not a directory").
			WithContext("path", src).
			Build()
	}
	if err := os.CopyFS(dst, os.DirFS(src)); err != nil {
		return false, staticError(src, err)
	}
	return true, nil
}

func staticError(src string, err error) error {
	return errors.FileSystemError("failed to copy static assets").WithCause(err).
		WithContext("path", src).
		Build()
}
