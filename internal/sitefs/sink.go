package sitefs

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"git.home.luguber.info/inful/blogbuilder/internal/foundation/errors"
)

// DirSink writes generated files below a root directory.
type DirSink struct {
	root string
}

// NewDirSink returns a sink rooted at dir.
func NewDirSink(dir string) *DirSink { return &DirSink{root: dir} }

// Root returns the directory files are written into.
func (s *DirSink) Root() string { return s.root }

// Write stores data at relPath (slash separated) below the root, creating
// parent directories. Paths escaping the root are rejected.
func (s *DirSink) Write(ctx context.Context, relPath string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	local := filepath.FromSlash(relPath)
	if !filepath.IsLocal(local) {
		return errors.ValidationError("output path escapes output directory").
			WithContext("path", relPath).
			Build()
	}
	dst := filepath.Join(s.root, local)
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return writeError(relPath, err)
	}
	if err := os.WriteFile(dst, data, 0o644); err != nil {
		return writeError(relPath, err)
	}
	return nil
}

func writeError(relPath string, err error) error {
	return errors.FileSystemError("failed to write output").WithCause(fmt.Errorf("write %s: %w", relPath, err)).
		WithContext("path", relPath).
		Build()
}
