package workspace

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"git.home.luguber.info/inful/blogbuilder/internal/logfields"
)

// Manager owns the output directory for a single build.
type Manager struct {
	outputDir string
	staging   bool
	workDir   string
}

// NewManager returns a manager for outputDir.
func NewManager(outputDir string, staging bool) *Manager {
	return &Manager{outputDir: filepath.Clean(outputDir), staging: staging}
}

// OutputDir is the final location of the generated site.
func (m *Manager) OutputDir() string { return m.outputDir }

// StageDir is where a staged build is written before promotion.
func (m *Manager) StageDir() string { return m.outputDir + "_stage" }

// GetPath returns the directory the current build writes into, or "" before
// Begin.
func (m *Manager) GetPath() string { return m.workDir }

// Begin prepares a clean directory to write into and returns its path.
func (m *Manager) Begin() (string, error) {
	dir := m.outputDir
	if m.staging {
		dir = m.StageDir()
	}
	if err := os.RemoveAll(dir); err != nil {
		return "", fmt.Errorf("clear %s: %w", dir, err)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create %s: %w", dir, err)
	}
	m.workDir = dir
	slog.Debug("Prepared build directory", logfields.Path(dir), slog.Bool("staging", m.staging))
	return dir, nil
}

// Commit makes the written output final. For staged builds the stage
// directory replaces the output directory.
func (m *Manager) Commit() error {
	if m.workDir == "" {
		return errors.New("workspace not started")
	}
	if !m.staging {
		m.workDir = ""
		return nil
	}
	if _, err := os.Stat(m.workDir); err != nil {
		return fmt.Errorf("staging directory missing: %w", err)
	}

	prev := m.outputDir + ".prev"
	if err := removeAllRetry(prev); err != nil {
		slog.Warn("Failed to remove previous backup", logfields.Path(prev), logfields.Error(err))
	}
	if _, err := os.Stat(m.outputDir); err == nil {
		if err := os.Rename(m.outputDir, prev); err != nil {
			return fmt.Errorf("backup existing output: %w", err)
		}
	}
	if err := os.Rename(m.workDir, m.outputDir); err != nil {
		return fmt.Errorf("promote staging: %w", err)
	}
	m.workDir = ""
	if err := os.RemoveAll(prev); err != nil {
		slog.Warn("Failed to remove previous backup", logfields.Path(prev), logfields.Error(err))
	}
	slog.Debug("Promoted staging directory", logfields.Output(m.outputDir))
	return nil
}

// Abort discards a staged build. Unstaged output is left as written.
func (m *Manager) Abort() {
	if m.workDir == "" {
		return
	}
	dir := m.workDir
	m.workDir = ""
	if !m.staging {
		return
	}
	if err := os.RemoveAll(dir); err != nil {
		slog.Warn("Failed to remove staging directory after abort", logfields.Path(dir), logfields.Error(err))
		return
	}
	slog.Debug("Removed staging directory after abort", logfields.Path(dir))
}

// removeAllRetry removes path, retrying briefly and fixing permissions on
// entries that refuse deletion.
func removeAllRetry(path string) error {
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	var err error
	for i := range 3 {
		if err = os.RemoveAll(path); err == nil {
			return nil
		}
		if i < 2 {
			time.Sleep(100 * time.Millisecond)
		}
	}
	_ = filepath.WalkDir(path, func(p string, _ fs.DirEntry, walkErr error) error {
		if walkErr == nil {
			_ = os.Chmod(p, 0o755)
		}
		return nil
	})
	return os.RemoveAll(path)
}
