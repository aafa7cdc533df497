package workspace

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return string(b)
}

func TestManager_StagedCommitReplacesOutput(t *testing.T) {
	out := filepath.Join(t.TempDir(), "dist")
	writeFile(t, filepath.Join(out, "old.html"), "old")

	mgr := NewManager(out, true)
	dir, err := mgr.Begin()
	if err != nil {
		t.Fatalf("Begin() failed: %v", err)
	}
	if dir != out+"_stage" {
		t.Fatalf("expected stage dir, got %s", dir)
	}
	if mgr.GetPath() != dir {
		t.Errorf("GetPath() = %s, want %s", mgr.GetPath(), dir)
	}
	writeFile(t, filepath.Join(dir, "index.html"), "new")

	if got := readFile(t, filepath.Join(out, "old.html")); got != "old" {
		t.Errorf("output touched before commit: %q", got)
	}

	if err := mgr.Commit(); err != nil {
		t.Fatalf("Commit() failed: %v", err)
	}
	if got := readFile(t, filepath.Join(out, "index.html")); got != "new" {
		t.Errorf("index.html = %q", got)
	}
	if _, err := os.Stat(filepath.Join(out, "old.html")); !os.IsNotExist(err) {
		t.Errorf("stale file survived commit")
	}
	for _, gone := range []string{out + "_stage", out + ".prev"} {
		if _, err := os.Stat(gone); !os.IsNotExist(err) {
			t.Errorf("%s still exists after commit", gone)
		}
	}
	if mgr.GetPath() != "" {
		t.Errorf("GetPath() should be empty after commit")
	}
}

func TestManager_StagedAbortKeepsPreviousOutput(t *testing.T) {
	out := filepath.Join(t.TempDir(), "dist")
	writeFile(t, filepath.Join(out, "index.html"), "previous")

	mgr := NewManager(out, true)
	dir, err := mgr.Begin()
	if err != nil {
		t.Fatalf("Begin() failed: %v", err)
	}
	writeFile(t, filepath.Join(dir, "index.html"), "partial")

	mgr.Abort()

	if got := readFile(t, filepath.Join(out, "index.html")); got != "previous" {
		t.Errorf("previous output changed: %q", got)
	}
	if _, err := os.Stat(dir); !os.IsNotExist(err) {
		t.Errorf("stage dir not removed: %s", dir)
	}
	mgr.Abort() // second abort is a no-op
}

func TestManager_BeginClearsLeftoverStage(t *testing.T) {
	out := filepath.Join(t.TempDir(), "dist")
	writeFile(t, filepath.Join(out+"_stage", "junk.html"), "junk")

	mgr := NewManager(out, true)
	dir, err := mgr.Begin()
	if err != nil {
		t.Fatalf("Begin() failed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "junk.html")); !os.IsNotExist(err) {
		t.Errorf("leftover stage content survived Begin")
	}
}

func TestManager_Unstaged(t *testing.T) {
	out := filepath.Join(t.TempDir(), "dist")
	writeFile(t, filepath.Join(out, "stale.html"), "stale")

	mgr := NewManager(out, false)
	dir, err := mgr.Begin()
	if err != nil {
		t.Fatalf("Begin() failed: %v", err)
	}
	if dir != out {
		t.Fatalf("expected in-place output, got %s", dir)
	}
	if _, err := os.Stat(filepath.Join(out, "stale.html")); !os.IsNotExist(err) {
		t.Errorf("output was not cleared")
	}
	writeFile(t, filepath.Join(dir, "index.html"), "x")
	if err := mgr.Commit(); err != nil {
		t.Fatalf("Commit() failed: %v", err)
	}
	if got := readFile(t, filepath.Join(out, "index.html")); got != "x" {
		t.Errorf("index.html = %q", got)
	}
}

func TestManager_CommitWithoutBegin(t *testing.T) {
	if err := NewManager(t.TempDir(), true).Commit(); err == nil {
		t.Error("expected error committing an unstarted workspace")
	}
}
