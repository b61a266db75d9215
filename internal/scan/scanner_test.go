package scan

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFiles(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatalf("failed to create dir for %s: %v", name, err)
		}
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatalf("failed to create test file %s: %v", name, err)
		}
	}
}

func TestDetectLanguage(t *testing.T) {
	cases := map[string]string{
		"main.go":      LangGo,
		"App.java":     LangJava,
		"index.js":     LangJavaScript,
		"app.tsx":      LangTypeScript,
		"util.py":      LangPython,
		"lib.rs":       LangRust,
		"README.md":    "",
		"Makefile":     "",
		"style.CSS":    "",
		"UPPER.GO":     LangGo,
		"noextension":  "",
		"archive.tar":  "",
		"module.d.ts":  LangTypeScript,
		"script.mjs":   LangJavaScript,
		"test_util.py": LangPython,
	}

	for path, want := range cases {
		if got := DetectLanguage(path); got != want {
			t.Errorf("DetectLanguage(%q) = %q, want %q", path, got, want)
		}
	}
}

func TestIsTestFile(t *testing.T) {
	cases := map[string]bool{
		"foo_test.go":     true,
		"foo.go":          false,
		"test_bar.py":     true,
		"bar.py":          false,
		"WidgetTest.java": true,
		"Widget.java":     false,
		"app.test.ts":     true,
		"app.ts":          false,
	}
	for path, want := range cases {
		if got := IsTestFile(path); got != want {
			t.Errorf("IsTestFile(%q) = %v, want %v", path, got, want)
		}
	}
}

func TestScanWorkspace(t *testing.T) {
	tmpDir := t.TempDir()
	writeFiles(t, tmpDir, map[string]string{
		"main.go":            "package main\nfunc main() {}",
		"main_test.go":       "package main",
		"sub/App.java":       "class App {}",
		"README.md":          "# readme",
		".git/config":        "ignored",
		"vendor/x.go":        "package x",
		"node_modules/a.js":  "ignored",
		".github/ci.yaml.go": "package ci", // hidden but allowed dir
	})

	s := NewScanner([]string{"vendor", "node_modules"})
	result, err := s.ScanWorkspace(tmpDir)
	if err != nil {
		t.Fatalf("ScanWorkspace() error = %v", err)
	}

	if len(result.Files) != 4 {
		var paths []string
		for _, f := range result.Files {
			paths = append(paths, f.Path)
		}
		t.Fatalf("ScanWorkspace() returned %d files, want 4: %v", len(result.Files), paths)
	}

	if result.Languages[LangGo] != 3 {
		t.Errorf("go file count = %d, want 3", result.Languages[LangGo])
	}
	if result.Languages[LangJava] != 1 {
		t.Errorf("java file count = %d, want 1", result.Languages[LangJava])
	}
	if result.Skipped == 0 {
		t.Error("README.md should be counted as skipped")
	}

	for _, f := range result.Files {
		if f.Hash == "" {
			t.Errorf("file %s has empty hash", f.Path)
		}
		if filepath.Base(f.Path) == "main_test.go" && !f.IsTest {
			t.Error("main_test.go not flagged as test file")
		}
	}
}

func TestScanWorkspaceCacheHit(t *testing.T) {
	tmpDir := t.TempDir()
	writeFiles(t, tmpDir, map[string]string{"main.go": "package main"})

	s := NewScanner(nil)
	first, err := s.ScanWorkspace(tmpDir)
	if err != nil {
		t.Fatalf("first scan error = %v", err)
	}

	// Second scan should serve the hash from the manifest cache and agree.
	second, err := s.ScanWorkspace(tmpDir)
	if err != nil {
		t.Fatalf("second scan error = %v", err)
	}

	if first.Files[0].Hash != second.Files[0].Hash {
		t.Errorf("cache returned different hash: %s vs %s", first.Files[0].Hash, second.Files[0].Hash)
	}

	if _, err := os.Stat(filepath.Join(tmpDir, ".docstyle", "cache", "manifest.json")); err != nil {
		t.Errorf("manifest cache not written: %v", err)
	}
}

func TestScanPathsMixed(t *testing.T) {
	tmpDir := t.TempDir()
	writeFiles(t, tmpDir, map[string]string{
		"a.go":     "package a",
		"dir/b.py": "x = 1",
	})

	s := NewScanner(nil)
	result, err := s.ScanPaths([]string{
		filepath.Join(tmpDir, "a.go"),
		filepath.Join(tmpDir, "dir"),
	})
	if err != nil {
		t.Fatalf("ScanPaths() error = %v", err)
	}

	if len(result.Files) != 2 {
		t.Fatalf("ScanPaths() returned %d files, want 2", len(result.Files))
	}
}

func TestScanPathsMissing(t *testing.T) {
	s := NewScanner(nil)
	if _, err := s.ScanPaths([]string{"/does/not/exist"}); err == nil {
		t.Fatal("expected error for missing path")
	}
}

func TestFileCacheRoundTrip(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "f.go")
	if err := os.WriteFile(path, []byte("package f"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	info, _ := os.Stat(path)

	cache := NewFileCache(tmpDir)
	if _, hit := cache.Get(path, info); hit {
		t.Error("fresh cache should miss")
	}

	cache.Update(path, info, "abc123")
	if err := cache.Save(); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	reloaded := NewFileCache(tmpDir)
	hash, hit := reloaded.Get(path, info)
	if !hit || hash != "abc123" {
		t.Errorf("reloaded cache Get = (%q, %v), want (abc123, true)", hash, hit)
	}

	// A content change must invalidate the entry.
	if err := os.WriteFile(path, []byte("package f // changed now"), 0644); err != nil {
		t.Fatalf("rewrite: %v", err)
	}
	newInfo, _ := os.Stat(path)
	if _, hit := reloaded.Get(path, newInfo); hit && newInfo.Size() != info.Size() {
		t.Error("cache hit despite size change")
	}
}
