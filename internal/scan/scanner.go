// Package scan walks a workspace and inventories the source files to check.
package scan

import (
	"crypto/sha256"
	"encoding/hex"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"docstyle/internal/logging"
)

// File is one source file discovered by the scanner.
type File struct {
	Path     string
	Language string
	Hash     string
	Size     int64
	ModTime  int64
	IsTest   bool
}

// Result summarizes a workspace scan.
type Result struct {
	Files     []File
	Skipped   int            // non-source files
	Languages map[string]int // language -> file count
}

// Scanner handles file system indexing.
type Scanner struct {
	exclude map[string]bool
}

// NewScanner creates a scanner. exclude lists directory names to skip in
// addition to the built-in hidden-directory handling.
func NewScanner(exclude []string) *Scanner {
	ex := make(map[string]bool, len(exclude))
	for _, d := range exclude {
		ex[d] = true
	}
	return &Scanner{exclude: ex}
}

// Hidden configuration directories worth scanning; everything else
// starting with "." is skipped.
var hiddenAllowed = map[string]bool{
	".github":   true,
	".vscode":   false,
	".docstyle": false,
	".git":      false,
}

// ScanWorkspace walks root and returns every supported source file, with
// content hashes served from the manifest cache where possible.
func (s *Scanner) ScanWorkspace(root string) (*Result, error) {
	timer := logging.StartTimer(logging.CategoryScan, "ScanWorkspace")
	defer timer.Stop()

	result := &Result{Languages: make(map[string]int)}
	cache := NewFileCache(root)
	defer cache.Save()

	var mu sync.Mutex
	var wg sync.WaitGroup
	sem := make(chan struct{}, 20) // Limit hashing concurrency

	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			name := info.Name()
			if s.exclude[name] {
				return filepath.SkipDir
			}
			if strings.HasPrefix(name, ".") && name != "." {
				if allow, exists := hiddenAllowed[name]; exists {
					if !allow {
						return filepath.SkipDir
					}
					return nil
				}
				return filepath.SkipDir
			}
			return nil
		}

		lang := DetectLanguage(path)
		if lang == "" {
			mu.Lock()
			result.Skipped++
			mu.Unlock()
			return nil
		}

		wg.Add(1)
		go func(path string, info os.FileInfo) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			var hash string
			cachedHash, hit := cache.Get(path, info)
			if hit {
				hash = cachedHash
			} else {
				h, err := hashFile(path)
				if err != nil {
					logging.Get(logging.CategoryScan).Warn("failed to hash %s: %v", path, err)
					return
				}
				hash = h
				cache.Update(path, info, hash)
			}

			f := File{
				Path:     path,
				Language: lang,
				Hash:     hash,
				Size:     info.Size(),
				ModTime:  info.ModTime().Unix(),
				IsTest:   IsTestFile(path),
			}

			mu.Lock()
			result.Files = append(result.Files, f)
			result.Languages[lang]++
			mu.Unlock()
		}(path, info)

		return nil
	})

	wg.Wait()
	if err != nil {
		return nil, err
	}

	// Walk order is lost to the worker pool; restore it.
	sort.Slice(result.Files, func(i, j int) bool {
		return result.Files[i].Path < result.Files[j].Path
	})

	logging.Scan("workspace scan: %d files, %d skipped", len(result.Files), result.Skipped)
	return result, nil
}

// ScanPaths resolves an explicit path list: directories are scanned
// recursively, files are taken as-is when supported.
func (s *Scanner) ScanPaths(paths []string) (*Result, error) {
	combined := &Result{Languages: make(map[string]int)}

	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, err
		}

		if info.IsDir() {
			r, err := s.ScanWorkspace(p)
			if err != nil {
				return nil, err
			}
			combined.Files = append(combined.Files, r.Files...)
			combined.Skipped += r.Skipped
			for lang, n := range r.Languages {
				combined.Languages[lang] += n
			}
			continue
		}

		lang := DetectLanguage(p)
		if lang == "" {
			combined.Skipped++
			continue
		}
		hash, err := hashFile(p)
		if err != nil {
			return nil, err
		}
		combined.Files = append(combined.Files, File{
			Path:     p,
			Language: lang,
			Hash:     hash,
			Size:     info.Size(),
			ModTime:  info.ModTime().Unix(),
			IsTest:   IsTestFile(p),
		})
		combined.Languages[lang]++
	}

	sort.Slice(combined.Files, func(i, j int) bool {
		return combined.Files[i].Path < combined.Files[j].Path
	})
	return combined, nil
}

func hashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}

	return hex.EncodeToString(h.Sum(nil)), nil
}
