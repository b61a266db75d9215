package checker

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"docstyle/internal/diag"
	"docstyle/internal/guide"
)

// resultEntry is the cached outcome of checking one file.
type resultEntry struct {
	Hash        string            `json:"hash"`
	Diagnostics []diag.Diagnostic `json:"diagnostics,omitempty"`
}

// resultManifest is the on-disk shape of the result cache.
type resultManifest struct {
	GuideSum string                 `json:"guide_sum"`
	Entries  map[string]resultEntry `json:"entries"`
}

// resultCache stores per-file diagnostics keyed by content hash so a workspace
// run can skip re-parsing files that have not changed since the previous run.
// The whole cache is invalidated when the style guide changes, since any rule
// setting can alter what a file produces.
type resultCache struct {
	mu       sync.Mutex
	path     string
	guideSum string
	entries  map[string]resultEntry
	hits     int
	dirty    bool
}

// openResultCache loads the result cache for a workspace, discarding it when
// it was written under a different style guide. Never fails; a missing or
// corrupt cache starts empty.
func openResultCache(root string, g *guide.Guide) *resultCache {
	c := &resultCache{
		path:     filepath.Join(root, ".docstyle", "cache", "results.json"),
		guideSum: guideSum(g),
		entries:  make(map[string]resultEntry),
	}

	data, err := os.ReadFile(c.path)
	if err != nil {
		return c
	}
	var m resultManifest
	if err := json.Unmarshal(data, &m); err != nil || m.GuideSum != c.guideSum {
		return c
	}
	if m.Entries != nil {
		c.entries = m.Entries
	}
	return c
}

// guideSum returns a digest of the style guide settings.
func guideSum(g *guide.Guide) string {
	data, err := json.Marshal(g)
	if err != nil {
		return ""
	}
	h := sha256.Sum256(data)
	return hex.EncodeToString(h[:])
}

// get returns the cached diagnostics for a file when its content hash still
// matches.
func (c *resultCache) get(path, hash string) ([]diag.Diagnostic, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[path]
	if !ok || hash == "" || e.Hash != hash {
		return nil, false
	}
	c.hits++
	return e.Diagnostics, true
}

// put records the diagnostics produced for a file at a given content hash.
func (c *resultCache) put(path, hash string, ds []diag.Diagnostic) {
	if hash == "" {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[path] = resultEntry{Hash: hash, Diagnostics: ds}
	c.dirty = true
}

// hitCount returns how many lookups were served from the cache.
func (c *resultCache) hitCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits
}

// save writes the cache to disk if anything changed.
func (c *resultCache) save() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.dirty {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(c.path), 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(resultManifest{GuideSum: c.guideSum, Entries: c.entries}, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(c.path, data, 0644); err != nil {
		return err
	}
	c.dirty = false
	return nil
}
