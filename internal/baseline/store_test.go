package baseline

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docstyle/internal/diag"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "baseline.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestUpdateAndFilter(t *testing.T) {
	s := openTestStore(t)

	old := diag.New("doc/exported", diag.SeverityWarning, "a.go", 3, 0, "Exported is undocumented", "Exported()")
	n, err := s.Update([]diag.Diagnostic{old})
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	// The accepted diagnostic moves line but keeps its subject, so its
	// fingerprint still matches. The second one is genuinely new.
	moved := diag.New("doc/exported", diag.SeverityWarning, "a.go", 17, 0, "Exported is undocumented", "Exported()")
	fresh := diag.New("doc/punctuation", diag.SeverityInfo, "a.go", 5, 0, "missing punctuation", "Other() punctuation")

	newOnes, suppressed, err := s.Filter([]diag.Diagnostic{moved, fresh})
	require.NoError(t, err)
	require.Len(t, newOnes, 1)
	assert.Equal(t, "doc/punctuation", newOnes[0].RuleID)
	require.Len(t, suppressed, 1)
	assert.Equal(t, "doc/exported", suppressed[0].RuleID)
}

func TestUpdateReplacesPreviousBaseline(t *testing.T) {
	s := openTestStore(t)

	first := diag.New("tags/param", diag.SeverityError, "A.java", 10, 0, "missing @param", "find(a) @param a")
	_, err := s.Update([]diag.Diagnostic{first})
	require.NoError(t, err)

	second := diag.New("tags/return", diag.SeverityError, "A.java", 10, 0, "missing @return", "find(a) @return-missing")
	_, err = s.Update([]diag.Diagnostic{second})
	require.NoError(t, err)

	accepted, err := s.Accepted()
	require.NoError(t, err)
	assert.False(t, accepted[first.Fingerprint], "old baseline entries must not survive an update")
	assert.True(t, accepted[second.Fingerprint])
}

func TestEntries(t *testing.T) {
	s := openTestStore(t)

	_, err := s.Update([]diag.Diagnostic{
		diag.New("html/allowlist", diag.SeverityWarning, "B.java", 2, 0, "tag <blink> not allowed", "html <blink>"),
	})
	require.NoError(t, err)

	entries, err := s.Entries()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "html/allowlist", entries[0].RuleID)
	assert.Equal(t, "B.java", entries[0].Path)
	assert.False(t, entries[0].AcceptedAt.IsZero())
}

func TestRecordRun(t *testing.T) {
	s := openTestStore(t)

	id, err := s.RecordRun(12, 4, 2)
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	runs, err := s.Runs(10)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, id, runs[0].ID)
	assert.Equal(t, 12, runs[0].Files)
	assert.Equal(t, 4, runs[0].Diagnostics)
	assert.Equal(t, 2, runs[0].Suppressed)
}

func TestEmptyBaselinePassesEverythingThrough(t *testing.T) {
	s := openTestStore(t)

	d := diag.New("header/required", diag.SeverityError, "c.py", 1, 0, "missing header", "missing header")
	fresh, suppressed, err := s.Filter([]diag.Diagnostic{d})
	require.NoError(t, err)
	assert.Len(t, fresh, 1)
	assert.Empty(t, suppressed)
}
