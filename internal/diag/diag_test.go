package diag

import (
	"testing"
)

func TestParseSeverity(t *testing.T) {
	cases := []struct {
		in      string
		want    Severity
		wantErr bool
	}{
		{"error", SeverityError, false},
		{"warning", SeverityWarning, false},
		{"warn", SeverityWarning, false},
		{"info", SeverityInfo, false},
		{"", SeverityInfo, false},
		{"ERROR", SeverityError, false},
		{"fatal", SeverityInfo, true},
	}

	for _, tc := range cases {
		got, err := ParseSeverity(tc.in)
		if (err != nil) != tc.wantErr {
			t.Errorf("ParseSeverity(%q) error = %v, wantErr %v", tc.in, err, tc.wantErr)
			continue
		}
		if got != tc.want {
			t.Errorf("ParseSeverity(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestFingerprintStable(t *testing.T) {
	a := Fingerprint("doc/exported", "pkg/a.go", "func Foo")
	b := Fingerprint("doc/exported", "pkg/a.go", "func Foo")
	if a != b {
		t.Errorf("fingerprint not stable: %s != %s", a, b)
	}
	if len(a) != 16 {
		t.Errorf("fingerprint length = %d, want 16", len(a))
	}

	c := Fingerprint("doc/exported", "pkg/b.go", "func Foo")
	if a == c {
		t.Error("fingerprint should differ across paths")
	}
}

func TestSortOrder(t *testing.T) {
	ds := []Diagnostic{
		{Path: "b.go", Line: 1, RuleID: "x"},
		{Path: "a.go", Line: 9, RuleID: "x"},
		{Path: "a.go", Line: 2, RuleID: "y"},
		{Path: "a.go", Line: 2, RuleID: "a"},
	}
	Sort(ds)

	if ds[0].Path != "a.go" || ds[0].Line != 2 || ds[0].RuleID != "a" {
		t.Errorf("unexpected first diagnostic: %+v", ds[0])
	}
	if ds[3].Path != "b.go" {
		t.Errorf("unexpected last diagnostic: %+v", ds[3])
	}
}

func TestAtOrAbove(t *testing.T) {
	ds := []Diagnostic{
		{Severity: SeverityInfo},
		{Severity: SeverityWarning},
		{Severity: SeverityError},
		{Severity: SeverityError},
	}

	if got := AtOrAbove(ds, SeverityError); got != 2 {
		t.Errorf("AtOrAbove(error) = %d, want 2", got)
	}
	if got := AtOrAbove(ds, SeverityWarning); got != 3 {
		t.Errorf("AtOrAbove(warning) = %d, want 3", got)
	}
	if got := AtOrAbove(ds, SeverityInfo); got != 4 {
		t.Errorf("AtOrAbove(info) = %d, want 4", got)
	}
}
