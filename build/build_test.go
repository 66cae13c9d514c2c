package build

import "testing"

func TestString_NoRevision(t *testing.T) {
	Version, Revision, DirtyBuild = "1.0.0", "", false
	if got, want := String(), "LID Manager version 1.0.0"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestString_DirtyRevision(t *testing.T) {
	Version, Revision, DirtyBuild = "1.0.0", "abcdef1234", true
	got := String()
	want := "LID Manager version 1.0.0-abcdef1-dirty"
	if got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}
