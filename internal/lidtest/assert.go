// Package lidtest collects small testing helpers shared across this
// module's package tests, grounded on the teacher's common test_utils.go
// assertion helpers.
package lidtest

import (
	"reflect"
	"sort"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/mitchellh/hashstructure/v2"

	"github.com/ib-subnet/lidmgr/lid"
)

// AssertEqual fails the test if a and b are not deeply equal.
func AssertEqual(t *testing.T, a, b interface{}, message string) {
	t.Helper()
	if reflect.DeepEqual(a, b) {
		return
	}
	if message != "" {
		message += ", "
	}
	t.Fatalf("%s%#v != %#v", message, a, b)
}

// AssertStringsEqual compares two string slices, sorting both first
// since dispatch order (e.g. events.PubSub's goroutine fan-out) is not
// guaranteed.
func AssertStringsEqual(t *testing.T, a, b []string, message string) {
	t.Helper()
	sort.Strings(a)
	sort.Strings(b)
	if reflect.DeepEqual(a, b) {
		return
	}
	t.Fatalf("%s: %#v != %#v", message, a, b)
}

// ExpectError fails the test unless err is non-nil and its message
// exactly matches want.
func ExpectError(t *testing.T, err error, want string, desc interface{}) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected a non-nil error: %v", desc)
	}
	if err.Error() != want {
		t.Fatalf("wrong error message. want: %s, got: %s (%v)", want, err.Error(), desc)
	}
}

// CmpDiff fails the test and reports a structural diff if got and want
// are not deeply equal, for assertions where a plain %#v dump would bury
// the one field that actually differs.
func CmpDiff(t *testing.T, want, got interface{}, message string) {
	t.Helper()
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("%s: mismatch (-want +got):\n%s", message, diff)
	}
}

// FreeRangesFingerprint computes a stable hash of a FreeRanges snapshot's
// contents, letting a sweep-regression test assert "this round's free
// list is identical/different to last round's" without hand-comparing
// every range or depending on a golden file.
func FreeRangesFingerprint(t *testing.T, f *lid.FreeRanges) uint64 {
	t.Helper()
	h, err := hashstructure.Hash(f.Ranges(), hashstructure.FormatV2, nil)
	if err != nil {
		t.Fatalf("fingerprint free ranges: %v", err)
	}
	return h
}
