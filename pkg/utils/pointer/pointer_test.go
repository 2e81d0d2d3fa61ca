package pointer_test

import (
	"strings"
	"testing"

	"github.com/smartbiz-gst/smartbiz/pkg/utils/pointer"
)

func TestMap(t *testing.T) {
	if got := pointer.Map(nil, strings.TrimSpace); got != nil {
		t.Errorf("nil is mapped to %q", *got)
	}

	src := pointer.Ref("  Pune ")
	got := pointer.Map(src, strings.TrimSpace)
	if got == nil || *got != "Pune" {
		t.Errorf("unexpected: %v", got)
	}
	if *src != "  Pune " {
		t.Errorf("source is modified: %q", *src)
	}
}

func TestNonZero(t *testing.T) {
	for name, testcase := range map[string]struct {
		when string
		then *string
	}{
		"empty":     {when: "", then: nil},
		"non-empty": {when: "Modern", then: pointer.Ref("Modern")},
	} {
		t.Run(name, func(t *testing.T) {
			actual := pointer.NonZero(testcase.when)
			if (actual == nil) != (testcase.then == nil) {
				t.Fatalf("actual = %v, expected = %v", actual, testcase.then)
			}
			if actual != nil && *actual != *testcase.then {
				t.Errorf("actual = %q, expected = %q", *actual, *testcase.then)
			}
		})
	}
}

func TestSafeDeref(t *testing.T) {
	if got := pointer.SafeDeref[int](nil); got != 0 {
		t.Errorf("nil: %d", got)
	}
	if got := pointer.SafeDeref(pointer.Ref(7)); got != 7 {
		t.Errorf("ref: %d", got)
	}
}
