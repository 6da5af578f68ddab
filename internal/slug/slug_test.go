package slug

import (
	"testing"
	"time"
)

func TestMake(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"Hello, World! 2026", "hello-world-2026"},
		{"  Ada Lovelace  ", "ada-lovelace"},
		{"___", ""},
		{"a--b---c", "a-b-c"},
		{"ÜBER", "ber"},
	}
	for _, tc := range cases {
		if got := Make(tc.in); got != tc.want {
			t.Errorf("Make(%q): got %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestWithTimestamp(t *testing.T) {
	now := time.UnixMilli(1700000000000)
	if got := WithTimestamp("Ada Lovelace", now); got != "ada-lovelace-1700000000000" {
		t.Errorf("got %q", got)
	}
	if got := WithTimestamp("", now); got != "portfolio-1700000000000" {
		t.Errorf("fallback: got %q", got)
	}
}

func TestWithTimestamp_DistinctForDistinctTimes(t *testing.T) {
	a := WithTimestamp("Ada", time.UnixMilli(1))
	b := WithTimestamp("Ada", time.UnixMilli(2))
	if a == b {
		t.Fatalf("expected distinct slugs, both %q", a)
	}
}
