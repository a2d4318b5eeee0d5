package utils

import "testing"

func TestShortHash(t *testing.T) {
	first := ShortHash("10:20")
	second := ShortHash("10:20")
	if first != second {
		t.Fatalf("hash not stable: %q vs %q", first, second)
	}
	if len(first) != 8 {
		t.Fatalf("expected 8 hex chars, got %q", first)
	}
	if first == ShortHash("20:10") {
		t.Fatalf("different mappings collided")
	}
}
