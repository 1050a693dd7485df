package utils

import "testing"

func TestFormatAmount(t *testing.T) {
	cases := []struct {
		minor int64
		want  string
	}{
		{0, "0.00"},
		{5, "0.05"},
		{100, "1.00"},
		{123456, "1234.56"},
		{-250, "-2.50"},
	}
	for _, tc := range cases {
		if got := FormatAmount(tc.minor); got != tc.want {
			t.Fatalf("FormatAmount(%d) = %q, want %q", tc.minor, got, tc.want)
		}
	}
}

func TestRandomHexLength(t *testing.T) {
	s, err := RandomHex(16)
	if err != nil {
		t.Fatalf("keygen error: %v", err)
	}
	if len(s) != 32 {
		t.Fatalf("got %d chars, want 32", len(s))
	}
	other, _ := RandomHex(16)
	if s == other {
		t.Fatalf("two keys should never collide")
	}
}
