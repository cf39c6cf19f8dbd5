package utils

import "testing"

func TestGenerateTicketCode(t *testing.T) {
	seen := make(map[string]bool)

	for i := 0; i < 200; i++ {
		code, err := GenerateTicketCode()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(code) != TicketCodeLength {
			t.Fatalf("expected %d characters, got %q", TicketCodeLength, code)
		}
		if !ValidTicketCode(code) {
			t.Fatalf("generated code %q fails validation", code)
		}
		seen[code] = true
	}

	// 200 draws from 36^8 should not collide
	if len(seen) != 200 {
		t.Errorf("expected 200 distinct codes, got %d", len(seen))
	}
}

func TestValidTicketCode(t *testing.T) {
	cases := []struct {
		code string
		want bool
	}{
		{"ABCD1234", true},
		{"AAAAAAAA", true},
		{"12345678", true},
		{"abcd1234", false},
		{"ABCD123", false},
		{"ABCD12345", false},
		{"ABCD 123", false},
		{"ABCD-123", false},
		{"", false},
	}

	for _, tc := range cases {
		if got := ValidTicketCode(tc.code); got != tc.want {
			t.Errorf("ValidTicketCode(%q) = %v, want %v", tc.code, got, tc.want)
		}
	}
}

func TestSanitizeFilename(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Go Workshop 2026", "Go_Workshop_2026"},
		{"report.csv", "report.csv"},
		{"../../etc/passwd", ".._.._etc_passwd"},
		{"", "export"},
	}

	for _, tc := range cases {
		if got := SanitizeFilename(tc.in); got != tc.want {
			t.Errorf("SanitizeFilename(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
