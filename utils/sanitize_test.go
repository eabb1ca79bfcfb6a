package utils

import "testing"

// TestSanitizeFilename tests unsafe name scrubbing.
func TestSanitizeFilename(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"report.pdf", "report.pdf"},
		{"Annual Report (final).pdf", "Annual_Report_final_.pdf"},
		{"../../etc/passwd", "passwd"},
		{"..\\..\\secrets.pdf", "secrets.pdf"},
		{"C:\\docs\\report.pdf", "report.pdf"},
		{".hidden.pdf", "hidden.pdf"},
		{"..", ""},
		{"", ""},
		{"   spaced.pdf  ", "spaced.pdf"},
	}
	for _, tc := range cases {
		if got := SanitizeFilename(tc.in); got != tc.want {
			t.Fatalf("SanitizeFilename(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

// TestSanitizeHeaderFilename tests header-safe names.
func TestSanitizeHeaderFilename(t *testing.T) {
	if got := SanitizeHeaderFilename("a\r\nb\"c.pdf"); got != "abc.pdf" {
		t.Fatalf("unexpected header name: %q", got)
	}
	if got := SanitizeHeaderFilename(""); got != "download" {
		t.Fatalf("empty name should fall back to download, got %q", got)
	}
}
