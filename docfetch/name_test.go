package docfetch

import (
	"strings"
	"testing"
)

func TestBaseName(t *testing.T) {
	tests := []struct {
		url, want string
	}{
		{"https://www.irs.gov/pub/irs-pdf/p17.pdf", "p17.pdf"},
		{"https://home.treasury.gov/system/files/136/FY2023.pdf?download=1", "FY2023.pdf"},
		{"https://example.com/reports/annual%20report.pdf", "annual%20report.pdf"},
		{"https://example.com/a/b/", "document"},
		{"https://example.com", "document"},
		{"https://example.com/..", "document"},
		{"https://example.com/x/.", "document"},
		{"https://example.com/docs/file:name.pdf", "filename.pdf"},
		{"https://example.com/q3<draft>.pdf", "q3%3Cdraft%3E.pdf"},
	}
	for _, tt := range tests {
		if got := BaseName(tt.url); got != tt.want {
			t.Errorf("BaseName(%q) = %q, want %q", tt.url, got, tt.want)
		}
	}
}

func TestBaseName_Idempotent(t *testing.T) {
	// WHAT: Sanitizing twice changes nothing, and unsafe characters never survive.
	for _, u := range []string{
		"https://example.com/q3<draft>.pdf",
		"https://example.com/file:name.pdf",
		"https://example.com/a|b*c?.pdf",
		"https://example.com/%3Cencoded%3E.pdf",
	} {
		once := BaseName(u)
		if twice := BaseName(once); twice != once {
			t.Errorf("BaseName not idempotent for %q: %q -> %q", u, once, twice)
		}
		if strings.ContainsAny(once, `<>:"/\|?*`) {
			t.Errorf("BaseName(%q) = %q keeps unsafe characters", u, once)
		}
	}
}
