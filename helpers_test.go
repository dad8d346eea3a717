package metaedge

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestBuildURL(t *testing.T) {
	tests := []struct {
		base     string
		segments []string
		want     string
	}{
		{"https://example.com", []string{"blog", "hello"}, "https://example.com/blog/hello/"},
		{"https://example.com", []string{"/404/"}, "https://example.com/404/"},
		{"https://example.com/", nil, "https://example.com/"},
	}
	for _, tt := range tests {
		if got := BuildURL(tt.base, tt.segments...); got != tt.want {
			t.Errorf("BuildURL(%q, %v) = %q, want %q", tt.base, tt.segments, got, tt.want)
		}
	}
}

func TestCanonicalURL(t *testing.T) {
	tests := map[string]string{
		"/about":      "https://example.com/about/",
		"/about/":     "https://example.com/about/",
		"/":           "https://example.com/",
		"/terms.html": "https://example.com/terms.html",
		"about//team": "https://example.com/about/team/",
	}
	for in, want := range tests {
		if got := canonicalURL("https://example.com/", in); got != want {
			t.Errorf("canonicalURL(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestAbsoluteURL(t *testing.T) {
	tests := map[string]string{
		"/social.jpg":               "https://example.com/social.jpg",
		"img/a.png":                 "https://example.com/img/a.png",
		"https://cdn.example.net/x": "https://cdn.example.net/x",
		"//cdn.example.net/y":       "https://cdn.example.net/y",
		"":                          "",
	}
	for in, want := range tests {
		if got := absoluteURL("https://example.com", in); got != want {
			t.Errorf("absoluteURL(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestPlainText(t *testing.T) {
	tests := map[string]string{
		"<p>Hello <strong>world</strong></p>":      "Hello world",
		"Fish &amp; chips":                         "Fish & chips",
		"<p>Read more\n\n about it [&hellip;]</p>": "Read more about it",
		"Trailing dots [...]":                      "Trailing dots",
		"<script>alert(1)</script>Safe":            "Safe",
	}
	for in, want := range tests {
		if got := plainText(in); got != want {
			t.Errorf("plainText(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestSummarize(t *testing.T) {
	if got := summarize("Short and sweet."); got != "Short and sweet." {
		t.Errorf("short text changed: %q", got)
	}

	long := strings.Repeat("word ", 60)
	got := summarize(long)
	if n := utf8.RuneCountInString(got); n > maxDescriptionRunes {
		t.Errorf("summary has %d runes, want <= %d", n, maxDescriptionRunes)
	}
	if !strings.HasSuffix(got, "...") {
		t.Errorf("summary %q does not end with ...", got)
	}
	if strings.Contains(got, "wor...") {
		t.Errorf("summary cut mid-word: %q", got)
	}

	multibyte := strings.Repeat("ü", 200)
	if n := utf8.RuneCountInString(summarize(multibyte)); n != maxDescriptionRunes {
		t.Errorf("multibyte summary has %d runes", n)
	}
}

func TestTwitterHandle(t *testing.T) {
	for in, want := range map[string]string{"example": "@example", "@example": "@example", " ": ""} {
		if got := twitterHandle(in); got != want {
			t.Errorf("twitterHandle(%q) = %q, want %q", in, got, want)
		}
	}
}
