package mimematch

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatches(t *testing.T) {
	tests := []struct {
		name    string
		pattern string
		target  string
		want    bool
	}{
		{"exact match", "image/jpeg", "image/jpeg", true},
		{"wildcard subtype", "image/*", "image/png", true},
		{"mismatched types", "text/*", "image/png", false},
		{"case insensitive exact", "TEXT/Plain", "text/plain", true},
		{"case insensitive upper target", "application/json", "APPLICATION/JSON", true},
		{"case insensitive glob", "IMAGE/*", "image/PNG", true},
		{"surrounding whitespace", "  text/plain ", "text/plain", true},
		{"empty pattern", "", "application/json", false},
		{"empty target", "text/plain", "", false},
		{"whitespace only", "   ", "text/plain", false},
		{"pattern without slash", "image", "image/png", false},
		{"bare star", "*", "image/png", false},
		{"target without slash", "image/*", "image", false},
		{"question mark glob", "image/pn?", "image/png", true},
		{"suffix glob", "application/*+xml", "application/atom+xml", true},
		{"suffix glob mismatch", "application/*+xml", "application/json", false},
		{"star star", "*/*", "video/mp4", true},
		{"different subtype", "text/plain", "text/html", false},
		{"invalid glob", "image/[png", "image/png", false},
		{"braces without star are literal", "image/{png,jpeg}", "image/png", false},
		{"braces without star match themselves", "image/{png,jpeg}", "image/{png,jpeg}", true},
		{"braces with star are alternatives", "image/{png,jpeg}*", "image/jpeg", true},
		{"star stops at slash", "application/*", "application/vnd/x", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Matches(tt.pattern, tt.target), "Matches(%q, %q)", tt.pattern, tt.target)
		})
	}
}

func TestMatches_PatternWithoutSlashNeverMatches(t *testing.T) {
	targets := []string{"image", "image/png", "text/plain", "", "*", "a/b"}
	for _, p := range []string{"image", "text", "*", "?", "plain", "x-scheme-handler"} {
		for _, target := range targets {
			if p == target {
				continue
			}

			assert.False(t, Matches(p, target), "Matches(%q, %q)", p, target)
		}
	}
}

func TestIsPattern(t *testing.T) {
	assert.True(t, IsPattern("image/*"))
	assert.True(t, IsPattern("image/pn?"))
	assert.False(t, IsPattern("image/png"))
}

func TestFilter(t *testing.T) {
	candidates := []string{"image/png", "text/plain", "image/jpeg", "image/png", "video/mp4"}

	assert.Equal(t, []string{"image/jpeg", "image/png"}, Filter("image/*", candidates))
	assert.Empty(t, Filter("audio/*", candidates))
}
