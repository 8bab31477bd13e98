// Package mimematch compares MIME patterns such as "image/*" against concrete
// MIME types.
package mimematch

import (
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Matches reports whether pattern matches target.
//
// Comparison is case-insensitive. Both sides must look like a MIME essence
// (contain a '/'), so "image" never matches anything. Patterns containing '*'
// or '?' are glob-matched; an invalid glob never matches.
func Matches(pattern, target string) bool {
	if strings.EqualFold(pattern, target) {
		return true
	}

	pattern = strings.TrimSpace(pattern)
	target = strings.TrimSpace(target)
	if pattern == "" || target == "" {
		return false
	}

	pattern = strings.ToLower(pattern)
	target = strings.ToLower(target)
	if pattern == target {
		return true
	}

	if !strings.Contains(pattern, "/") || !strings.Contains(target, "/") {
		return false
	}

	if IsPattern(pattern) {
		ok, err := doublestar.Match(pattern, target)
		return err == nil && ok
	}

	return pattern == target
}

// IsPattern reports whether s contains glob metacharacters.
func IsPattern(s string) bool {
	return strings.ContainsAny(s, "*?")
}

// Filter returns the candidates matched by pattern, sorted and without
// duplicates.
func Filter(pattern string, candidates []string) []string {
	seen := make(map[string]struct{}, len(candidates))
	var out []string

	for _, c := range candidates {
		if _, ok := seen[c]; ok {
			continue
		}

		seen[c] = struct{}{}
		if Matches(pattern, c) {
			out = append(out, c)
		}
	}

	sort.Strings(out)
	return out
}
