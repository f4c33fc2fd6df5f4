package ruleconfig

import "github.com/bmatcuk/doublestar/v4"

// MatchesFile reports whether path should be analyzed under this
// Resolved configuration: it must match at least one Files pattern (an
// empty Files list matches everything) and must not match any Exclude
// pattern, which always wins. Patterns are doublestar globs (`**` for
// recursive directory matching).
func (r *Resolved) MatchesFile(path string) bool {
	if len(r.Exclude) > 0 && matchesAny(r.Exclude, path) {
		return false
	}
	if len(r.Files) == 0 {
		return true
	}
	return matchesAny(r.Files, path)
}

func matchesAny(patterns []string, path string) bool {
	for _, pattern := range patterns {
		if ok, err := doublestar.Match(pattern, path); err == nil && ok {
			return true
		}
	}
	return false
}
