package replybot

import (
	"strings"
	"unicode"
)

// matches reports whether content satisfies r. Case-insensitive matching
// lowercases both sides, except for ContainsExactSubstring.
func (r *Rule) matches(content string, caseSensitive bool) bool {
	if r.err != nil {
		return false
	}

	if r.kind == ContainsExactSubstring {
		return strings.Contains(content, r.pattern)
	}

	fold := func(s string) string { return s }
	if !caseSensitive {
		fold = strings.ToLower
	}
	text := fold(content)

	switch r.kind {
	case ContainsSubstring:
		return strings.Contains(text, fold(r.pattern))
	case ContainsWord:
		return hasToken(strings.Split(text, " "), fold(r.pattern))
	case ContainsAnyOf:
		tokens := strings.Split(text, " ")
		for _, p := range r.patterns {
			if hasToken(tokens, fold(p)) {
				return true
			}
		}
		return false
	case StartsWith, Command:
		_, ok := r.matchPrefix(text, fold)
		return ok
	case EndsWith:
		return strings.HasSuffix(text, fold(r.pattern))
	}
	return false
}

// matchPrefix returns the number of leading words of text covered by the
// first of r.patterns that text starts with as whole words.
func (r *Rule) matchPrefix(text string, fold func(string) string) (int, bool) {
	words := strings.Fields(text)
	for _, p := range r.patterns {
		if n, ok := startsWithWords(words, strings.Fields(fold(p))); ok {
			return n, true
		}
	}
	return 0, false
}

func startsWithWords(words, prefix []string) (int, bool) {
	if len(prefix) == 0 || len(prefix) > len(words) {
		return 0, false
	}
	for i, w := range prefix {
		if words[i] != w {
			return 0, false
		}
	}
	return len(prefix), true
}

func hasToken(tokens []string, want string) bool {
	for _, t := range tokens {
		if t == want {
			return true
		}
	}
	return false
}

// splitArgs drops the first n whitespace-delimited words of content and
// returns the remaining words and the trimmed remainder.
func splitArgs(content string, n int) ([]string, string) {
	rest := strings.TrimLeftFunc(content, unicode.IsSpace)
	for i := 0; i < n && rest != ""; i++ {
		end := strings.IndexFunc(rest, unicode.IsSpace)
		if end < 0 {
			rest = ""
			break
		}
		rest = strings.TrimLeftFunc(rest[end:], unicode.IsSpace)
	}
	rest = strings.TrimSpace(rest)
	return strings.Fields(rest), rest
}
