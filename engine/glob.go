package engine

import (
	"fmt"
	"regexp"
	"strings"
)

// globMatcher compiles a shell-style wildcard pattern into a full-line
// matcher. '*' matches any run of characters (including none) and '?'
// matches exactly one character; everything else is literal. Unlike
// path.Match, '*' also crosses '/' — engine output such as FEN strings
// contains slashes with no special meaning.
func globMatcher(pattern string) (func(string) bool, error) {
	re, err := regexp.Compile(globToRegexp(pattern))
	if err != nil {
		return nil, fmt.Errorf("invalid glob pattern %q: %w", pattern, err)
	}
	return re.MatchString, nil
}

// GlobMatch is the one-shot form of globMatcher.
func GlobMatch(pattern, line string) (bool, error) {
	match, err := globMatcher(pattern)
	if err != nil {
		return false, err
	}
	return match(line), nil
}

func globToRegexp(pattern string) string {
	var b strings.Builder
	b.WriteString(`^`)
	for _, r := range pattern {
		switch r {
		case '*':
			b.WriteString(`.*`)
		case '?':
			b.WriteString(`.`)
		default:
			b.WriteString(regexp.QuoteMeta(string(r)))
		}
	}
	b.WriteString(`$`)
	return b.String()
}

func containsMatcher(want string) func(string) bool {
	return func(line string) bool { return strings.Contains(line, want) }
}

func prefixMatcher(prefix string) func(string) bool {
	return func(line string) bool { return strings.HasPrefix(line, prefix) }
}
