// Package classify implements the ordered rule-based product classifier.
package classify

import (
	"fmt"
	"regexp"
	"strings"
)

// Matcher decides whether a piece of text satisfies a pattern. The
// concrete pattern dialect stays behind this interface so it can change
// without touching the classifier or scorer.
type Matcher interface {
	Matches(text string) bool
}

// regexMatcher matches text against a compiled regular expression.
type regexMatcher struct {
	re *regexp.Regexp
}

func (m *regexMatcher) Matches(text string) bool {
	return m.re.MatchString(text)
}

// CompilePattern compiles a pattern into a Matcher. Matching is always
// case-insensitive; patterns may use word boundaries, alternation and
// repetition.
func CompilePattern(pattern string) (Matcher, error) {
	if strings.TrimSpace(pattern) == "" {
		return nil, fmt.Errorf("empty pattern")
	}

	regexStr := pattern
	if !strings.HasPrefix(regexStr, "(?i)") {
		regexStr = "(?i)" + regexStr
	}

	re, err := regexp.Compile(regexStr)
	if err != nil {
		return nil, fmt.Errorf("failed to compile pattern %q: %w", pattern, err)
	}

	return &regexMatcher{re: re}, nil
}

// CompilePatterns compiles a pattern list, preserving order.
func CompilePatterns(patterns []string) ([]Matcher, error) {
	matchers := make([]Matcher, 0, len(patterns))
	for _, p := range patterns {
		m, err := CompilePattern(p)
		if err != nil {
			return nil, err
		}
		matchers = append(matchers, m)
	}
	return matchers, nil
}
