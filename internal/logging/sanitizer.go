package logging

import (
	"regexp"
)

// Sanitizer redacts credentials that commonly leak into panic messages and
// error strings.
type Sanitizer struct {
	patterns []*regexp.Regexp
	redacted string
}

// NewSanitizer creates a sanitizer with the default patterns.
func NewSanitizer() *Sanitizer {
	return &Sanitizer{
		patterns: defaultPatterns(),
		redacted: "[REDACTED]",
	}
}

func defaultPatterns() []*regexp.Regexp {
	patterns := []string{
		// GitHub tokens
		`gh[pousr]_[A-Za-z0-9]{36}`,
		// AWS access key id
		`AKIA[0-9A-Z]{16}`,
		// Slack tokens
		`xox[baprs]-[0-9a-zA-Z-]{10,}`,
		// URLs with inline credentials
		`[a-zA-Z][a-zA-Z0-9+.-]*://[^\s:/@]+:[^\s/@]+@`,
		`(?i)bearer\s+[a-zA-Z0-9._-]{20,}`,
		`(?i)api[_-]?key["'\s:=]+[a-zA-Z0-9_-]{20,}`,
		`(?i)secret["'\s:=]+[a-zA-Z0-9_-]{20,}`,
		`(?i)password["'\s:=]+[^\s"']{8,}`,
		`(?i)token["'\s:=]+[a-zA-Z0-9_-]{20,}`,
	}

	compiled := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		compiled = append(compiled, regexp.MustCompile(p))
	}
	return compiled
}

// Sanitize redacts sensitive information from a string.
func (s *Sanitizer) Sanitize(input string) string {
	result := input
	for _, pattern := range s.patterns {
		result = pattern.ReplaceAllString(result, s.redacted)
	}
	return result
}

// AddPattern adds a custom pattern.
func (s *Sanitizer) AddPattern(pattern string) error {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return err
	}
	s.patterns = append(s.patterns, re)
	return nil
}

// Placeholder returns the text substituted for redacted content.
func (s *Sanitizer) Placeholder() string {
	return s.redacted
}
