// Package match implements the line classification policy used by the
// scanner. A Policy is an ordered set of case-insensitive substring
// patterns, each tagged with a severity. Policies are stateless and safe
// for concurrent use.
package match

import (
	"fmt"
	"strings"

	"github.com/harrison/logscan/internal/models"
)

// Pattern pairs a case-insensitive substring with its classification.
type Pattern struct {
	Token    string          // Substring to look for (stored lowercased)
	Severity models.Severity // Classification when the token matches
}

// Policy decides whether a line counts as an error or warning entry.
type Policy struct {
	patterns []Pattern
}

// NewPolicy builds a Policy from the given patterns. Tokens are matched
// case-insensitively; empty tokens are rejected.
func NewPolicy(patterns []Pattern) (*Policy, error) {
	if len(patterns) == 0 {
		return nil, fmt.Errorf("policy requires at least one pattern")
	}

	normalized := make([]Pattern, 0, len(patterns))
	for _, p := range patterns {
		token := strings.ToLower(strings.TrimSpace(p.Token))
		if token == "" {
			return nil, fmt.Errorf("pattern token cannot be empty")
		}
		normalized = append(normalized, Pattern{Token: token, Severity: p.Severity})
	}

	return &Policy{patterns: normalized}, nil
}

// DefaultPolicy returns the built-in policy covering the common error and
// warning tokens found in plain-text logs.
func DefaultPolicy() *Policy {
	policy, err := NewPolicy([]Pattern{
		{Token: "error", Severity: models.SeverityError},
		{Token: "fail", Severity: models.SeverityError},
		{Token: "exception", Severity: models.SeverityError},
		{Token: "fatal", Severity: models.SeverityError},
		{Token: "panic", Severity: models.SeverityError},
		{Token: "warn", Severity: models.SeverityWarning},
		{Token: "deprecated", Severity: models.SeverityWarning},
	})
	if err != nil {
		// Built-in patterns are all non-empty
		panic(err)
	}
	return policy
}

// Classify reports the highest-severity match for a single line.
// Error takes precedence over Warning when a line matches both kinds of
// pattern. Returns ok=false when no pattern matches.
func (p *Policy) Classify(line string) (models.Severity, bool) {
	lower := strings.ToLower(line)

	warned := false
	for _, pat := range p.patterns {
		if !strings.Contains(lower, pat.Token) {
			continue
		}
		if pat.Severity == models.SeverityError {
			return models.SeverityError, true
		}
		warned = true
	}

	if warned {
		return models.SeverityWarning, true
	}
	return 0, false
}

// Patterns returns a copy of the policy's normalized patterns.
func (p *Policy) Patterns() []Pattern {
	out := make([]Pattern, len(p.patterns))
	copy(out, p.patterns)
	return out
}
