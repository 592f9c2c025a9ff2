// Package intent classifies an idea+context pair into one of four
// intent types using ordered, word-boundary keyword rules.
package intent

import (
	"regexp"
	"strings"
)

// Type is the tagged intent variant.
type Type string

const (
	Generate Type = "generate"
	Debug    Type = "debug"
	Refactor Type = "refactor"
	Explain  Type = "explain"
)

// rule pairs an intent with the keywords that trigger it. Rules are
// evaluated in order; the first match wins.
type rule struct {
	intent   Type
	keywords []string
}

// rules is ordered: EXPLAIN before DEBUG before REFACTOR, GENERATE is
// the default when nothing matches. The Spanish review/audit keywords
// are mandatory members of the EXPLAIN set.
var rules = []rule{
	{Explain, []string{"explain", "how does", "why", "revisar", "revisión", "auditoría", "analizar", "examine", "review", "audit"}},
	{Debug, []string{"fix", "debug", "error", "bug", "broken", "failing", "exception"}},
	{Refactor, []string{"refactor", "optimize", "clean up", "restructure", "improve"}},
}

var compiled = compileRules(rules)

type compiledRule struct {
	intent   Type
	patterns []*regexp.Regexp
}

func compileRules(rs []rule) []compiledRule {
	out := make([]compiledRule, len(rs))
	for i, r := range rs {
		patterns := make([]*regexp.Regexp, len(r.keywords))
		for j, kw := range r.keywords {
			patterns[j] = regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(kw) + `\b`)
		}
		out[i] = compiledRule{intent: r.intent, patterns: patterns}
	}
	return out
}

// Classifier assigns an intent to combined idea+context text.
type Classifier struct{}

// NewClassifier returns a stateless Classifier.
func NewClassifier() *Classifier { return &Classifier{} }

// Classify returns the first matching intent in EXPLAIN, DEBUG,
// REFACTOR order, defaulting to GENERATE.
func (c *Classifier) Classify(idea, context string) Type {
	combined := strings.ToLower(idea + " " + context)
	for _, r := range compiled {
		for _, pattern := range r.patterns {
			if pattern.MatchString(combined) {
				return r.intent
			}
		}
	}
	return Generate
}
