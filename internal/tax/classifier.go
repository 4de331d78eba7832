package tax

import "strings"

// Classifier maps a free-text industry description to a tax-rate bracket.
// Classification is a total function: every string, including empty or
// unrecognized text, resolves to a bracket.
type Classifier struct {
	policy Policy
}

// NewClassifier creates a classifier for the given policy.
func NewClassifier(policy Policy) *Classifier {
	return &Classifier{policy: policy}
}

// Classify resolves the bracket for an industry description. Matching is
// case-insensitive substring containment over the full text; rules are
// evaluated in priority order and the first unsuppressed hit wins.
func (c *Classifier) Classify(industryText string) Bracket {
	lower := strings.ToLower(industryText)

	for _, rule := range c.policy.Rules {
		if !containsAny(lower, rule.Keywords) {
			continue
		}
		if s := rule.Suppress; s != nil &&
			containsAny(lower, s.MatchedAnyOf) &&
			containsAny(lower, s.TextAnyOf) {
			continue
		}
		return rule.Bracket
	}

	return c.policy.Fallback
}

func containsAny(text string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(text, k) {
			return true
		}
	}
	return false
}
