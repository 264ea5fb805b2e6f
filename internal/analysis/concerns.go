package analysis

import (
	"strings"
)

// DetectConcerns returns the categories whose triggers occur in text, in table
// order. Matching is plain substring containment on the lower-cased text, so
// a trigger also matches inside longer words.
func (t *Tables) DetectConcerns(text string) []string {
	lower := strings.ToLower(text)
	found := make([]string, 0)
	for _, c := range t.concerns {
		for _, trig := range c.Triggers {
			if strings.Contains(lower, trig) {
				found = append(found, c.Category)
				break
			}
		}
	}
	return found
}

// normalizeConcerns cleans generated categories: lower-cased, trimmed,
// empties dropped, first occurrence kept.
func normalizeConcerns(raw []string) []string {
	out := make([]string, 0, len(raw))
	seen := make(map[string]struct{}, len(raw))
	for _, c := range raw {
		c = normalize(c)
		if c == "" {
			continue
		}
		if _, dup := seen[c]; dup {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	return out
}
