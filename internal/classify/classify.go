// Package classify assigns a category and tags to generated text by
// case-insensitive keyword match.
package classify

import "strings"

const DefaultCategory = "Technology"

// Rule maps a label to the keywords that select it.
type Rule struct {
	Label    string
	Keywords []string
}

// DefaultCategoryRules are checked in order; the first hit wins.
var DefaultCategoryRules = []Rule{
	{Label: "Business", Keywords: []string{"business", "market", "finance"}},
	{Label: "Education", Keywords: []string{"education", "learning", "student"}},
	{Label: "AI", Keywords: []string{"ai", "artificial intelligence", "machine learning"}},
}

// DefaultTagRules yield every label whose keywords appear, in table order.
var DefaultTagRules = []Rule{
	{Label: "AI", Keywords: []string{"ai", "artificial intelligence"}},
	{Label: "Business", Keywords: []string{"business"}},
	{Label: "Technology", Keywords: []string{"technology"}},
	{Label: "Education", Keywords: []string{"education"}},
	{Label: "Innovation", Keywords: []string{"innovation"}},
	{Label: "Healthcare", Keywords: []string{"healthcare"}},
	{Label: "Finance", Keywords: []string{"finance"}},
}

// Matches reports whether any keyword occurs in lower, which must
// already be lowercased. Matching is plain substring, so "ai" also hits
// "said".
func (r Rule) Matches(lower string) bool {
	for _, k := range r.Keywords {
		if strings.Contains(lower, k) {
			return true
		}
	}
	return false
}

// Category returns the label of the first matching rule, or def.
func Category(text string, rules []Rule, def string) string {
	lower := strings.ToLower(text)
	for _, r := range rules {
		if r.Matches(lower) {
			return r.Label
		}
	}
	return def
}

// Tags returns the label of every matching rule. The result is never nil.
func Tags(text string, rules []Rule) []string {
	lower := strings.ToLower(text)
	out := []string{}
	for _, r := range rules {
		if r.Matches(lower) {
			out = append(out, r.Label)
		}
	}
	return out
}
