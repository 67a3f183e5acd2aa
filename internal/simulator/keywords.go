package simulator

import "strings"

// KeywordRule routes input to Category when any keyword is a substring of the
// lowercased input. A rule with no keywords matches everything.
type KeywordRule struct {
	Category Category
	Keywords []string
}

// KeywordSet is evaluated in order; the first matching rule wins.
type KeywordSet []KeywordRule

var DefaultKeywords = KeywordSet{
	{CategoryCodeExecution, []string{"python", "code", "execute", "script", "function"}},
	{CategoryFileOperation, []string{"file", "create", "edit", "write", "read"}},
	{CategoryWebSearch, []string{"search", "find", "web", "internet", "lookup"}},
	{CategoryPlanning, []string{"plan", "organize", "structure", "steps", "project"}},
	{CategoryDataAnalysis, []string{"data", "analyze", "chart", "visualization", "report"}},
	{CategoryGeneral, nil},
}

func (r KeywordRule) Matches(lowered string) bool {
	if len(r.Keywords) == 0 {
		return true
	}
	for _, kw := range r.Keywords {
		if strings.Contains(lowered, kw) {
			return true
		}
	}
	return false
}

// Match returns the category of the first rule matching input, or
// CategoryGeneral when nothing matches. Matching is plain substring search, so
// "script" also hits "description".
func (ks KeywordSet) Match(input string) Category {
	lowered := strings.ToLower(input)
	for _, rule := range ks {
		if rule.Matches(lowered) {
			return rule.Category
		}
	}
	return CategoryGeneral
}
