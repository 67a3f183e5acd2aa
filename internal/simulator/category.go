package simulator

import "fmt"

type Category string

const (
	CategoryCodeExecution Category = "code_execution"
	CategoryFileOperation Category = "file_operation"
	CategoryWebSearch     Category = "web_search"
	CategoryPlanning      Category = "planning"
	CategoryDataAnalysis  Category = "data_analysis"
	CategoryGeneral       Category = "general"
)

// Categories lists every category in classification priority order.
var Categories = []Category{
	CategoryCodeExecution,
	CategoryFileOperation,
	CategoryWebSearch,
	CategoryPlanning,
	CategoryDataAnalysis,
	CategoryGeneral,
}

var ValidCategories = map[Category]string{
	CategoryCodeExecution: "Code generation and execution (Python, scripts, functions)",
	CategoryFileOperation: "File manipulation and editing",
	CategoryWebSearch:     "Web research and information gathering",
	CategoryPlanning:      "Task planning and organization",
	CategoryDataAnalysis:  "Data analysis and visualization",
	CategoryGeneral:       "Anything else; lists the agent's capabilities",
}

var categoryTools = map[Category]string{
	CategoryCodeExecution: "python_execute",
	CategoryFileOperation: "str_replace_editor",
	CategoryWebSearch:     "web_search",
	CategoryPlanning:      "planning",
	CategoryDataAnalysis:  "data_visualization",
	CategoryGeneral:       "none",
}

func (c Category) IsValid() bool {
	_, ok := ValidCategories[c]
	return ok
}

// Tool returns the simulated tool name reported in the category's response.
func (c Category) Tool() string {
	if tool, ok := categoryTools[c]; ok {
		return tool
	}
	return "none"
}

func (c Category) String() string {
	return string(c)
}

func ParseCategory(s string) (Category, error) {
	cat := Category(s)
	if !cat.IsValid() {
		return "", fmt.Errorf("unknown category: %q", s)
	}
	return cat, nil
}
