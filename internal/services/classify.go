package services

import "strings"

// BudgetFunc maps a user message to a sentence budget. Pluggable so handlers
// can be tested with a fixed budget and the heuristic swapped out.
type BudgetFunc func(message string) int

// informationalKeywords marks messages that deserve a longer answer. False
// positives and negatives are acceptable; this only tunes brevity.
var informationalKeywords = []string{
	"query", "search", "summarize", "explain", "compare", "analyze",
	"latest", "news", "price", "how to", "how-to", "tutorial",
	"what is", "what are", "why", "difference between",
}

// NewBudgetClassifier returns a BudgetFunc choosing between a casual and an
// informational sentence budget via case-insensitive substring match.
func NewBudgetClassifier(casual, informational int) BudgetFunc {
	return func(message string) int {
		lower := strings.ToLower(message)
		for _, kw := range informationalKeywords {
			if strings.Contains(lower, kw) {
				return informational
			}
		}
		return casual
	}
}

// FixedBudget always returns n. Used for the voice path, where replies stay
// short regardless of what was asked.
func FixedBudget(n int) BudgetFunc {
	return func(string) int { return n }
}
