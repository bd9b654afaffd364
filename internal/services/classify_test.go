package services

import "testing"

func TestBudgetClassifier(t *testing.T) {
	budget := NewBudgetClassifier(2, 10)

	tests := []struct {
		name     string
		message  string
		expected int
	}{
		{"casual greeting", "hi lolo, how was your nap", 2},
		{"explain keyword", "Explain how rainbows form", 10},
		{"news keyword", "any NEWS today?", 10},
		{"how to phrase", "how to bake bread", 10},
		{"empty message", "", 2},
		{"keyword inside word", "I love searching the couch for snacks", 10},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := budget(tc.message); got != tc.expected {
				t.Errorf("Expected budget %d, got %d", tc.expected, got)
			}
		})
	}
}

func TestFixedBudget(t *testing.T) {
	budget := FixedBudget(2)
	if got := budget("explain the latest news in detail"); got != 2 {
		t.Errorf("Expected fixed budget 2, got %d", got)
	}
}
