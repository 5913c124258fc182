package services

import (
	"context"
	"strings"

	"github.com/vmkteam/embedlog"
)

// Categories is the fixed, ordered list of expense category labels. Every
// classification result is one of these; anything else collapses to
// CategoryOther.
var Categories = []string{
	"Groceries",
	"Rent",
	"Utilities",
	"Transportation",
	"Dining",
	"Entertainment",
	"Health",
	"Education",
	"Clothing",
	"Other",
}

// CategoryOther is the fallback label for unrecognized descriptions.
const CategoryOther = "Other"

// Classifier maps a free-text expense description to one category label.
type Classifier interface {
	Classify(ctx context.Context, description string) (string, error)
}

// NormalizeCategory forces a raw classifier response into the category list.
// The match is exact after trimming; anything else becomes CategoryOther.
func NormalizeCategory(raw string) string {
	label := strings.TrimSpace(raw)
	for _, c := range Categories {
		if label == c {
			return c
		}
	}
	return CategoryOther
}

// MockClassifier is a deterministic keyword-based Classifier for development
// and tests.
type MockClassifier struct {
	logger embedlog.Logger
}

// NewMockClassifier creates a new mock classifier
func NewMockClassifier(logger embedlog.Logger) *MockClassifier {
	return &MockClassifier{logger: logger}
}

// Classify matches the description against category keywords.
func (m *MockClassifier) Classify(ctx context.Context, description string) (string, error) {
	m.logger.Print(ctx, "mock classify expense", "description", description)

	keywords := map[string]string{
		"grocer":     "Groceries",
		"supermark":  "Groceries",
		"food":       "Groceries",
		"rent":       "Rent",
		"electric":   "Utilities",
		"water":      "Utilities",
		"internet":   "Utilities",
		"bus":        "Transportation",
		"taxi":       "Transportation",
		"metro":      "Transportation",
		"fuel":       "Transportation",
		"lunch":      "Dining",
		"dinner":     "Dining",
		"restaurant": "Dining",
		"cafe":       "Dining",
		"coffee":     "Dining",
		"cinema":     "Entertainment",
		"movie":      "Entertainment",
		"game":       "Entertainment",
		"concert":    "Entertainment",
		"pharmacy":   "Health",
		"doctor":     "Health",
		"medicine":   "Health",
		"course":     "Education",
		"book":       "Education",
		"tuition":    "Education",
		"shoes":      "Clothing",
		"jacket":     "Clothing",
		"shirt":      "Clothing",
	}

	lower := strings.ToLower(description)
	for keyword, category := range keywords {
		if strings.Contains(lower, keyword) {
			return category, nil
		}
	}

	return CategoryOther, nil
}
