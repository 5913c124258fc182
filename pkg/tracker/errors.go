package tracker

import "errors"

var (
	// ErrInvalidInput marks validation failures: malformed amounts, empty
	// descriptions, bad identifiers. Nothing is mutated when it is returned.
	ErrInvalidInput = errors.New("invalid input")
	// ErrNotRegistered is returned when the acting chat id has no user row.
	ErrNotRegistered = errors.New("user is not registered")
	// ErrExpenseNotFound is returned when an expense does not exist or is
	// owned by another user.
	ErrExpenseNotFound = errors.New("expense not found")
	// ErrBudgetNotFound is returned when no budget is set for the category.
	ErrBudgetNotFound = errors.New("budget not found")
)
