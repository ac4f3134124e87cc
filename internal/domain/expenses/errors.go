package expenses

import "errors"

var (
	ErrExpenseNotFound = errors.New("expense not found")
	ErrEmptyTitle      = errors.New("title is required")
	ErrInvalidAmount   = errors.New("amount must be positive")
)
