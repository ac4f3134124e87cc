package investments

import "errors"

var (
	ErrHoldingNotFound = errors.New("holding not found")
	ErrInvalidSymbol   = errors.New("unknown ticker symbol")
	ErrInvalidShares   = errors.New("share count must be positive")
	ErrInvalidPrice    = errors.New("purchase price must be positive")
)
