package settlements

import "errors"

var (
	ErrSettlementNotFound = errors.New("settlement not found")
	ErrInvalidAmount      = errors.New("settlement amount must be positive")
	ErrSamePayerPayee     = errors.New("payer and payee must differ")
	ErrMissingParty       = errors.New("payer and payee emails are required")
	ErrTerminalState      = errors.New("settlement is already completed or cancelled")
	ErrNotParty           = errors.New("not a party to this settlement")
)
