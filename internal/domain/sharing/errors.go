package sharing

import "errors"

var (
	ErrExpenseNotFound     = errors.New("shared expense not found")
	ErrParticipantNotFound = errors.New("participant not found")
	ErrNotCreator          = errors.New("only the expense creator may do this")
	ErrNotParticipant      = errors.New("not a participant of this expense")
	ErrAlreadySettled      = errors.New("participant is already settled")
	ErrInvalidAmount       = errors.New("amount must be positive")
	ErrTitleRequired       = errors.New("title is required")
	ErrEmailRequired       = errors.New("participant email is required")
)
