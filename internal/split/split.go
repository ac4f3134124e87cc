// Package split computes per-participant shares of a shared expense.
//
// ComputeShares is a pure projection: it never rounds, never validates that
// percentage or custom inputs balance against the total, and holds no state,
// so callers can recompute on every edit. Balance validation lives in
// Validate and is applied by the service layer before persisting.
package split

import (
	"errors"
	"fmt"
	"math"
)

// Method is the rule used to divide a total among participants.
type Method string

const (
	MethodEqual      Method = "equal"
	MethodPercentage Method = "percentage"
	MethodCustom     Method = "custom"
	MethodShares     Method = "shares"
)

var (
	ErrNoParticipants        = errors.New("must have at least one participant")
	ErrInvalidTotal          = errors.New("total amount must be positive")
	ErrUnknownMethod         = errors.New("unknown split method")
	ErrImbalancedPercentages = errors.New("percentages must sum to 100")
	ErrImbalancedAmounts     = errors.New("custom amounts must sum to the total")
	ErrInvalidShares         = errors.New("share counts must be non-negative")
)

// balanceTolerance is the absolute error allowed when checking that a
// distribution adds up, matching the tolerance used at presentation time.
const balanceTolerance = 0.01

// ParseMethod converts the wire representation of a split method.
func ParseMethod(value string) (Method, error) {
	switch Method(value) {
	case MethodEqual, MethodPercentage, MethodCustom, MethodShares:
		return Method(value), nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownMethod, value)
}

// Input carries one participant's method-specific split parameters.
// Only the field matching the method is consulted; the rest are ignored.
type Input struct {
	Identity   string
	Percentage float64 // percentage method; 0 when absent
	Shares     int     // shares method; 0 means 1 share
	Amount     float64 // custom method; 0 when absent
}

// Share is one participant's computed owed amount.
type Share struct {
	Identity   string
	AmountOwed float64
}

// ComputeShares divides total among the participants according to method.
// Output order matches input order. Results are unrounded so that the sum
// of shares stays within floating-point epsilon of the total.
func ComputeShares(total float64, method Method, inputs []Input) ([]Share, error) {
	if len(inputs) == 0 {
		return nil, ErrNoParticipants
	}
	if total <= 0 {
		return nil, ErrInvalidTotal
	}

	shares := make([]Share, len(inputs))
	switch method {
	case MethodEqual:
		perPerson := total / float64(len(inputs))
		for i, in := range inputs {
			shares[i] = Share{Identity: in.Identity, AmountOwed: perPerson}
		}
	case MethodPercentage:
		for i, in := range inputs {
			shares[i] = Share{Identity: in.Identity, AmountOwed: total * in.Percentage / 100}
		}
	case MethodShares:
		totalShares := 0
		for _, in := range inputs {
			totalShares += shareCount(in)
		}
		for i, in := range inputs {
			shares[i] = Share{
				Identity:   in.Identity,
				AmountOwed: total * float64(shareCount(in)) / float64(totalShares),
			}
		}
	case MethodCustom:
		for i, in := range inputs {
			shares[i] = Share{Identity: in.Identity, AmountOwed: in.Amount}
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownMethod, method)
	}

	return shares, nil
}

// Validate checks the distribution constraints the calculator itself does
// not enforce: percentages summing to 100 and custom amounts summing to the
// total. Callers run this before persisting, not before display.
func Validate(total float64, method Method, inputs []Input) error {
	if len(inputs) == 0 {
		return ErrNoParticipants
	}
	if total <= 0 {
		return ErrInvalidTotal
	}

	switch method {
	case MethodPercentage:
		var sum float64
		for _, in := range inputs {
			if in.Percentage < 0 || in.Percentage > 100 {
				return fmt.Errorf("%w: percentage %.2f out of range", ErrImbalancedPercentages, in.Percentage)
			}
			sum += in.Percentage
		}
		if math.Abs(sum-100) > balanceTolerance {
			return fmt.Errorf("%w: got %.2f", ErrImbalancedPercentages, sum)
		}
	case MethodCustom:
		var sum float64
		for _, in := range inputs {
			if in.Amount < 0 {
				return fmt.Errorf("%w: negative amount %.2f", ErrImbalancedAmounts, in.Amount)
			}
			sum += in.Amount
		}
		if math.Abs(sum-total) > balanceTolerance {
			return fmt.Errorf("%w: amounts sum to %.2f, total is %.2f", ErrImbalancedAmounts, sum, total)
		}
	case MethodShares:
		for _, in := range inputs {
			if in.Shares < 0 {
				return ErrInvalidShares
			}
		}
	}

	return nil
}

func shareCount(in Input) int {
	if in.Shares <= 0 {
		return 1
	}
	return in.Shares
}
