package sharing

import (
	"context"
	"strings"
)

// Capability checks are small, direct lookups composed with OR at the call
// site. None of them re-enters another check, so there is no way to recurse.

func isCreator(expense *SharedExpense, userID string) bool {
	return expense.CreatorID == userID
}

func isOwnParticipant(email string, participants []Participant) bool {
	email = strings.ToLower(strings.TrimSpace(email))
	for _, p := range participants {
		if p.Email == email {
			return true
		}
	}
	return false
}

func (s *Service) isGroupMember(ctx context.Context, expense *SharedExpense, userID string) (bool, error) {
	if expense.GroupID == nil || s.groups == nil {
		return false, nil
	}
	return s.groups.IsMember(ctx, *expense.GroupID, userID)
}

func (s *Service) canView(ctx context.Context, userID, email string, expense *SharedExpense, participants []Participant) (bool, error) {
	if isCreator(expense, userID) {
		return true, nil
	}
	if isOwnParticipant(email, participants) {
		return true, nil
	}
	return s.isGroupMember(ctx, expense, userID)
}
