package sharing

import (
	"context"
	"math"
	"sort"
	"strings"
)

// Net amounts whose magnitude falls below this are floating-point noise
// left over from offsetting contributions and are suppressed.
const balanceEpsilon = 1e-6

// ComputeBalances folds every unsettled participant record the user touches
// into one net amount per counterparty, from the user's perspective:
// positive means the counterparty owes the user.
//
// Two kinds of rows contribute:
//   - expenses the user created: each unsettled other participant adds
//     +(owed - paid) against that participant's identity;
//   - expenses where the user is an unsettled non-creator participant:
//     adds -(owed - paid) against the creator's identity.
func (s *Service) ComputeBalances(ctx context.Context, userID, email string) ([]Balance, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	rows, err := s.repo.ListBalanceRows(ctx, userID, email)
	if err != nil {
		return nil, err
	}

	nets := make(map[string]float64)
	names := make(map[string]string)

	for _, row := range rows {
		if row.IsSettled {
			continue
		}
		outstanding := row.AmountOwed - row.AmountPaid

		if row.CreatorID == userID {
			if row.ParticipantEmail == email {
				continue // the user's own share of their own expense
			}
			nets[row.ParticipantEmail] += outstanding
			if row.ParticipantName != "" {
				names[row.ParticipantEmail] = row.ParticipantName
			}
			continue
		}

		if row.ParticipantEmail == email {
			nets[row.CreatorEmail] -= outstanding
		}
	}

	balances := make([]Balance, 0, len(nets))
	for counterparty, net := range nets {
		if math.Abs(net) < balanceEpsilon {
			continue
		}
		name := names[counterparty]
		if name == "" {
			name, _ = s.resolveName(ctx, counterparty)
		}
		balances = append(balances, Balance{
			Counterparty: counterparty,
			Name:         name,
			Net:          net,
		})
	}

	sort.Slice(balances, func(i, j int) bool {
		return balances[i].Counterparty < balances[j].Counterparty
	})

	return balances, nil
}
