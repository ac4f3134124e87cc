package handler

import (
	analyticsdomain "splitledger-go/internal/domain/analytics"
	expensesdomain "splitledger-go/internal/domain/expenses"
	groupsdomain "splitledger-go/internal/domain/groups"
	investmentsdomain "splitledger-go/internal/domain/investments"
	settlementsdomain "splitledger-go/internal/domain/settlements"
	sharingdomain "splitledger-go/internal/domain/sharing"
	usersdomain "splitledger-go/internal/domain/users"
	"splitledger-go/internal/quotes"
	"splitledger-go/pkg/logger"
)

type Handlers struct {
	Users       *usersdomain.Service
	Groups      *groupsdomain.Service
	Expenses    *expensesdomain.Service
	Analytics   *analyticsdomain.Service
	Sharing     *sharingdomain.Service
	Settlements *settlementsdomain.Service
	Investments *investmentsdomain.Service
	Quotes      *quotes.Client

	log logger.Logger
}

func New(
	users *usersdomain.Service,
	groups *groupsdomain.Service,
	expenses *expensesdomain.Service,
	analytics *analyticsdomain.Service,
	sharing *sharingdomain.Service,
	settlements *settlementsdomain.Service,
	investments *investmentsdomain.Service,
	quoteClient *quotes.Client,
	log logger.Logger,
) *Handlers {
	return &Handlers{
		Users:       users,
		Groups:      groups,
		Expenses:    expenses,
		Analytics:   analytics,
		Sharing:     sharing,
		Settlements: settlements,
		Investments: investments,
		Quotes:      quoteClient,
		log:         log,
	}
}
