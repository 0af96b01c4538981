package ports

import (
	"context"

	"github.com/bnema/jobgate/internal/domain"
)

type PlanService interface {
	GetAccountPlan(ctx context.Context, accountID domain.AccountID) (domain.AccountPlanState, error)
}
