package ports

import (
	"context"

	"github.com/bnema/jobgate/internal/domain"
)

type PlanCatalogRepository interface {
	Load(ctx context.Context) (*domain.PlanCatalog, error)
	Save(ctx context.Context, catalog *domain.PlanCatalog) error
}
