package ports

import (
	"context"

	"github.com/techone/pos-api/internal/core/domain"
)

// SaleRepository persists recorded sales. Create must be atomic: either the
// sale with all of its lines is written, or nothing is.
type SaleRepository interface {
	Create(ctx context.Context, sale *domain.Sale) error
	List(ctx context.Context, limit int) ([]domain.Sale, error)
	Summary(ctx context.Context) (*domain.SalesSummary, error)
	// Delete returns domain.ErrSaleNotFound when no sale has the given id.
	Delete(ctx context.Context, id string) error
}
