package ports

import (
	"context"

	"github.com/techone/pos-api/internal/core/domain"
)

// ProductService defines product master lookups.
type ProductService interface {
	// Get returns domain.ErrProductNotFound for unknown codes.
	Get(ctx context.Context, code string) (*domain.Product, error)
	List(ctx context.Context) ([]domain.Product, error)
}
