package ports

import (
	"context"

	"github.com/techone/pos-api/internal/core/domain"
)

// ProductRepository is the read-only product master boundary. The core queries
// it and never mutates it.
type ProductRepository interface {
	// FindByCode returns domain.ErrProductNotFound when the code is unknown.
	FindByCode(ctx context.Context, code string) (*domain.Product, error)
	List(ctx context.Context) ([]domain.Product, error)
}
