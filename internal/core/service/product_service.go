package service

import (
	"context"

	"github.com/techone/pos-api/internal/core/domain"
	"github.com/techone/pos-api/internal/core/ports"
)

// ProductService exposes product master lookups.
type ProductService struct {
	repo ports.ProductRepository
}

func NewProductService(repo ports.ProductRepository) *ProductService {
	return &ProductService{repo: repo}
}

func (s *ProductService) Get(ctx context.Context, code string) (*domain.Product, error) {
	if code == "" {
		return nil, domain.ErrInvalidRequest
	}
	return s.repo.FindByCode(ctx, code)
}

func (s *ProductService) List(ctx context.Context) ([]domain.Product, error) {
	return s.repo.List(ctx)
}
