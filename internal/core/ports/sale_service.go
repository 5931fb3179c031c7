package ports

import (
	"context"

	"github.com/techone/pos-api/internal/core/domain"
)

// SaleLineInput is a single requested line. Name and UnitPrice are only
// honoured for unknown codes under the custom-item policy; for catalogued
// products the master data always wins.
type SaleLineInput struct {
	Code      string
	Qty       int
	Name      string
	UnitPrice *int
}

// CreateSaleInput carries everything a sale submission may include. DeviceID
// and CashierID are optional; when present they are salted-hashed into the
// fixed pos/clerk identifiers.
type CreateSaleInput struct {
	Lines     []SaleLineInput
	DeviceID  string
	CashierID string
}

// SaleService defines the recomputation engine's use cases.
type SaleService interface {
	Create(ctx context.Context, input CreateSaleInput) (*domain.Sale, error)
	List(ctx context.Context, limit int) ([]domain.Sale, error)
	Summary(ctx context.Context) (*domain.SalesSummary, error)
	Delete(ctx context.Context, id string) error
}
