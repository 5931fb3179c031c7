package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/techone/pos-api/internal/core/domain"
	"github.com/techone/pos-api/internal/core/ports"
)

// RateClassSales is the limiter class for sale submissions.
const RateClassSales = "sales"

const (
	maxLineQty       = 999
	defaultListLimit = 50
	maxListLimit     = 200
)

var codePattern = regexp.MustCompile(`^\d{13}$`)

// SaleConfig holds the fixed parameters of the recomputation engine, read
// once at startup and threaded in explicitly.
type SaleConfig struct {
	TaxRatePercent   int
	TaxCode          string
	AllowCustomItems bool
	IDHashSalt       string
	ClerkCode        string
	StoreCode        string
	PosID            string
}

// SaleService recomputes transaction amounts authoritatively from the product
// master. Client-supplied prices and totals are ignored for catalogued codes.
type SaleService struct {
	products ports.ProductRepository
	sales    ports.SaleRepository
	cfg      SaleConfig
	logger   zerolog.Logger
	now      func() time.Time
}

// NewSaleService creates a SaleService. now may be nil (time.Now).
func NewSaleService(products ports.ProductRepository, sales ports.SaleRepository, cfg SaleConfig, logger zerolog.Logger, now func() time.Time) *SaleService {
	if cfg.TaxRatePercent <= 0 {
		cfg.TaxRatePercent = 10
	}
	if cfg.TaxCode == "" {
		cfg.TaxCode = "10"
	}
	if cfg.ClerkCode == "" {
		cfg.ClerkCode = "9999999999"
	}
	if cfg.StoreCode == "" {
		cfg.StoreCode = "30"
	}
	if cfg.PosID == "" {
		cfg.PosID = "90"
	}
	if now == nil {
		now = time.Now
	}
	return &SaleService{products: products, sales: sales, cfg: cfg, logger: logger, now: now}
}

// Create validates and recomputes the requested lines, then persists the sale
// atomically. Lines repeating a code are merged, quantities summed, with the
// first occurrence keeping its position.
func (s *SaleService) Create(ctx context.Context, input ports.CreateSaleInput) (*domain.Sale, error) {
	merged, err := mergeLines(input.Lines)
	if err != nil {
		return nil, err
	}

	lines := make([]domain.SaleLine, 0, len(merged))
	exTax := 0
	custom := false
	for _, in := range merged {
		line, err := s.resolveLine(ctx, in)
		if err != nil {
			return nil, err
		}
		exTax += line.LineTotal
		custom = custom || line.Custom
		lines = append(lines, line)
	}

	// Tax is rounded half-up on the aggregate, not per line, so repeated small
	// lines cannot accumulate rounding drift.
	taxAmt := (exTax*s.cfg.TaxRatePercent + 50) / 100

	sale := &domain.Sale{
		ID:          uuid.NewString(),
		CreatedAt:   s.now().UTC(),
		TTLAmtExTax: exTax,
		TaxAmt:      taxAmt,
		TotalAmt:    exTax + taxAmt,
		ClerkCD:     s.identifier(input.CashierID, s.cfg.ClerkCode),
		StoreCD:     s.cfg.StoreCode,
		PosID:       s.identifier(input.DeviceID, s.cfg.PosID),
		Lines:       lines,
	}

	if err := s.sales.Create(ctx, sale); err != nil {
		s.logger.Error().Err(err).Msg("failed to persist sale")
		return nil, err
	}

	s.logger.Info().
		Str("sale_id", sale.ID).
		Int("total_amt", sale.TotalAmt).
		Int("line_count", len(sale.Lines)).
		Bool("custom", custom).
		Msg("sale recorded")

	return sale, nil
}

func (s *SaleService) List(ctx context.Context, limit int) ([]domain.Sale, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	return s.sales.List(ctx, limit)
}

func (s *SaleService) Summary(ctx context.Context) (*domain.SalesSummary, error) {
	return s.sales.Summary(ctx)
}

func (s *SaleService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return domain.ErrInvalidRequest
	}
	if err := s.sales.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Str("sale_id", id).Msg("sale deleted")
	return nil
}

// resolveLine looks the code up in the product master. The master's name and
// price always win for known codes; unknown codes are only accepted under the
// custom-item policy and must then carry a name and a non-negative price.
func (s *SaleService) resolveLine(ctx context.Context, in ports.SaleLineInput) (domain.SaleLine, error) {
	p, err := s.products.FindByCode(ctx, in.Code)
	switch {
	case err == nil:
		return domain.SaleLine{
			Code:      p.Code,
			Name:      p.Name,
			UnitPrice: p.UnitPrice,
			Qty:       in.Qty,
			LineTotal: p.UnitPrice * in.Qty,
			TaxCD:     s.cfg.TaxCode,
		}, nil
	case errors.Is(err, domain.ErrProductNotFound):
		if !s.cfg.AllowCustomItems {
			return domain.SaleLine{}, fmt.Errorf("%w: %s", domain.ErrProductNotFound, in.Code)
		}
		if in.Name == "" || in.UnitPrice == nil || *in.UnitPrice < 0 {
			return domain.SaleLine{}, fmt.Errorf("%w: custom item %s requires name and unit_price", domain.ErrInvalidRequest, in.Code)
		}
		return domain.SaleLine{
			Code:      in.Code,
			Name:      in.Name,
			UnitPrice: *in.UnitPrice,
			Qty:       in.Qty,
			LineTotal: *in.UnitPrice * in.Qty,
			TaxCD:     s.cfg.TaxCode,
			Custom:    true,
		}, nil
	default:
		return domain.SaleLine{}, err
	}
}

// identifier returns the salted hash of a client-supplied device/cashier id,
// or the configured default when none was sent.
func (s *SaleService) identifier(raw, fallback string) string {
	if raw == "" {
		return fallback
	}
	sum := sha256.Sum256([]byte(s.cfg.IDHashSalt + raw))
	return hex.EncodeToString(sum[:])[:10]
}

// mergeLines validates the requested lines and merges duplicates of the same
// code, preserving first-seen order.
func mergeLines(lines []ports.SaleLineInput) ([]ports.SaleLineInput, error) {
	if len(lines) == 0 {
		return nil, fmt.Errorf("%w: lines must not be empty", domain.ErrInvalidRequest)
	}

	index := make(map[string]int, len(lines))
	merged := make([]ports.SaleLineInput, 0, len(lines))
	for _, in := range lines {
		if !codePattern.MatchString(in.Code) {
			return nil, fmt.Errorf("%w: code must be a 13-digit JAN", domain.ErrInvalidRequest)
		}
		if in.Qty < 1 || in.Qty > maxLineQty {
			return nil, fmt.Errorf("%w: qty must be between 1 and %d", domain.ErrInvalidRequest, maxLineQty)
		}
		if i, ok := index[in.Code]; ok {
			merged[i].Qty += in.Qty
			continue
		}
		index[in.Code] = len(merged)
		merged = append(merged, in)
	}
	return merged, nil
}
