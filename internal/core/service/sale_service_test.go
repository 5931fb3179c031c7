package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/techone/pos-api/internal/core/domain"
	"github.com/techone/pos-api/internal/core/ports"
)

type stubProductRepo struct {
	products map[string]domain.Product
}

func (r *stubProductRepo) FindByCode(_ context.Context, code string) (*domain.Product, error) {
	p, ok := r.products[code]
	if !ok {
		return nil, domain.ErrProductNotFound
	}
	return &p, nil
}

func (r *stubProductRepo) List(_ context.Context) ([]domain.Product, error) {
	out := make([]domain.Product, 0, len(r.products))
	for _, p := range r.products {
		out = append(out, p)
	}
	return out, nil
}

type stubSaleRepo struct {
	created []*domain.Sale
	deleted []string
}

func (r *stubSaleRepo) Create(_ context.Context, sale *domain.Sale) error {
	r.created = append(r.created, sale)
	return nil
}

func (r *stubSaleRepo) List(_ context.Context, limit int) ([]domain.Sale, error) {
	out := make([]domain.Sale, 0, len(r.created))
	for i := len(r.created) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, *r.created[i])
	}
	return out, nil
}

func (r *stubSaleRepo) Summary(_ context.Context) (*domain.SalesSummary, error) {
	s := &domain.SalesSummary{}
	for _, sale := range r.created {
		s.Count++
		s.TTLAmtExTax += int64(sale.TTLAmtExTax)
		s.TaxAmt += int64(sale.TaxAmt)
		s.TotalAmt += int64(sale.TotalAmt)
	}
	return s, nil
}

func (r *stubSaleRepo) Delete(_ context.Context, id string) error {
	for _, sale := range r.created {
		if sale.ID == id {
			r.deleted = append(r.deleted, id)
			return nil
		}
	}
	return domain.ErrSaleNotFound
}

func testCatalog() *stubProductRepo {
	return &stubProductRepo{products: map[string]domain.Product{
		"4901234567890": {Code: "4901234567890", Name: "万年筆", UnitPrice: 18000},
		"4901234567906": {Code: "4901234567906", Name: "ボールペン", UnitPrice: 150},
	}}
}

func newTestSaleService(products *stubProductRepo, sales *stubSaleRepo, cfg SaleConfig) *SaleService {
	return NewSaleService(products, sales, cfg, zerolog.Nop(), nil)
}

func intPtr(v int) *int { return &v }

func TestCreate_RecomputesAmounts(t *testing.T) {
	repo := &stubSaleRepo{}
	svc := newTestSaleService(testCatalog(), repo, SaleConfig{})

	sale, err := svc.Create(context.Background(), ports.CreateSaleInput{
		Lines: []ports.SaleLineInput{{Code: "4901234567890", Qty: 2}},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if sale.TTLAmtExTax != 36000 {
		t.Errorf("ttl_amt_ex_tax = %d, want 36000", sale.TTLAmtExTax)
	}
	if sale.TaxAmt != 3600 {
		t.Errorf("tax_amt = %d, want 3600", sale.TaxAmt)
	}
	if sale.TotalAmt != 39600 {
		t.Errorf("total_amt = %d, want 39600", sale.TotalAmt)
	}
	if sale.ClerkCD != "9999999999" || sale.StoreCD != "30" || sale.PosID != "90" {
		t.Errorf("identifiers = %s/%s/%s, want defaults", sale.ClerkCD, sale.StoreCD, sale.PosID)
	}
	if len(repo.created) != 1 {
		t.Fatalf("persisted %d sales, want 1", len(repo.created))
	}
	line := sale.Lines[0]
	if line.Name != "万年筆" || line.UnitPrice != 18000 || line.LineTotal != 36000 || line.TaxCD != "10" {
		t.Errorf("line = %+v, want master data applied", line)
	}
}

func TestCreate_IgnoresClientPriceForKnownCode(t *testing.T) {
	svc := newTestSaleService(testCatalog(), &stubSaleRepo{}, SaleConfig{})

	sale, err := svc.Create(context.Background(), ports.CreateSaleInput{
		Lines: []ports.SaleLineInput{
			{Code: "4901234567906", Qty: 1, Name: "forged", UnitPrice: intPtr(1)},
		},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if sale.Lines[0].UnitPrice != 150 || sale.Lines[0].Name != "ボールペン" {
		t.Errorf("line = %+v, client-supplied price/name must not win", sale.Lines[0])
	}
	if sale.Lines[0].Custom {
		t.Error("catalogued line flagged as custom")
	}
}

func TestCreate_TaxRoundsHalfUpOnAggregate(t *testing.T) {
	// 3 × 150 = 450, 10% = 45 exactly; 1 × 145 would give 14.5 → 15.
	products := &stubProductRepo{products: map[string]domain.Product{
		"4900000000017": {Code: "4900000000017", Name: "A", UnitPrice: 145},
	}}
	svc := newTestSaleService(products, &stubSaleRepo{}, SaleConfig{})

	sale, err := svc.Create(context.Background(), ports.CreateSaleInput{
		Lines: []ports.SaleLineInput{{Code: "4900000000017", Qty: 1}},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if sale.TaxAmt != 15 {
		t.Errorf("tax_amt = %d, want 15 (14.5 rounded half-up)", sale.TaxAmt)
	}
	if sale.TotalAmt != 160 {
		t.Errorf("total_amt = %d, want 160", sale.TotalAmt)
	}
}

func TestCreate_MergesDuplicateCodes(t *testing.T) {
	svc := newTestSaleService(testCatalog(), &stubSaleRepo{}, SaleConfig{})

	sale, err := svc.Create(context.Background(), ports.CreateSaleInput{
		Lines: []ports.SaleLineInput{
			{Code: "4901234567906", Qty: 1},
			{Code: "4901234567890", Qty: 1},
			{Code: "4901234567906", Qty: 2},
		},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if len(sale.Lines) != 2 {
		t.Fatalf("line count = %d, want 2 after merging", len(sale.Lines))
	}
	if sale.Lines[0].Code != "4901234567906" || sale.Lines[0].Qty != 3 {
		t.Errorf("merged line = %+v, want qty 3 in first-seen position", sale.Lines[0])
	}
	if sale.Lines[1].Code != "4901234567890" {
		t.Errorf("second line = %+v, want the other code", sale.Lines[1])
	}
}

func TestCreate_UnknownCode(t *testing.T) {
	t.Run("rejected by default", func(t *testing.T) {
		svc := newTestSaleService(testCatalog(), &stubSaleRepo{}, SaleConfig{})
		_, err := svc.Create(context.Background(), ports.CreateSaleInput{
			Lines: []ports.SaleLineInput{{Code: "4999999999990", Qty: 1}},
		})
		if !errors.Is(err, domain.ErrProductNotFound) {
			t.Fatalf("err = %v, want ErrProductNotFound", err)
		}
	})

	t.Run("accepted under custom-item policy", func(t *testing.T) {
		svc := newTestSaleService(testCatalog(), &stubSaleRepo{}, SaleConfig{AllowCustomItems: true})
		sale, err := svc.Create(context.Background(), ports.CreateSaleInput{
			Lines: []ports.SaleLineInput{
				{Code: "4999999999990", Qty: 2, Name: "持込品", UnitPrice: intPtr(500)},
			},
		})
		if err != nil {
			t.Fatalf("Create: %v", err)
		}
		line := sale.Lines[0]
		if !line.Custom || line.UnitPrice != 500 || line.LineTotal != 1000 {
			t.Errorf("line = %+v, want custom line priced from the request", line)
		}
	})

	t.Run("custom item requires name and price", func(t *testing.T) {
		svc := newTestSaleService(testCatalog(), &stubSaleRepo{}, SaleConfig{AllowCustomItems: true})
		_, err := svc.Create(context.Background(), ports.CreateSaleInput{
			Lines: []ports.SaleLineInput{{Code: "4999999999990", Qty: 1}},
		})
		if !errors.Is(err, domain.ErrInvalidRequest) {
			t.Fatalf("err = %v, want ErrInvalidRequest", err)
		}
	})
}

func TestCreate_RejectsBadLines(t *testing.T) {
	svc := newTestSaleService(testCatalog(), &stubSaleRepo{}, SaleConfig{})

	cases := []struct {
		name  string
		lines []ports.SaleLineInput
	}{
		{"empty", nil},
		{"short code", []ports.SaleLineInput{{Code: "1234", Qty: 1}}},
		{"non-numeric code", []ports.SaleLineInput{{Code: "49012345678AB", Qty: 1}}},
		{"zero qty", []ports.SaleLineInput{{Code: "4901234567890", Qty: 0}}},
		{"negative qty", []ports.SaleLineInput{{Code: "4901234567890", Qty: -1}}},
		{"qty over cap", []ports.SaleLineInput{{Code: "4901234567890", Qty: 1000}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), ports.CreateSaleInput{Lines: tc.lines})
			if !errors.Is(err, domain.ErrInvalidRequest) {
				t.Fatalf("err = %v, want ErrInvalidRequest", err)
			}
		})
	}
}

func TestCreate_HashesClientIdentifiers(t *testing.T) {
	svc := newTestSaleService(testCatalog(), &stubSaleRepo{}, SaleConfig{IDHashSalt: "pepper"})

	sale, err := svc.Create(context.Background(), ports.CreateSaleInput{
		Lines:     []ports.SaleLineInput{{Code: "4901234567890", Qty: 1}},
		DeviceID:  "register-7",
		CashierID: "tanaka",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if sale.PosID == "register-7" || sale.ClerkCD == "tanaka" {
		t.Error("raw client identifiers leaked into the sale record")
	}
	if len(sale.PosID) != 10 || len(sale.ClerkCD) != 10 {
		t.Errorf("hashed identifiers = %q/%q, want 10 hex chars each", sale.PosID, sale.ClerkCD)
	}
	if sale.PosID == "90" || sale.ClerkCD == "9999999999" {
		t.Error("defaults used despite client-supplied identifiers")
	}

	// Same inputs, same salt: the mapping must be stable across sales.
	again, err := svc.Create(context.Background(), ports.CreateSaleInput{
		Lines:     []ports.SaleLineInput{{Code: "4901234567890", Qty: 1}},
		DeviceID:  "register-7",
		CashierID: "tanaka",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if again.PosID != sale.PosID || again.ClerkCD != sale.ClerkCD {
		t.Error("identifier hashing is not deterministic")
	}
}

func TestList_ClampsLimit(t *testing.T) {
	repo := &stubSaleRepo{}
	svc := newTestSaleService(testCatalog(), repo, SaleConfig{})
	ctx := context.Background()

	for i := 0; i < 60; i++ {
		if _, err := svc.Create(ctx, ports.CreateSaleInput{
			Lines: []ports.SaleLineInput{{Code: "4901234567906", Qty: 1}},
		}); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	sales, err := svc.List(ctx, 0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(sales) != 50 {
		t.Errorf("default limit returned %d sales, want 50", len(sales))
	}

	sales, err = svc.List(ctx, 10_000)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(sales) != 60 {
		t.Errorf("capped limit returned %d sales, want all 60", len(sales))
	}
}

func TestDelete(t *testing.T) {
	repo := &stubSaleRepo{}
	svc := newTestSaleService(testCatalog(), repo, SaleConfig{})
	ctx := context.Background()

	sale, err := svc.Create(ctx, ports.CreateSaleInput{
		Lines: []ports.SaleLineInput{{Code: "4901234567890", Qty: 1}},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := svc.Delete(ctx, sale.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := svc.Delete(ctx, "missing"); !errors.Is(err, domain.ErrSaleNotFound) {
		t.Fatalf("err = %v, want ErrSaleNotFound", err)
	}
	if err := svc.Delete(ctx, ""); !errors.Is(err, domain.ErrInvalidRequest) {
		t.Fatalf("empty id err = %v, want ErrInvalidRequest", err)
	}
}
