package handler

import (
	"time"

	"github.com/techone/pos-api/internal/core/domain"
)

// purchaseLineRequest is one requested line. Only code and qty matter for
// catalogued products; name and unit_price are honoured solely for unknown
// codes under the custom-item policy.
type purchaseLineRequest struct {
	Code      string `json:"code"       validate:"required,len=13,numeric"`
	Qty       int    `json:"qty"        validate:"required,min=1,max=999"`
	Name      string `json:"name"       validate:"omitempty,max=255"`
	UnitPrice *int   `json:"unit_price" validate:"omitempty,gte=0"`
}

type purchaseRequest struct {
	Lines     []purchaseLineRequest `json:"lines"      validate:"required,min=1,dive"`
	DeviceID  string                `json:"device_id"  validate:"omitempty,max=128"`
	CashierID string                `json:"cashier_id" validate:"omitempty,max=128"`
}

type saleResponse struct {
	TransactionID string            `json:"transaction_id"`
	CreatedAt     time.Time         `json:"created_at"`
	TTLAmtExTax   int               `json:"ttl_amt_ex_tax"`
	TaxAmt        int               `json:"tax_amt"`
	TotalAmt      int               `json:"total_amt"`
	ClerkCD       string            `json:"clerk_cd"`
	StoreCD       string            `json:"store_cd"`
	PosID         string            `json:"pos_id"`
	Lines         []domain.SaleLine `json:"lines"`
}

type saleListResponse struct {
	Sales []saleResponse `json:"sales"`
}

func toSaleResponse(s *domain.Sale) saleResponse {
	return saleResponse{
		TransactionID: s.ID,
		CreatedAt:     s.CreatedAt,
		TTLAmtExTax:   s.TTLAmtExTax,
		TaxAmt:        s.TaxAmt,
		TotalAmt:      s.TotalAmt,
		ClerkCD:       s.ClerkCD,
		StoreCD:       s.StoreCD,
		PosID:         s.PosID,
		Lines:         s.Lines,
	}
}
