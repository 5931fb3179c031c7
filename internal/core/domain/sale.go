package domain

import "time"

// SaleLine is one detail row of a persisted sale. LineTotal is always
// UnitPrice*Qty; the engine never trusts a client-supplied total.
type SaleLine struct {
	Code      string `json:"code"`
	Name      string `json:"name"`
	UnitPrice int    `json:"unit_price"`
	Qty       int    `json:"qty"`
	LineTotal int    `json:"line_total"`
	TaxCD     string `json:"tax_cd"`
	// Custom marks a line accepted under the custom-item policy, i.e. the
	// name and price came from the client rather than the product master.
	Custom bool `json:"custom,omitempty"`
}

// Sale is a recorded transaction. Immutable once persisted except for an
// explicit authorization-gated delete.
type Sale struct {
	ID          string     `json:"id"`
	CreatedAt   time.Time  `json:"created_at"`
	TTLAmtExTax int        `json:"ttl_amt_ex_tax"`
	TaxAmt      int        `json:"tax_amt"`
	TotalAmt    int        `json:"total_amt"`
	ClerkCD     string     `json:"clerk_cd"`
	StoreCD     string     `json:"store_cd"`
	PosID       string     `json:"pos_id"`
	Lines       []SaleLine `json:"lines"`
}

// SalesSummary aggregates all recorded sales.
type SalesSummary struct {
	Count       int64 `json:"count"`
	TTLAmtExTax int64 `json:"ttl_amt_ex_tax"`
	TaxAmt      int64 `json:"tax_amt"`
	TotalAmt    int64 `json:"total_amt"`
}
