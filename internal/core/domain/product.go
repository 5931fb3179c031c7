package domain

// Product is a row of the read-only product master. Prices are integers in the
// smallest currency unit.
type Product struct {
	Code      string `json:"code"`
	Name      string `json:"name"`
	UnitPrice int    `json:"unit_price"`
}
