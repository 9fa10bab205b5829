package entity

// ReceiptHeader holds the store/business header printed at the top of a receipt.
type ReceiptHeader struct {
	StoreName string `json:"store_name"`
	Address   string `json:"address,omitempty"`
	Phone     string `json:"phone,omitempty"`
	TaxID     string `json:"tax_id,omitempty"`
}

// ReceiptLine represents a single line item on a receipt. Weighed lines
// carry Weight/WeightUnit instead of Quantity.
type ReceiptLine struct {
	Name       string  `json:"name"`
	Quantity   int     `json:"quantity,omitempty"`
	Weight     float64 `json:"weight,omitempty"`
	WeightUnit string  `json:"weight_unit,omitempty"`
	UnitPrice  float64 `json:"unit_price"`
	Total      float64 `json:"total"`
}

// Receipt is a read-only projection built from the cart session, the
// transaction record and the cashier/business identity. It is composed at
// completion time and never persisted as its own entity.
type Receipt struct {
	Header        ReceiptHeader `json:"header"`
	ReceiptNo     string        `json:"receipt_no"`
	TransactionID string        `json:"transaction_id"`
	Date          string        `json:"date"`
	Cashier       string        `json:"cashier,omitempty"`
	PaymentMethod string        `json:"payment_method"`
	Lines         []ReceiptLine `json:"lines"`
	SubTotal      float64       `json:"sub_total"`
	Tax           float64       `json:"tax"`
	Total         float64       `json:"total"`
	Tendered      float64       `json:"tendered,omitempty"`
	Change        float64       `json:"change,omitempty"`
}
