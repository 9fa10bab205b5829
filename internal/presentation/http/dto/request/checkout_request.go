package request

// SelectMethodRequest picks a payment method for the active session
type SelectMethodRequest struct {
	Method string `json:"method" binding:"required,oneof=cash card mobile voucher split"`
}

// TenderedRequest sets the cash amount handed over, as a decimal amount
type TenderedRequest struct {
	Tendered float64 `json:"tendered" binding:"min=0"`
}

// CompleteRequest finalizes the sale for a cart session
type CompleteRequest struct {
	Method   string  `json:"method" binding:"required,oneof=cash card mobile voucher split"`
	Tendered float64 `json:"tendered" binding:"omitempty,min=0"`
}

// EmailReceiptRequest sends a receipt to the given address
type EmailReceiptRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// VoidTransactionRequest voids a recorded transaction
type VoidTransactionRequest struct {
	Reason string `json:"reason" binding:"required,min=3"`
}
