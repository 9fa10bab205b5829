package request

// OpenShiftRequest starts a shift with an opening cash float (decimal)
type OpenShiftRequest struct {
	OpeningFloat float64 `json:"opening_float" binding:"min=0"`
}

// TransactionFilterRequest represents transaction listing parameters
type TransactionFilterRequest struct {
	Search    string `form:"search"`
	ShiftID   string `form:"shift_id"`
	StartDate string `form:"start_date"` // YYYY-MM-DD
	EndDate   string `form:"end_date"`   // YYYY-MM-DD
	Page      int    `form:"page"`
	PerPage   int    `form:"per_page"`
}
