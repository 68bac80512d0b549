package consent

// PageResponse is the body of GET /consents.
type PageResponse struct {
	Data     []Record `json:"data"`
	Total    int      `json:"total"`
	Page     int      `json:"page"`
	PageSize int      `json:"pageSize"`
}

// ErrorResponse is the body of a rejected request.
type ErrorResponse struct {
	Error   string       `json:"error"`
	Details []FieldError `json:"details,omitempty"`
}
