package pagination

// OffsetRequest represents an offset-based pagination request
type OffsetRequest struct {
	Offset int `json:"offset" query:"offset" validate:"min=0"`
	Limit  int `json:"limit" query:"limit" validate:"min=1,max=100"`
}

// Validate validates and normalizes offset pagination parameters
func (r *OffsetRequest) Validate() error {
	if r.Offset < 0 {
		r.Offset = 0
	}
	if r.Limit <= 0 {
		r.Limit = LimitDefault
	}
	if r.Limit > LimitMax {
		r.Limit = LimitMax
	}
	return nil
}
