package dto

// DefaultLimit is the default number of items per page.
const DefaultLimit = 20

// MaxLimit is the maximum allowed items per page.
const MaxLimit = 100

// PaginationRequest represents offset pagination parameters from the query
// string. The quote collection is small and held in memory, so offsets are
// stable enough and cheaper than cursors here.
type PaginationRequest struct {
	// Offset is the number of items to skip.
	Offset int `form:"offset" json:"offset" validate:"omitempty,gte=0"`

	// Limit is the maximum number of items to return (1-100, default 20).
	Limit int `form:"limit" json:"limit" validate:"omitempty,gte=1,lte=100"`
}

// GetLimit returns the limit with defaults and bounds applied.
func (p *PaginationRequest) GetLimit() int {
	if p.Limit <= 0 {
		return DefaultLimit
	}

	if p.Limit > MaxLimit {
		return MaxLimit
	}

	return p.Limit
}

// GetOffset returns the offset, floored at zero.
func (p *PaginationRequest) GetOffset() int {
	if p.Offset < 0 {
		return 0
	}

	return p.Offset
}

// PaginatedResponse is a generic paginated response structure.
type PaginatedResponse[T any] struct {
	// Items is the page of items.
	Items []T `json:"items"`

	// Total is the total number of items in the collection.
	Total int `json:"total"`

	// HasMore indicates whether items exist past this page.
	HasMore bool `json:"hasMore"`
}

// NewPaginatedResponse slices the full collection into the requested page.
func NewPaginatedResponse[T any](all []T, req *PaginationRequest) *PaginatedResponse[T] {
	offset := req.GetOffset()
	limit := req.GetLimit()

	if offset >= len(all) {
		return &PaginatedResponse[T]{
			Items: []T{},
			Total: len(all),
		}
	}

	end := offset + limit
	if end > len(all) {
		end = len(all)
	}

	return &PaginatedResponse[T]{
		Items:   all[offset:end],
		Total:   len(all),
		HasMore: end < len(all),
	}
}
