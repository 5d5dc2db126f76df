package response

// Page is the pagination block attached to list payloads.
type Page struct {
	Page     int `json:"page"`
	PageSize int `json:"pageSize"`
	Total    int `json:"total"`
}

// NewItems returns items, or an empty slice so JSON never renders null.
func NewItems[T any](items []T) []T {
	if items == nil {
		return make([]T, 0)
	}
	return items
}

// NewPage is a helper to quickly build a Page
func NewPage(page, pageSize, total int) Page {
	return Page{Page: page, PageSize: pageSize, Total: total}
}
