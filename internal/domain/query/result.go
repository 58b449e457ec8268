package query

// Document is one projected item keyed by JSON field name.
type Document = map[string]any

// PageRef points at a neighbouring page.
type PageRef struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

// Pagination describes the neighbours of the current page; absent links are omitted.
type Pagination struct {
	Next *PageRef `json:"next,omitempty"`
	Prev *PageRef `json:"prev,omitempty"`
}

// Paginate computes the neighbour links for page given total matching items.
func Paginate(page, limit int, total int64) Pagination {
	var p Pagination
	// page*limit < total, rearranged so large pages cannot overflow
	if limit > 0 && total > 0 && int64(page) <= (total-1)/int64(limit) {
		p.Next = &PageRef{Page: page + 1, Limit: limit}
	}
	if page > 1 {
		p.Prev = &PageRef{Page: page - 1, Limit: limit}
	}
	return p
}

// Result is one page of documents plus the total matching count.
type Result struct {
	Items []Document
	Total int64
	Page  int
	Limit int
}

func (r Result) Pagination() Pagination { return Paginate(r.Page, r.Limit, r.Total) }
