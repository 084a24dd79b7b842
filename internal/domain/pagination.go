package domain

import "context"

const (
	DefaultPage     = 1
	DefaultPageSize = 20
	MaxPageSize     = 200
)

// PageRequest is a normalized page/page size pair
type PageRequest struct {
	Page     int
	PageSize int
}

// NewPageRequest normalizes page and pageSize
// Values below 1 fall back to the defaults; pageSize is capped at MaxPageSize
func NewPageRequest(page, pageSize int) PageRequest {
	if page < 1 {
		page = DefaultPage
	}
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}
	return PageRequest{Page: page, PageSize: pageSize}
}

// PageMeta describes a page of results
type PageMeta struct {
	Total    int
	Page     int
	PageSize int
	Pages    int
}

// NewPageMeta computes page metadata for total items
// The requested page is clamped to the last available page
func NewPageMeta(total int, req PageRequest) PageMeta {
	pages := 0
	if total > 0 {
		pages = (total + req.PageSize - 1) / req.PageSize
	}

	page := req.Page
	if pages == 0 {
		page = 1
	} else if page > pages {
		page = pages
	}

	return PageMeta{
		Total:    total,
		Page:     page,
		PageSize: req.PageSize,
		Pages:    pages,
	}
}

// Offset returns the number of rows to skip for this page
func (m PageMeta) Offset() int {
	return (m.Page - 1) * m.PageSize
}

// Page is a page of items with its metadata
type Page[T any] struct {
	Items []T
	Meta  PageMeta
}

// Paginate counts the matching rows, clamps the requested page and fetches it
func Paginate[T any](
	ctx context.Context,
	req PageRequest,
	count func(ctx context.Context) (int, error),
	list func(ctx context.Context, limit, offset int) ([]T, error),
) (*Page[T], error) {
	total, err := count(ctx)
	if err != nil {
		return nil, err
	}

	meta := NewPageMeta(total, req)
	if total == 0 {
		return &Page[T]{Items: []T{}, Meta: meta}, nil
	}

	items, err := list(ctx, meta.PageSize, meta.Offset())
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []T{}
	}

	return &Page[T]{Items: items, Meta: meta}, nil
}
