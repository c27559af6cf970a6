package pagination

import (
	"net/http"
	"strconv"
)

// Params holds pagination parameters extracted from query strings.
type Params struct {
	Page    int `json:"page"`
	PerPage int `json:"per_page"`
	Offset  int `json:"-"`
}

// DefaultParams returns page 1 with the given page size.
func DefaultParams(perPage int) Params {
	return Params{Page: 1, PerPage: perPage}
}

// FromRequest reads `page` and `per_page`, falling back to defaultPerPage.
// per_page is capped at 100.
func FromRequest(r *http.Request, defaultPerPage int) Params {
	p := DefaultParams(defaultPerPage)

	if page := r.URL.Query().Get("page"); page != "" {
		if v, err := strconv.Atoi(page); err == nil && v > 0 {
			p.Page = v
		}
	}
	if perPage := r.URL.Query().Get("per_page"); perPage != "" {
		if v, err := strconv.Atoi(perPage); err == nil && v > 0 && v <= 100 {
			p.PerPage = v
		}
	}

	p.Offset = (p.Page - 1) * p.PerPage
	return p
}

// Result wraps one page of items.
type Result[T any] struct {
	Data       []T  `json:"data"`
	TotalCount int  `json:"total_count"`
	Page       int  `json:"page"`
	PerPage    int  `json:"per_page"`
	TotalPages int  `json:"total_pages"`
	HasNext    bool `json:"has_next"`
	HasPrev    bool `json:"has_prev"`
}

// NewResult builds a Result for data that is already one page of totalCount.
func NewResult[T any](data []T, totalCount int, params Params) Result[T] {
	totalPages := 0
	if params.PerPage > 0 {
		totalPages = totalCount / params.PerPage
		if totalCount%params.PerPage > 0 {
			totalPages++
		}
	}
	if data == nil {
		data = []T{}
	}

	return Result[T]{
		Data:       data,
		TotalCount: totalCount,
		Page:       params.Page,
		PerPage:    params.PerPage,
		TotalPages: totalPages,
		HasNext:    params.Page < totalPages,
		HasPrev:    params.Page > 1,
	}
}

// Paginate slices an in-memory list down to the requested page. A page past
// the end yields an empty page.
func Paginate[T any](all []T, params Params) Result[T] {
	if params.Page < 1 {
		params.Page = 1
	}
	offset := (params.Page - 1) * params.PerPage
	var page []T
	if offset < len(all) {
		end := min(offset+params.PerPage, len(all))
		page = append([]T(nil), all[offset:end]...)
	}
	return NewResult(page, len(all), params)
}
