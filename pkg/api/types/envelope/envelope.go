// Package envelope defines the body shape shared by every response.
package envelope

import (
	apierr "github.com/smartbiz-gst/smartbiz/pkg/api/types/errors"
	"github.com/smartbiz-gst/smartbiz/pkg/domain"
)

type Envelope struct {
	Success    bool                `json:"success"`
	Message    string              `json:"message,omitempty"`
	Data       any                 `json:"data,omitempty"`
	Pagination *Pagination         `json:"pagination,omitempty"`
	Errors     []apierr.FieldError `json:"errors,omitempty"`

	// like toggle only.
	Liked *bool `json:"liked,omitempty"`
	Likes *int  `json:"likes,omitempty"`

	// error details. They are set only outside production.
	Error string   `json:"error,omitempty"`
	Stack []string `json:"stack,omitempty"`
}

type Pagination struct {
	CurrentPage  int  `json:"currentPage"`
	TotalPages   int  `json:"totalPages"`
	TotalItems   int  `json:"totalItems"`
	ItemsPerPage int  `json:"itemsPerPage"`
	HasNextPage  bool `json:"hasNextPage"`
	HasPrevPage  bool `json:"hasPrevPage"`
}

func ComposePagination[T any](page domain.Page, paged domain.Paged[T]) Pagination {
	total := paged.TotalPages(page.Size)
	return Pagination{
		CurrentPage:  page.Number,
		TotalPages:   total,
		TotalItems:   paged.Total,
		ItemsPerPage: page.Size,
		HasNextPage:  page.Number < total,
		HasPrevPage:  1 < page.Number,
	}
}

// OK is a successful response carrying data (can be nil).
func OK(message string, data any) Envelope {
	return Envelope{Success: true, Message: message, Data: data}
}

// Paginated is a successful response carrying a page of items.
func Paginated[T any, R any](page domain.Page, paged domain.Paged[T], compose func(T) R) Envelope {
	items := make([]R, 0, len(paged.Items))
	for _, i := range paged.Items {
		items = append(items, compose(i))
	}
	p := ComposePagination(page, paged)
	return Envelope{Success: true, Data: items, Pagination: &p}
}

// Failure is an error response.
func Failure(message string, fields ...apierr.FieldError) Envelope {
	return Envelope{Success: false, Message: message, Errors: fields}
}
