package quickadds

import (
	"strings"
	"time"

	"github.com/smartbiz-gst/smartbiz/pkg/domain"
	"github.com/smartbiz-gst/smartbiz/pkg/utils/pointer"
)

type Image struct {
	Filename     string `json:"filename"`
	OriginalName string `json:"originalName"`
	Path         string `json:"path"`
	Size         int64  `json:"size"`
	Mimetype     string `json:"mimetype"`
}

func ComposeImages(images []domain.Image) []Image {
	ret := make([]Image, 0, len(images))
	for _, i := range images {
		ret = append(ret, Image(i))
	}
	return ret
}

// Owner is the user who posted a listing, as shown to others.
type Owner struct {
	Name         string  `json:"name"`
	BusinessName *string `json:"businessName"`
	Location     string  `json:"location"`
}

func ComposeOwner(o domain.Owner) Owner {
	return Owner{
		Name:         o.Name(),
		BusinessName: o.BusinessName,
		Location:     o.Location(),
	}
}

// Created is a listing just created.
type Created struct {
	ID               string    `json:"id"`
	Title            string    `json:"title"`
	Description      string    `json:"description"`
	Category         string    `json:"category"`
	ProductType      string    `json:"productType"`
	PriceRange       *string   `json:"priceRange"`
	Duration         int       `json:"duration"`
	DesignPreference string    `json:"designPreference"`
	Images           []Image   `json:"images"`
	Status           string    `json:"status"`
	CreatedAt        time.Time `json:"createdAt"`
	ExpiresAt        time.Time `json:"expiresAt"`
}

func ComposeCreated(q domain.QuickAdd) Created {
	return Created{
		ID:               q.ID,
		Title:            q.Title,
		Description:      q.Description,
		Category:         q.Category,
		ProductType:      string(q.ProductType),
		PriceRange:       q.PriceRange,
		Duration:         q.DurationDays,
		DesignPreference: string(q.DesignPreference),
		Images:           ComposeImages(q.Images),
		Status:           q.Status.String(),
		CreatedAt:        q.CreatedAt,
		ExpiresAt:        q.ExpiresAt,
	}
}

// Detail is a listing as seen by a viewer.
type Detail struct {
	Created
	Views   int   `json:"views"`
	Likes   int   `json:"likes"`
	IsLiked bool  `json:"isLiked"`
	User    Owner `json:"user"`
}

func ComposeDetail(q domain.QuickAddDetail) Detail {
	return Detail{
		Created: ComposeCreated(q.QuickAdd),
		Views:   q.Views,
		Likes:   q.LikeCount,
		IsLiked: q.IsLiked,
		User:    ComposeOwner(q.Owner),
	}
}

// CreateRequest is the form of a new listing, sent as multipart/form-data with images.
type CreateRequest struct {
	Title            string  `form:"title" validate:"required,max=255"`
	Description      string  `form:"description" validate:"required,max=1000"`
	Category         string  `form:"category" validate:"required,max=100"`
	ProductType      string  `form:"productType" validate:"required,oneof=promotion request"`
	Duration         int     `form:"duration" validate:"min=1,max=7"`
	DesignPreference *string `form:"designPreference" validate:"omitnil,oneof=Minimal Modern Poster Animated"`
	PriceRange       *string `form:"priceRange" validate:"omitnil,max=100"`
}

// Normalize trims text fields.
func (r *CreateRequest) Normalize() {
	r.Title = strings.TrimSpace(r.Title)
	r.Description = strings.TrimSpace(r.Description)
	r.Category = strings.TrimSpace(r.Category)
	r.PriceRange = pointer.Map(r.PriceRange, strings.TrimSpace)
	if r.DesignPreference != nil {
		r.DesignPreference = pointer.NonZero(*r.DesignPreference)
	}
}

func (*CreateRequest) ValidationMessages() map[string]string {
	return map[string]string{
		"title":            "Title is required and must be less than 255 characters",
		"description":      "Description is required and must be less than 1000 characters",
		"category":         "Category is required",
		"productType":      "Product type must be either promotion or request",
		"duration":         "Duration must be between 1 and 7 days",
		"designPreference": "Invalid design preference",
		"priceRange":       "Price range must be less than 100 characters",
	}
}

// Spec builds a domain.QuickAddSpec. The request should be validated.
func (r *CreateRequest) Spec(userId string, images []domain.Image) *domain.QuickAddSpec {
	design := domain.DefaultDesignPreference
	if r.DesignPreference != nil {
		design = domain.DesignPreference(*r.DesignPreference)
	}
	return &domain.QuickAddSpec{
		UserID:           userId,
		Title:            r.Title,
		Description:      r.Description,
		Category:         r.Category,
		ProductType:      domain.ProductType(r.ProductType),
		PriceRange:       r.PriceRange,
		DurationDays:     r.Duration,
		DesignPreference: design,
		Images:           images,
	}
}

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 50
)

// ListQuery is the query of listing endpoints.
type ListQuery struct {
	Page        *int   `query:"page" validate:"omitnil,min=1"`
	Limit       *int   `query:"limit" validate:"omitnil,min=1,max=50"`
	Status      string `query:"status" validate:"omitempty,oneof=pending approved rejected expired"`
	ProductType string `query:"productType" validate:"omitempty,oneof=promotion request"`
	Category    string `query:"category" validate:"omitempty,max=100"`
	SortBy      string `query:"sortBy" validate:"omitempty,oneof=created_at expires_at views likes"`
	SortOrder   string `query:"sortOrder" validate:"omitempty,oneof=asc desc"`
}

func (q *ListQuery) Normalize() {
	q.Category = strings.TrimSpace(q.Category)
}

func (*ListQuery) ValidationMessages() map[string]string {
	return map[string]string{
		"page":        "Page must be a positive integer",
		"limit":       "Limit must be between 1 and 50",
		"status":      "Invalid status",
		"productType": "Invalid product type",
		"category":    "Invalid category",
		"sortBy":      "Invalid sort field",
		"sortOrder":   "Sort order must be asc or desc",
	}
}

// PageOf returns the requested page, with defaults applied.
func (q *ListQuery) PageOf() domain.Page {
	p := domain.Page{Number: DefaultPage, Size: DefaultLimit}
	if q.Page != nil {
		p.Number = *q.Page
	}
	if q.Limit != nil {
		p.Size = *q.Limit
	}
	return p
}

// FindQuery builds a domain.QuickAddFindQuery with defaults applied.
// The query should be validated.
func (q *ListQuery) FindQuery(viewer *string) domain.QuickAddFindQuery {
	fq := domain.QuickAddFindQuery{
		Status:    domain.Approved,
		Category:  q.Category,
		SortBy:    domain.SortByCreatedAt,
		SortOrder: domain.Descending,
		Viewer:    viewer,
		Page:      q.PageOf(),
	}
	if q.Status != "" {
		fq.Status = domain.QuickAddStatus(q.Status)
	}
	if q.ProductType != "" {
		pt := domain.ProductType(q.ProductType)
		fq.ProductType = &pt
	}
	if q.SortBy != "" {
		fq.SortBy = domain.SortColumn(q.SortBy)
	}
	if q.SortOrder != "" {
		fq.SortOrder = domain.SortOrder(q.SortOrder)
	}
	return fq
}
