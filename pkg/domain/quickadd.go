package domain

import (
	"fmt"
	"net"
	"time"
)

type ProductType string

const (
	Promotion ProductType = "promotion"
	Request   ProductType = "request"
)

func AsProductType(s string) (ProductType, error) {
	switch s {
	case string(Promotion):
		return Promotion, nil
	case string(Request):
		return Request, nil
	default:
		return "", fmt.Errorf("'%s' is not ProductType", s)
	}
}

type DesignPreference string

const (
	Minimal  DesignPreference = "Minimal"
	Modern   DesignPreference = "Modern"
	Poster   DesignPreference = "Poster"
	Animated DesignPreference = "Animated"

	DefaultDesignPreference = Modern
)

func AsDesignPreference(s string) (DesignPreference, error) {
	switch s {
	case string(Minimal):
		return Minimal, nil
	case string(Modern):
		return Modern, nil
	case string(Poster):
		return Poster, nil
	case string(Animated):
		return Animated, nil
	default:
		return "", fmt.Errorf("'%s' is not DesignPreference", s)
	}
}

// QuickAddStatus is the lifecycle state of a listing.
//
//	pending --(external approval)--> approved --(expire sweep)--> expired --(cleanup sweep)--> (deleted)
//	pending --(external rejection)--> rejected
type QuickAddStatus string

const (
	Pending  QuickAddStatus = "pending"
	Approved QuickAddStatus = "approved"
	Rejected QuickAddStatus = "rejected"
	Expired  QuickAddStatus = "expired"
)

func (s QuickAddStatus) String() string {
	return string(s)
}

func AsQuickAddStatus(s string) (QuickAddStatus, error) {
	switch s {
	case string(Pending):
		return Pending, nil
	case string(Approved):
		return Approved, nil
	case string(Rejected):
		return Rejected, nil
	case string(Expired):
		return Expired, nil
	default:
		return "", fmt.Errorf("'%s' is not QuickAddStatus", s)
	}
}

const (
	MinDurationDays = 1
	MaxDurationDays = 7

	// expired listings are kept for this long before purged.
	ExpiredRetention = 30 * 24 * time.Hour
)

// Image describes an uploaded image of a listing.
type Image struct {
	Filename     string `json:"filename"`
	OriginalName string `json:"originalName"`
	Path         string `json:"path"`
	Size         int64  `json:"size"`
	Mimetype     string `json:"mimetype"`
}

type QuickAdd struct {
	ID               string
	UserID           string
	Title            string
	Description      string
	Category         string
	ProductType      ProductType
	PriceRange       *string
	DurationDays     int
	DesignPreference DesignPreference
	Images           []Image
	Status           QuickAddStatus
	Views            int
	Likes            int
	CreatedAt        time.Time
	ExpiresAt        time.Time
	ApprovedAt       *time.Time
	RejectedAt       *time.Time
	RejectionReason  *string
	UpdatedAt        time.Time
}

// QuickAddDetail is a listing as shown to a viewer.
type QuickAddDetail struct {
	QuickAdd

	Owner Owner

	// number of rows in the likes table for this listing.
	LikeCount int

	// whether the viewer likes this listing. Always false for anonymous viewers.
	IsLiked bool
}

// QuickAddSpec is what is needed to create a new listing.
type QuickAddSpec struct {
	UserID           string
	Title            string
	Description      string
	Category         string
	ProductType      ProductType
	PriceRange       *string
	DurationDays     int
	DesignPreference DesignPreference
	Images           []Image
}

// ExpiresAt is the expiry of a listing created at createdAt.
func (s QuickAddSpec) ExpiresAt(createdAt time.Time) time.Time {
	return createdAt.Add(time.Duration(s.DurationDays) * 24 * time.Hour)
}

type SortColumn string

const (
	SortByCreatedAt SortColumn = "created_at"
	SortByExpiresAt SortColumn = "expires_at"
	SortByViews     SortColumn = "views"
	SortByLikes     SortColumn = "likes"
)

func AsSortColumn(s string) (SortColumn, error) {
	switch s {
	case string(SortByCreatedAt):
		return SortByCreatedAt, nil
	case string(SortByExpiresAt):
		return SortByExpiresAt, nil
	case string(SortByViews):
		return SortByViews, nil
	case string(SortByLikes):
		return SortByLikes, nil
	default:
		return "", fmt.Errorf("'%s' is not SortColumn", s)
	}
}

type SortOrder string

const (
	Ascending  SortOrder = "asc"
	Descending SortOrder = "desc"
)

func AsSortOrder(s string) (SortOrder, error) {
	switch s {
	case string(Ascending):
		return Ascending, nil
	case string(Descending):
		return Descending, nil
	default:
		return "", fmt.Errorf("'%s' is not SortOrder", s)
	}
}

type QuickAddFindQuery struct {
	Status QuickAddStatus

	// nil matches any type.
	ProductType *ProductType

	// empty matches any category.
	Category string

	SortBy    SortColumn
	SortOrder SortOrder

	// id of the viewing user, for IsLiked. nil for anonymous viewers.
	Viewer *string

	Page Page
}

// View is a request to see a listing.
type View struct {
	QuickAddID string

	// nil for anonymous viewers.
	UserID *string

	IPAddress net.IP
	UserAgent string
}

// LikeToggled is the result of toggling a like.
type LikeToggled struct {
	// true when the listing is liked after toggling.
	Liked bool

	// like counter of the listing after toggling.
	Likes int
}

// ExpiredQuickAdd is a listing turned into expired by a sweep.
type ExpiredQuickAdd struct {
	ID     string
	Title  string
	UserID string
}

// ExpiringQuickAdd is an approved listing about to expire, with its owner's contact.
type ExpiringQuickAdd struct {
	ID        string
	Title     string
	ExpiresAt time.Time
	UserID    string
	Email     string
	FirstName string
	LastName  string
}
