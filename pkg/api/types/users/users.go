package users

import (
	"strconv"
	"strings"
	"time"

	"github.com/smartbiz-gst/smartbiz/pkg/domain"
	"github.com/smartbiz-gst/smartbiz/pkg/utils/pointer"
)

// Summary is a user in a list.
type Summary struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	FirstName    string    `json:"firstName"`
	LastName     string    `json:"lastName"`
	BusinessName *string   `json:"businessName"`
	BusinessType *string   `json:"businessType"`
	Phone        *string   `json:"phone"`
	Location     string    `json:"location"`
	UserType     string    `json:"userType"`
	IsActive     bool      `json:"isActive"`
	IsVerified   bool      `json:"isVerified"`
	CreatedAt    time.Time `json:"createdAt"`
}

func ComposeSummary(u domain.User) Summary {
	return Summary{
		ID:           u.ID,
		Email:        u.Email,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		BusinessName: u.BusinessName,
		BusinessType: u.BusinessType,
		Phone:        u.Phone,
		Location:     u.Owner().Location(),
		UserType:     u.UserType.String(),
		IsActive:     u.IsActive,
		IsVerified:   u.IsVerified,
		CreatedAt:    u.CreatedAt,
	}
}

// Detail is a full profile of a user. Password hash is never exposed.
type Detail struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	FirstName    string    `json:"firstName"`
	LastName     string    `json:"lastName"`
	BusinessName *string   `json:"businessName"`
	BusinessType *string   `json:"businessType"`
	Phone        *string   `json:"phone"`
	Address      *string   `json:"address"`
	City         *string   `json:"city"`
	State        *string   `json:"state"`
	Pincode      *string   `json:"pincode"`
	GSTNumber    *string   `json:"gstNumber"`
	UserType     string    `json:"userType"`
	IsVerified   bool      `json:"isVerified"`
	IsActive     bool      `json:"isActive"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func ComposeDetail(u domain.User) Detail {
	return Detail{
		ID:           u.ID,
		Email:        u.Email,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		BusinessName: u.BusinessName,
		BusinessType: u.BusinessType,
		Phone:        u.Phone,
		Address:      u.Address,
		City:         u.City,
		State:        u.State,
		Pincode:      u.Pincode,
		GSTNumber:    u.GSTNumber,
		UserType:     u.UserType.String(),
		IsVerified:   u.IsVerified,
		IsActive:     u.IsActive,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

// Session is a user signed in, with a bearer token.
type Session struct {
	User  Detail `json:"user"`
	Token string `json:"token"`
}

type RegisterRequest struct {
	Email        string  `json:"email" validate:"required,email,max=255"`
	Password     string  `json:"password" validate:"required,min=6"`
	FirstName    string  `json:"firstName" validate:"required,max=100"`
	LastName     string  `json:"lastName" validate:"required,max=100"`
	BusinessName *string `json:"businessName" validate:"omitnil,max=255"`
	BusinessType *string `json:"businessType" validate:"omitnil,max=100"`
	Phone        *string `json:"phone" validate:"omitnil,phone"`
	UserType     *string `json:"userType" validate:"omitnil,oneof=shopkeeper buyer"`
}

func (r *RegisterRequest) Normalize() {
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	r.FirstName = strings.TrimSpace(r.FirstName)
	r.LastName = strings.TrimSpace(r.LastName)
	r.BusinessName = pointer.Map(r.BusinessName, strings.TrimSpace)
	r.BusinessType = pointer.Map(r.BusinessType, strings.TrimSpace)
}

func (*RegisterRequest) ValidationMessages() map[string]string {
	return map[string]string{
		"email":        "Valid email is required",
		"password":     "Password must be at least 6 characters",
		"firstName":    "First name is required",
		"lastName":     "Last name is required",
		"businessName": "Business name too long",
		"businessType": "Business type too long",
		"phone":        "Valid phone number required",
		"userType":     "Invalid user type",
	}
}

// Spec builds a domain.UserSpec with the password hash. The request should be validated.
func (r *RegisterRequest) Spec(passwordHash string) *domain.UserSpec {
	ut := domain.Shopkeeper
	if r.UserType != nil {
		ut = domain.UserType(*r.UserType)
	}
	return &domain.UserSpec{
		Email:        r.Email,
		PasswordHash: passwordHash,
		FirstName:    r.FirstName,
		LastName:     r.LastName,
		BusinessName: r.BusinessName,
		BusinessType: r.BusinessType,
		Phone:        r.Phone,
		UserType:     ut,
	}
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (r *LoginRequest) Normalize() {
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
}

func (*LoginRequest) ValidationMessages() map[string]string {
	return map[string]string{
		"email":    "Valid email is required",
		"password": "Password is required",
	}
}

type ProfileUpdateRequest struct {
	FirstName    *string `json:"firstName" validate:"omitnil,min=1,max=100"`
	LastName     *string `json:"lastName" validate:"omitnil,min=1,max=100"`
	BusinessName *string `json:"businessName" validate:"omitnil,max=255"`
	BusinessType *string `json:"businessType" validate:"omitnil,max=100"`
	Phone        *string `json:"phone" validate:"omitnil,phone"`
	Address      *string `json:"address" validate:"omitnil,max=500"`
	City         *string `json:"city" validate:"omitnil,max=100"`
	State        *string `json:"state" validate:"omitnil,max=100"`
	Pincode      *string `json:"pincode" validate:"omitnil,pincode"`
	GSTNumber    *string `json:"gstNumber" validate:"omitnil,gstin"`
}

func (r *ProfileUpdateRequest) Normalize() {
	r.FirstName = pointer.Map(r.FirstName, strings.TrimSpace)
	r.LastName = pointer.Map(r.LastName, strings.TrimSpace)
	r.BusinessName = pointer.Map(r.BusinessName, strings.TrimSpace)
	r.BusinessType = pointer.Map(r.BusinessType, strings.TrimSpace)
	r.Address = pointer.Map(r.Address, strings.TrimSpace)
	r.City = pointer.Map(r.City, strings.TrimSpace)
	r.State = pointer.Map(r.State, strings.TrimSpace)
}

func (*ProfileUpdateRequest) ValidationMessages() map[string]string {
	return map[string]string{
		"firstName":    "Invalid first name",
		"lastName":     "Invalid last name",
		"businessName": "Business name too long",
		"businessType": "Business type too long",
		"phone":        "Valid phone number required",
		"address":      "Address too long",
		"city":         "City name too long",
		"state":        "State name too long",
		"pincode":      "Valid Indian pincode required",
		"gstNumber":    "Invalid GST number format",
	}
}

func (r *ProfileUpdateRequest) Update() domain.ProfileUpdate {
	return domain.ProfileUpdate{
		FirstName:    r.FirstName,
		LastName:     r.LastName,
		BusinessName: r.BusinessName,
		BusinessType: r.BusinessType,
		Phone:        r.Phone,
		Address:      r.Address,
		City:         r.City,
		State:        r.State,
		Pincode:      r.Pincode,
		GSTNumber:    r.GSTNumber,
	}
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=6"`
}

func (*ChangePasswordRequest) ValidationMessages() map[string]string {
	return map[string]string{
		"currentPassword": "Current password is required",
		"newPassword":     "New password must be at least 6 characters",
	}
}

const (
	DefaultPage  = 1
	DefaultLimit = 20
	MaxLimit     = 100
)

type ListQuery struct {
	Page     *int   `query:"page" validate:"omitnil,min=1"`
	Limit    *int   `query:"limit" validate:"omitnil,min=1,max=100"`
	UserType string `query:"userType" validate:"omitempty,oneof=shopkeeper buyer admin"`
	IsActive string `query:"isActive" validate:"omitempty,boolean"`
	Search   string `query:"search" validate:"omitempty,max=100"`
}

func (q *ListQuery) Normalize() {
	q.Search = strings.TrimSpace(q.Search)
}

func (*ListQuery) ValidationMessages() map[string]string {
	return map[string]string{
		"page":     "Page must be a positive integer",
		"limit":    "Limit must be between 1 and 100",
		"userType": "Invalid user type",
		"isActive": "isActive must be boolean",
		"search":   "Search term too long",
	}
}

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

// FindQuery builds a domain.UserFindQuery. The query should be validated.
func (q *ListQuery) FindQuery() domain.UserFindQuery {
	fq := domain.UserFindQuery{Search: q.Search, Page: q.PageOf()}
	if q.UserType != "" {
		ut := domain.UserType(q.UserType)
		fq.UserType = &ut
	}
	if active, err := strconv.ParseBool(q.IsActive); err == nil {
		fq.IsActive = &active
	}
	return fq
}
