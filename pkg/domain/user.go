package domain

import (
	"fmt"
	"strings"
	"time"
)

type UserType string

const (
	Shopkeeper UserType = "shopkeeper"
	Buyer      UserType = "buyer"

	// Admin can not be chosen on registration.
	Admin UserType = "admin"
)

func (ut UserType) String() string {
	return string(ut)
}

func AsUserType(s string) (UserType, error) {
	switch s {
	case string(Shopkeeper):
		return Shopkeeper, nil
	case string(Buyer):
		return Buyer, nil
	case string(Admin):
		return Admin, nil
	default:
		return "", fmt.Errorf("'%s' is not UserType", s)
	}
}

type User struct {
	ID           string
	Email        string
	PasswordHash string
	FirstName    string
	LastName     string
	BusinessName *string
	BusinessType *string
	Phone        *string
	Address      *string
	City         *string
	State        *string
	Pincode      *string
	GSTNumber    *string `sql:"gst_number"`
	UserType     UserType
	IsVerified   bool
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (u *User) IsAdmin() bool {
	return u.UserType == Admin
}

// CanAccess tells whether u may see or modify things owned by the user ownerId.
func (u *User) CanAccess(ownerId string) bool {
	return u.ID == ownerId || u.IsAdmin()
}

func (u *User) Owner() Owner {
	return Owner{
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		BusinessName: u.BusinessName,
		City:         u.City,
		State:        u.State,
	}
}

// Owner is the public face of a user shown with their listings.
type Owner struct {
	FirstName    string
	LastName     string
	BusinessName *string
	City         *string
	State        *string
}

// "first last"
func (o Owner) Name() string {
	return strings.TrimSpace(o.FirstName + " " + o.LastName)
}

// "city, state"
//
// Missing parts are left out.
func (o Owner) Location() string {
	parts := []string{}
	for _, p := range []*string{o.City, o.State} {
		if p != nil && *p != "" {
			parts = append(parts, *p)
		}
	}
	return strings.Join(parts, ", ")
}

// UserSpec is what is needed to register a new user.
type UserSpec struct {
	Email        string
	PasswordHash string
	FirstName    string
	LastName     string
	BusinessName *string
	BusinessType *string
	Phone        *string
	UserType     UserType
}

// ProfileUpdate is a partial update of a user profile.
//
// nil fields are kept as they are.
type ProfileUpdate struct {
	FirstName    *string
	LastName     *string
	BusinessName *string
	BusinessType *string
	Phone        *string
	Address      *string
	City         *string
	State        *string
	Pincode      *string
	GSTNumber    *string
}

// Columns returns pairs of (column name, new value) to be updated, in a stable order.
func (p ProfileUpdate) Columns() []ColumnValue {
	cols := []ColumnValue{}
	for _, c := range []struct {
		name  string
		value *string
	}{
		{"first_name", p.FirstName},
		{"last_name", p.LastName},
		{"business_name", p.BusinessName},
		{"business_type", p.BusinessType},
		{"phone", p.Phone},
		{"address", p.Address},
		{"city", p.City},
		{"state", p.State},
		{"pincode", p.Pincode},
		{"gst_number", p.GSTNumber},
	} {
		if c.value != nil {
			cols = append(cols, ColumnValue{Column: c.name, Value: *c.value})
		}
	}
	return cols
}

func (p ProfileUpdate) IsEmpty() bool {
	return len(p.Columns()) == 0
}

type ColumnValue struct {
	Column string
	Value  string
}

type UserFindQuery struct {
	// nil matches any type.
	UserType *UserType

	// nil matches both.
	IsActive *bool

	// case-insensitive substring of name, email or business name. Empty matches all.
	Search string

	Page Page
}
