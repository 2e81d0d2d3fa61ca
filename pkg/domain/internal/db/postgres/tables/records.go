package tables

import "time"

// golang representation of records of PostgreSQL tables.
//
// Columns not interesting for tests are omitted.

type User struct {
	ID           string
	Email        string
	PasswordHash string
	FirstName    string
	LastName     string
	BusinessName *string
	City         *string
	State        *string
	UserType     string
	IsActive     bool
}

type QuickAdd struct {
	ID           string
	UserID       string
	Title        string
	Description  string
	Category     string
	ProductType  string
	DurationDays int
	Status       string
	Views        int
	Likes        int
	CreatedAt    time.Time
	ExpiresAt    time.Time
	UpdatedAt    time.Time
}

type Like struct {
	UserID     string
	QuickAddID string
}

type View struct {
	QuickAddID string
	UserID     *string
	IPAddress  *string `sql:"ip_address"`
}
