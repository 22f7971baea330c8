package models

import (
	"time"
)

// User defines the user-account model based on the 'users' table
type User struct {
	ID        int64     `json:"id" db:"id" example:"1"`                             // Unique identifier for the user
	Email     string    `json:"email" db:"email" example:"jane.doe@unibuea.cm"`     // User's email address
	Password  string    `json:"-" db:"password"`                                    // Hashed password (excluded from JSON)
	FirstName string    `json:"firstName" db:"first_name" example:"Jane"`           // User's first name
	LastName  string    `json:"lastName" db:"last_name" example:"Doe"`              // User's last name
	IsStaff   bool      `json:"isStaff" db:"is_staff" example:"false"`              // Whether the account has administrative rights
	IsActive  bool      `json:"isActive" db:"is_active" example:"true"`             // Whether the account is active
	CreatedAt time.Time `json:"createdAt" db:"created_at"`                          // Timestamp when the account was created
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`                          // Timestamp when the account was last updated
}

// FullName returns the display name of the account holder.
func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}
