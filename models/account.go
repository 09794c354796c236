package models

import "time"

// Account is a registered scorer. Matches created with a bearer token belong
// to the account named by the token subject.
type Account struct {
	ID           string     `gorm:"primaryKey;type:uuid" json:"id"`
	Username     string     `gorm:"uniqueIndex;not null" json:"username"`
	Email        string     `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string     `gorm:"not null" json:"-"`
	LastLoginAt  *time.Time `json:"last_login_at,omitempty"`

	Timestamps
}
