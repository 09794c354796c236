package models

import "time"

// GuestSession is an anonymous identity that stands in for an account until
// it expires. Matches owned by an expired session stay in the table but can no
// longer be reached.
type GuestSession struct {
	ID        string    `gorm:"primaryKey;type:uuid" json:"session_id"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	ExpiresAt time.Time `gorm:"not null;index" json:"expires_at"`
}

// ValidAt reports whether the session is still usable at now.
func (s *GuestSession) ValidAt(now time.Time) bool {
	return now.Before(s.ExpiresAt)
}
