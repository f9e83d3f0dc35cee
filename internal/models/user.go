package models

import "time"

// User represents a parent account in the system
type User struct {
	ID             string
	Email          string
	PasswordHash   string
	DisplayName    string
	OAuthProvider  string
	OAuthSubject   string
	EmailConfirmed bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Session represents an authenticated session with its embedded user
type Session struct {
	Token       string
	AccessToken string
	UserID      string
	User        *User
	ExpiresAt   time.Time
	CreatedAt   time.Time
}

// IsExpired checks if the session has expired
func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}
