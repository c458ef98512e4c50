package models

import "time"

// Session represents one authenticated sign-in for a user. A session is
// active while LogoutAt is nil and ExpiresAt is in the future; setting
// LogoutAt is a one-way transition.
type Session struct {
	ID          string     `json:"id"`
	UserID      string     `json:"userId"`
	AccessToken string     `json:"-"`
	IssuedAt    time.Time  `json:"issuedAt"`
	ExpiresAt   time.Time  `json:"expiresAt"`
	LogoutAt    *time.Time `json:"logoutAt,omitempty"`
}
