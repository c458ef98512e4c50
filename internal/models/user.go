package models

import "time"

// User represents a registered account on the platform.
type User struct {
	ID             string    `json:"id"`
	Username       string    `json:"username"`
	Email          string    `json:"email"`
	FirstName      string    `json:"firstName"`
	LastName       string    `json:"lastName"`
	Country        string    `json:"country,omitempty"`
	AboutMe        string    `json:"aboutMe,omitempty"`
	DOB            string    `json:"dob,omitempty"`
	ContactNumber  string    `json:"contactNumber,omitempty"`
	PasswordDigest string    `json:"-"` // Never expose these to the client
	PasswordSalt   string    `json:"-"`
	CreatedAt      time.Time `json:"createdAt"`
}
