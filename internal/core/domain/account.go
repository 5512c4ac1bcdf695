package domain

import (
	"strings"
	"time"
)

// Secret length bounds accepted at registration. bcrypt ignores input past
// 72 bytes, so longer secrets are rejected instead of silently truncated.
const (
	MinSecretLength = 6
	MaxSecretLength = 72
)

// Placeholder profile values used when registration omits a field.
const (
	DefaultFirstName   = "DefaultFirstName"
	DefaultLastName    = "DefaultLastName"
	DefaultAddress     = "DefaultAddress"
	DefaultPhoneNumber = "1234567890"
)

// Profile holds the descriptive fields of an account.
type Profile struct {
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Address     string `json:"address"`
	PhoneNumber string `json:"phoneNumber"`
}

// WithDefaults returns a copy of p where every empty field carries its placeholder.
func (p Profile) WithDefaults() Profile {
	if strings.TrimSpace(p.FirstName) == "" {
		p.FirstName = DefaultFirstName
	}
	if strings.TrimSpace(p.LastName) == "" {
		p.LastName = DefaultLastName
	}
	if strings.TrimSpace(p.Address) == "" {
		p.Address = DefaultAddress
	}
	if strings.TrimSpace(p.PhoneNumber) == "" {
		p.PhoneNumber = DefaultPhoneNumber
	}
	return p
}

// Account models a registered user.
type Account struct {
	ID           string    `json:"id"`
	LoginName    string    `json:"loginName"`
	PasswordHash string    `json:"-"`
	Profile      Profile   `json:"profile"`
	CreatedAt    time.Time `json:"createdAt"`
}

// NormalizeLoginName returns the case-insensitive lookup key for a login name.
func NormalizeLoginName(loginName string) string {
	return strings.ToLower(strings.TrimSpace(loginName))
}
