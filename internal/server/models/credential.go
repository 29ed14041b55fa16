package models

import "time"

// Credential categories.
const (
	CategoryPersonal = "personal"
	CategoryWork     = "work"
	CategorySocial   = "social"
	CategoryFinance  = "finance"
)

// Password strength labels.
const (
	StrengthWeak   = "weak"
	StrengthFair   = "fair"
	StrengthGood   = "good"
	StrengthStrong = "strong"
)

// Credential is a stored website credential. Password holds the
// "<ivHex>:<cipherHex>" token at rest; services decrypt it on the way out.
type Credential struct {
	ID        string
	UserID    string
	Website   string
	Username  string
	Password  string
	Category  string
	Notes     string
	Strength  string
	CreatedAt time.Time
	UpdatedAt time.Time
	LastUsed  *time.Time
}

// ValidCategory reports whether c is one of the fixed category labels.
func ValidCategory(c string) bool {
	switch c {
	case CategoryPersonal, CategoryWork, CategorySocial, CategoryFinance:
		return true
	}
	return false
}

// ValidStrength reports whether s is one of the fixed strength labels.
func ValidStrength(s string) bool {
	switch s {
	case StrengthWeak, StrengthFair, StrengthGood, StrengthStrong:
		return true
	}
	return false
}
