package models

import "time"

// Subscription tiers.
const (
	SubscriptionBasic   = "Basic"
	SubscriptionPremium = "Premium"
)

// User is an account record. PasswordHash is a bcrypt hash; the original
// password is never stored or recoverable.
type User struct {
	ID           string
	FullName     string
	Email        string
	PasswordHash string
	Subscription string
	CreatedAt    time.Time
}
