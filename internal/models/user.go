package models

import "time"

// CartEntry is an opaque cart item carried on the user record.
type CartEntry map[string]any

// HistoryEntry is an opaque purchase-history item carried on the user record.
type HistoryEntry map[string]any

// User captures application-facing fields for a registered identity.
type User struct {
	ID           string         `json:"id"`
	Email        string         `json:"email"`
	Name         string         `json:"name"`
	LastName     string         `json:"lastName"`
	PasswordHash string         `json:"-"`
	Role         Role           `json:"role"`
	Token        string         `json:"-"`
	Cart         []CartEntry    `json:"cart"`
	History      []HistoryEntry `json:"history"`
	CreatedAt    time.Time      `json:"created_at"`

	// PasswordTouched marks that PasswordHash holds a freshly hashed
	// credential. The store writes the hash column only when it is set, so
	// saves for unrelated field changes never rewrite the stored hash.
	PasswordTouched bool `json:"-"`
}
