package users

import "time"

// User is the canonical persisted user record. ClerkID is the identity
// assigned by Clerk and is the join key between the provider and this
// system; it is unique and never mutated after creation.
type User struct {
	ID        string    `json:"_id"`
	ClerkID   string    `json:"clerkId"`
	Email     string    `json:"email"`
	Username  string    `json:"username"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	Photo     string    `json:"photo"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Profile is the normalized shape extracted from a provider account event.
type Profile struct {
	ClerkID   string
	Email     string
	Username  string
	FirstName string
	LastName  string
	Photo     string
}

// ProfileUpdate carries the mutable profile fields for an update. ClerkID,
// internal ID, and email are never touched by updates.
type ProfileUpdate struct {
	Username  string
	FirstName string
	LastName  string
	Photo     string
}
