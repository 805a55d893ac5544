package shared

import "github.com/google/uuid"

// Actor identifies the authenticated user performing a core operation.
// Authentication itself happens outside the engine; every operation
// receives the acting user explicitly instead of reading ambient state.
type Actor struct {
	UserID uuid.UUID
	Name   string
}

// NewActor creates an actor for the given user
func NewActor(userID uuid.UUID, name string) Actor {
	return Actor{UserID: userID, Name: name}
}

// IsValid returns true if the actor carries a user ID
func (a Actor) IsValid() bool {
	return a.UserID != uuid.Nil
}
