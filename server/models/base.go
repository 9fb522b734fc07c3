package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type BaseModel struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// NewID returns a fresh identifier in the external 24-char hex form.
func NewID() string {
	return primitive.NewObjectID().Hex()
}

// ValidateID reports ErrInvalidID unless id is a well-formed 24-char hex identifier.
func ValidateID(id string) error {
	if !primitive.IsValidObjectID(id) {
		return ErrInvalidID
	}

	return nil
}

// ParseID validates id and returns its canonical lower-case form.
func ParseID(id string) (string, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return "", ErrInvalidID
	}

	return oid.Hex(), nil
}
