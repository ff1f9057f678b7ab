package store

import "go.mongodb.org/mongo-driver/bson/primitive"

// NewID returns a fresh identifier in the same hex ObjectID format MongoDB
// assigns, so ids look alike whatever backend produced them.
func NewID() string {
	return primitive.NewObjectID().Hex()
}

// ValidID reports whether id is a well-formed 24-character hex ObjectID.
func ValidID(id string) bool {
	_, err := primitive.ObjectIDFromHex(id)
	return err == nil
}
