package core

import (
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var errInvalidID = NewInvalidArgumentError("invalid id")

// CleanString trims all leading and trailing whitespace in `s` and optionally lowers it.
func CleanString(s string, lower ...bool) string {
	s = strings.TrimSpace(s)
	if len(lower) > 0 && lower[0] {
		return strings.ToLower(s)
	}
	return s
}

// ParseID parses a document id (24 hex characters).
func ParseID(s string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(CleanString(s))
	if err != nil {
		return primitive.NilObjectID, errInvalidID
	}
	return id, nil
}

// IsValidID reports whether s is a well-formed document id.
func IsValidID(s string) bool {
	_, err := ParseID(s)
	return err == nil
}

// ContainsID reports whether id is in ids.
func ContainsID(ids []primitive.ObjectID, id primitive.ObjectID) bool {
	for _, i := range ids {
		if i == id {
			return true
		}
	}
	return false
}

// PullID returns ids without any occurrence of id, and whether something was removed.
func PullID(ids []primitive.ObjectID, id primitive.ObjectID) ([]primitive.ObjectID, bool) {
	out := make([]primitive.ObjectID, 0, len(ids))
	for _, i := range ids {
		if i != id {
			out = append(out, i)
		}
	}
	return out, len(out) != len(ids)
}
