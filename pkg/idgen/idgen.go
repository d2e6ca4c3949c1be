// Package idgen centralizes opaque 128-bit id generation so every entity
// in the asset graph is identified the same way.
package idgen

import "github.com/google/uuid"

// New returns a fresh random (v4) id, used for every entity created by the
// batch ingestor or an operator action.
func New() uuid.UUID {
	return uuid.New()
}

// Parse parses a string id, returning uuid.Nil and an error if malformed.
func Parse(s string) (uuid.UUID, error) {
	return uuid.Parse(s)
}
