package auth

import (
	"strings"

	"github.com/google/uuid"
)

// Owned is implemented by every resource that records the identity of its creator.
type Owned interface {
	OwnerID() string
}

// Owns reports whether id is the recorded owner of r.
func Owns(r Owned, id Identity) bool {
	if r == nil || id == "" {
		return false
	}
	owner := Canonical(r.OwnerID())
	return owner != "" && owner == Canonical(id.String())
}

// Canonical normalises an identifier so that differently encoded forms of the
// same id compare equal. UUIDs (any accepted spelling) become the lower-case
// hyphenated form; anything else is whitespace-trimmed.
func Canonical(id string) string {
	id = strings.TrimSpace(id)
	if u, err := uuid.Parse(id); err == nil {
		return u.String()
	}
	return id
}
