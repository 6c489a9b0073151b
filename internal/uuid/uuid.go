// Package uuid wraps github.com/google/uuid so that IDs can be bound from
// URIs, query strings and form fields by gin.
package uuid

import (
	"fmt"

	google_uuid "github.com/google/uuid"
)

type UUID struct {
	google_uuid.UUID
}

var Nil UUID

func New() UUID {
	return UUID{google_uuid.New()}
}

// IsNil reports if no ID has been bound.
func (u UUID) IsNil() bool {
	return u.UUID == google_uuid.Nil
}

// UnmarshalParam parses the parameter with uuid.Parse. The empty string
// is bound to Nil.
func (u *UUID) UnmarshalParam(p string) error {
	if p == "" {
		*u = Nil
		return nil
	}

	parsed, err := google_uuid.Parse(p)
	if err != nil {
		return fmt.Errorf("%q is not a valid UUID", p)
	}

	*u = UUID{parsed}
	return nil
}
