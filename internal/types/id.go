// README: Common identifier type used across modules.
package types

import "github.com/google/uuid"

type ID string

// NewID returns a random UUID-backed ID.
func NewID() ID {
	return ID(uuid.NewString())
}

func (id ID) String() string { return string(id) }
