package model

import "github.com/google/uuid"

// ensureID assigns a v4 id before insert. IDs are generated client side so
// the schema does not depend on gen_random_uuid().
func ensureID(id *uuid.UUID) {
	if *id == uuid.Nil {
		*id = uuid.New()
	}
}
