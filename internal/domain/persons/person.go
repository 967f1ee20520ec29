package persons

import "errors"

// Person is the sole persisted entity. Wire field names follow the
// original French API contract (nom/adresse); storage columns are
// name/address.
type Person struct {
	ID      int64  `json:"id"`
	Name    string `json:"nom"`
	Address string `json:"adresse"`
}

// ErrNotFound is returned when no person matches the requested id,
// including updates and deletes that affect zero rows.
var ErrNotFound = errors.New("person not found")
