package db

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when no document matches the given id. Malformed
// object ids are reported the same way, since they cannot match anything.
var ErrNotFound = errors.New("document not found")

// DuplicateKeyError reports a uniqueness-constraint violation on insert or
// update, identifying the natural-key field that collided.
type DuplicateKeyError struct {
	Field string
}

func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("duplicate %s", e.Field)
}

// IsDuplicateKey checks whether err is a uniqueness violation.
func IsDuplicateKey(err error) bool {
	var d *DuplicateKeyError
	return errors.As(err, &d)
}
