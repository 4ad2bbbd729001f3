// Package repository holds the MySQL persistence of bookings, availability
// blocks and price overrides, plus the read-only view of the property
// catalog.  The sentinel values below let higher layers tell failure
// scenarios apart with errors.Is without depending on database/sql.
package repository

import "errors"

// ErrNotFound is returned when a row addressed by id or uuid does not
// exist.  It is always wrapped with the entity that was looked up.
var ErrNotFound = errors.New("not found")

// ErrLockContention is returned by Store.Atomic when the property lock
// could not be taken after retrying MySQL deadlocks and lock wait
// timeouts.  Handlers should translate this into an HTTP 409 response.
var ErrLockContention = errors.New("property is locked by another booking, retry")
