// Package repository persists layouts, reservations and accounts in MySQL.
// Repositories return plain records and the sentinel errors below; the
// service layer turns those into coded errors.
package repository

import (
	"errors"
	"strings"

	sq "github.com/Masterminds/squirrel"
)

var (
	// ErrForbidden: the caller does not own the record.
	ErrForbidden = errors.New("forbidden")
	// ErrConflict: an active reservation already holds one of the tables
	// inside the exclusivity window.
	ErrConflict = errors.New("conflict")
	// ErrTooFewSeats: the requested tables seat fewer people than the party.
	ErrTooFewSeats = errors.New("tables seat fewer than the party")
	// ErrNotCancellable: the reservation is not active or already started.
	ErrNotCancellable = errors.New("reservation cannot be cancelled")

	ErrLayoutNotFound      = errors.New("layout not found")
	ErrNoActiveLayout      = errors.New("no active layout")
	ErrTableNotFound       = errors.New("table not found")
	ErrReservationNotFound = errors.New("reservation not found")
	ErrEmailExists         = errors.New("email already exists")
)

// psql builds MySQL statements with ? placeholders.
var psql = sq.StatementBuilder.PlaceholderFormat(sq.Question)

func isDuplicate(err error) bool {
	return err != nil && strings.Contains(strings.ToLower(err.Error()), "1062")
}
