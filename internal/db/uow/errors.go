package uow

import (
	"errors"
)

var (
	// ErrNilEntity is returned when a nil entity is staged.
	ErrNilEntity = errors.New("entity is nil")

	// ErrEntityNotTracked is returned when an operation needs an entity the unit of work does not track.
	ErrEntityNotTracked = errors.New("entity is not tracked by the unit of work")

	// ErrEntityAlreadyTracked is returned when an already tracked entity is added again.
	ErrEntityAlreadyTracked = errors.New("entity is already tracked by the unit of work")

	// ErrIdentityConflict is returned when another instance with the same key is already tracked.
	ErrIdentityConflict = errors.New("another instance with the same key is already tracked")

	// ErrKeyUnset is returned when an operation needs the primary key of an entity that was never inserted.
	ErrKeyUnset = errors.New("entity has no primary key")

	// ErrKeyChanged is returned when the primary key of a saved entity was changed in place.
	ErrKeyChanged = errors.New("primary key of a tracked entity cannot change")

	// ErrNoRowsAffected is returned by SaveChanges when a staged delete matched no row.
	ErrNoRowsAffected = errors.New("expected to affect 1 row but affected 0")

	// ErrUnsupportedEntity is returned for types that are not pointers to keyed structs.
	ErrUnsupportedEntity = errors.New("entity type is not supported")
)
