// Package uow implements the persistence context used by the repositories.
//
// A UnitOfWork wraps a *gorm.DB and tracks the entities loaded or staged
// through it. Changes are only written by SaveChanges, which flushes every
// staged insert, update and delete inside one database transaction. A
// UnitOfWork belongs to a single logical operation (one HTTP request, one CLI
// command) and must not be shared between goroutines.
package uow
