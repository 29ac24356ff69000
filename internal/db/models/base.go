// Package models contains database model definitions.
package models

// BaseEntity carries the surrogate key shared by every persisted entity.
// The key is assigned by the database on insert and never changes afterwards.
type BaseEntity struct {
	ID uint64 `gorm:"primaryKey;autoIncrement" json:"id"`
}

// EntityID returns the surrogate key, zero until the entity was inserted.
func (e BaseEntity) EntityID() uint64 {
	return e.ID
}

// Identifiable is implemented by every model embedding BaseEntity.
type Identifiable interface {
	EntityID() uint64
}
