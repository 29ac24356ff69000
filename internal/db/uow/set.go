package uow

import (
	"errors"
	"reflect"

	"gorm.io/gorm"
)

// Entity is the constraint for entity types managed by a Set. Models satisfy
// it by embedding models.BaseEntity.
type Entity interface {
	EntityID() uint64
}

// Set is the view of a unit of work restricted to one entity type.
type Set[T Entity] struct {
	u   *UnitOfWork
	typ reflect.Type
}

// SetOf returns the entity set of T tracked by u.
func SetOf[T Entity](u *UnitOfWork) *Set[T] {
	if u == nil {
		panic("unit of work cannot be nil")
	}

	return &Set[T]{u: u, typ: reflect.TypeOf((*T)(nil)).Elem()}
}

// Add stages entity for insertion on the next SaveChanges.
func (s *Set[T]) Add(entity *T) error {
	if entity == nil {
		return ErrNilEntity
	}

	return s.u.add(entity)
}

// Remove stages entity for deletion on the next SaveChanges.
func (s *Set[T]) Remove(entity *T) error {
	if entity == nil {
		return ErrNilEntity
	}

	return s.u.remove(entity)
}

// MarkModified flags a tracked entity for update on the next SaveChanges.
// It fails with ErrEntityNotTracked for entities the unit of work does not know.
func (s *Set[T]) MarkModified(entity *T) error {
	if entity == nil {
		return ErrNilEntity
	}

	return s.u.markModified(entity)
}

// Revert undoes the last Add, Remove or MarkModified on entity.
func (s *Set[T]) Revert(entity *T) {
	if entity == nil {
		return
	}

	s.u.revert(entity)
}

// Attach tracks an entity loaded from the database and returns the instance
// callers must use from now on.
func (s *Set[T]) Attach(entity *T) *T {
	return s.u.attach(entity).(*T) //nolint:forcetypeassert
}

// State returns the tracking state of entity.
func (s *Set[T]) State(entity *T) State {
	if entity == nil {
		return Detached
	}

	return s.u.State(entity)
}

// Local returns the tracked instance with the given key, if any.
func (s *Set[T]) Local(id uint64) (*T, bool) {
	e, ok := s.u.local(s.typ, id)
	if !ok {
		return nil, false
	}

	return e.(*T), true //nolint:forcetypeassert
}

// Find returns the entity with the given key, looking at tracked instances
// first. The loaded entity is tracked. A missing row yields nil without error.
func (s *Set[T]) Find(id uint64) (*T, error) {
	if entity, ok := s.Local(id); ok {
		return entity, nil
	}

	entity := new(T)

	err := s.u.db.First(entity, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil //nolint:nilnil
		}

		return nil, err
	}

	return s.Attach(entity), nil
}

// Query returns a fresh statement on the table of T.
func (s *Set[T]) Query() *gorm.DB {
	return s.u.db.Model(new(T)).Session(&gorm.Session{})
}

// SaveChanges commits the owning unit of work.
func (s *Set[T]) SaveChanges() error {
	return s.u.SaveChanges()
}
