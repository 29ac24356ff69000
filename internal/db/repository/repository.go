// Package repository provides a generic CRUD repository on top of a unit of
// work. Every mutating call stages its change and commits the unit of work
// right away.
package repository

import (
	"fmt"
	"reflect"

	"github.com/greensocial/green/internal/db/models"
	"github.com/greensocial/green/internal/db/uow"
)

// Repository is the CRUD contract shared by all entity types.
type Repository[T models.Identifiable] interface {
	// GetByID returns the entity with the given key, or nil if there is none.
	GetByID(id uint64) (*T, error)

	Insert(entity *T) error
	InsertMany(entities []*T) error

	// Update commits the changes made to entities tracked by the unit of work.
	Update(entity *T) error
	UpdateMany(entities []*T) error

	Delete(entity *T) error
	DeleteMany(entities []*T) error

	// Table returns a query whose results are tracked by the unit of work.
	Table() *Query[T]
	// TableNoTracking returns a query whose results are never tracked. Use it
	// for read-only call sites.
	TableNoTracking() *Query[T]
}

var _ Repository[models.Setting] = (*GormRepository[models.Setting])(nil)

// GormRepository implements Repository with a uow.UnitOfWork.
type GormRepository[T models.Identifiable] struct {
	uow      *uow.UnitOfWork
	entities *uow.Set[T]
	name     string
}

// New returns a repository for T bound to u. The repository does not own u.
func New[T models.Identifiable](u *uow.UnitOfWork) *GormRepository[T] {
	if u == nil {
		panic("unit of work cannot be nil")
	}

	return &GormRepository[T]{
		uow:  u,
		name: reflect.TypeOf((*T)(nil)).Elem().Name(),
	}
}

// Entities returns the entity set of T, creating it on first use.
func (r *GormRepository[T]) Entities() *uow.Set[T] {
	if r.entities == nil {
		r.entities = uow.SetOf[T](r.uow)
	}

	return r.entities
}

// GetByID returns the entity with the given key, or nil if there is none.
// The returned entity is tracked.
func (r *GormRepository[T]) GetByID(id uint64) (entity *T, err error) {
	defer func() { observe(r.name, "get", err) }()

	entity, err = r.Entities().Find(id)
	if err != nil {
		return nil, persistence("get", err)
	}

	return entity, nil
}

// Insert stages entity for insertion and commits.
func (r *GormRepository[T]) Insert(entity *T) (err error) {
	defer func() { observe(r.name, "insert", err) }()

	if entity == nil {
		return nilArgument("entity")
	}

	if err = r.Entities().Add(entity); err != nil {
		return &ArgumentError{Name: "entity", Err: err}
	}

	return persistence("insert", r.uow.SaveChanges())
}

// InsertMany stages all entities and commits them in one transaction.
// An empty slice is valid, a nil slice is not.
func (r *GormRepository[T]) InsertMany(entities []*T) (err error) {
	defer func() { observe(r.name, "insert_many", err) }()

	if err = r.stage(entities, r.Entities().Add); err != nil {
		return err
	}

	return persistence("insert_many", r.uow.SaveChanges())
}

// Update commits the changes made to a tracked entity. Entities that were not
// loaded or inserted through the unit of work are rejected.
func (r *GormRepository[T]) Update(entity *T) (err error) {
	defer func() { observe(r.name, "update", err) }()

	if entity == nil {
		return nilArgument("entity")
	}

	if err = r.Entities().MarkModified(entity); err != nil {
		return &ArgumentError{Name: "entity", Err: err}
	}

	return persistence("update", r.uow.SaveChanges())
}

// UpdateMany commits the changes made to tracked entities.
func (r *GormRepository[T]) UpdateMany(entities []*T) (err error) {
	defer func() { observe(r.name, "update_many", err) }()

	if err = r.stage(entities, r.Entities().MarkModified); err != nil {
		return err
	}

	return persistence("update_many", r.uow.SaveChanges())
}

// Delete stages entity for deletion and commits.
func (r *GormRepository[T]) Delete(entity *T) (err error) {
	defer func() { observe(r.name, "delete", err) }()

	if entity == nil {
		return nilArgument("entity")
	}

	if err = r.Entities().Remove(entity); err != nil {
		return &ArgumentError{Name: "entity", Err: err}
	}

	return persistence("delete", r.uow.SaveChanges())
}

// DeleteMany stages all entities for deletion and commits them in one transaction.
func (r *GormRepository[T]) DeleteMany(entities []*T) (err error) {
	defer func() { observe(r.name, "delete_many", err) }()

	if err = r.stage(entities, r.Entities().Remove); err != nil {
		return err
	}

	return persistence("delete_many", r.uow.SaveChanges())
}

// Table returns a tracked query on T.
func (r *GormRepository[T]) Table() *Query[T] {
	return &Query[T]{db: r.Entities().Query(), entities: r.Entities()}
}

// TableNoTracking returns an untracked query on T.
func (r *GormRepository[T]) TableNoTracking() *Query[T] {
	return &Query[T]{db: r.Entities().Query()}
}

// stage applies op once to every distinct entity. Either all entities are
// staged or, on the first failure, the ones already staged are reverted.
func (r *GormRepository[T]) stage(entities []*T, op func(*T) error) error {
	if entities == nil {
		return nilArgument("entities")
	}

	for i, e := range entities {
		if e == nil {
			return nilArgument(fmt.Sprintf("entities[%d]", i))
		}
	}

	staged := make([]*T, 0, len(entities))
	seen := make(map[*T]struct{}, len(entities))

	for i, e := range entities {
		if _, ok := seen[e]; ok {
			continue
		}

		if err := op(e); err != nil {
			for j := len(staged) - 1; j >= 0; j-- {
				r.Entities().Revert(staged[j])
			}

			return &ArgumentError{Name: fmt.Sprintf("entities[%d]", i), Err: err}
		}

		seen[e] = struct{}{}
		staged = append(staged, e)
	}

	return nil
}
