package uow

import (
	"fmt"
	"reflect"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// keyed is implemented by every entity embedding models.BaseEntity.
type keyed interface {
	EntityID() uint64
}

type identityKey struct {
	typ reflect.Type
	id  uint64
}

// entry is the tracking record of one entity.
type entry struct {
	entity   any           // pointer to the entity struct
	value    reflect.Value // the struct the pointer refers to
	snapshot reflect.Value // shallow copy of value taken at the last sync point
	state    State
	origin   State // state before the last staging operation
}

func (e *entry) key() identityKey {
	return identityKey{typ: e.value.Type(), id: e.entity.(keyed).EntityID()} //nolint:forcetypeassert
}

func (e *entry) takeSnapshot() {
	e.snapshot = reflect.New(e.value.Type()).Elem()
	e.snapshot.Set(e.value)
}

func (e *entry) restoreSnapshot() {
	e.value.Set(e.snapshot)
}

// keyChanged reports whether the key of a saved entity was changed in place.
func (e *entry) keyChanged() bool {
	if e.state == Added {
		return false
	}

	saved := e.snapshot.Addr().Interface().(keyed).EntityID() //nolint:forcetypeassert

	return saved != 0 && saved != e.entity.(keyed).EntityID() //nolint:forcetypeassert
}

func (e *entry) keyError() error {
	return fmt.Errorf("%w: %s %d", ErrKeyChanged, e.value.Type().Name(),
		e.snapshot.Addr().Interface().(keyed).EntityID()) //nolint:forcetypeassert
}

func (e *entry) changed() bool {
	return !reflect.DeepEqual(e.value.Interface(), e.snapshot.Interface())
}

// UnitOfWork tracks entities and writes their changes in one transaction.
type UnitOfWork struct {
	id      string
	db      *gorm.DB
	entries map[any]*entry
	byKey   map[identityKey]*entry
	order   []*entry
}

// New creates a unit of work on top of db.
// Bind a request context with db.WithContext before passing it in to make
// the database round trips cancellable.
func New(db *gorm.DB) *UnitOfWork {
	if db == nil {
		panic("db cannot be nil")
	}

	return &UnitOfWork{
		id:      uuid.NewString(),
		db:      db.Session(&gorm.Session{}),
		entries: make(map[any]*entry),
		byKey:   make(map[identityKey]*entry),
	}
}

// ID returns the identifier used to correlate log lines of this unit of work.
func (u *UnitOfWork) ID() string {
	return u.id
}

// DB returns the database handle queries are built from.
func (u *UnitOfWork) DB() *gorm.DB {
	return u.db
}

// State returns the tracking state of entity.
func (u *UnitOfWork) State(entity any) State {
	if e, ok := u.entries[entity]; ok {
		return e.state
	}

	return Detached
}

// Tracked returns the number of tracked entities.
func (u *UnitOfWork) Tracked() int {
	return len(u.order)
}

// HasChanges reports whether SaveChanges would write anything.
func (u *UnitOfWork) HasChanges() bool {
	for _, e := range u.order {
		if e.state != Unchanged || e.changed() {
			return true
		}
	}

	return false
}

// SaveChanges writes all staged inserts, updates and deletes inside a single
// transaction. Unchanged entities whose fields were mutated in place are
// written as updates.
//
// On failure the transaction is rolled back and every pending change is
// discarded: added entities are detached with their original values (and
// therefore a zero key) restored, modified entities get their last saved
// values back and deleted entities return to unchanged, or are detached if
// they were not tracked before the delete was staged.
//
// A tracked entity whose key differs from the one it was loaded or saved with
// fails the whole commit before any statement is issued.
func (u *UnitOfWork) SaveChanges() error {
	for _, e := range u.order {
		if e.keyChanged() {
			err := e.keyError()
			commitCounter.WithLabelValues("error").Inc()
			log.Error().Err(err).Str("uow", u.id).Msg("failed to save changes")
			u.abort(u.pending())

			return err
		}
	}

	pending := u.pending()
	if len(pending) == 0 {
		return nil
	}

	start := time.Now()

	err := u.db.Transaction(func(tx *gorm.DB) error {
		for _, e := range pending {
			if err := flush(tx, e); err != nil {
				return err
			}
		}

		return nil
	})

	commitDuration.Observe(time.Since(start).Seconds())

	if err != nil {
		commitCounter.WithLabelValues("error").Inc()
		log.Error().Err(err).Str("uow", u.id).Int("changes", len(pending)).Msg("failed to save changes")
		u.abort(pending)

		return err
	}

	commitCounter.WithLabelValues("ok").Inc()
	log.Debug().Str("uow", u.id).Int("changes", len(pending)).Msg("changes saved")
	u.accept(pending)

	return nil
}

// pending collects the entries SaveChanges has to write, in staging order.
func (u *UnitOfWork) pending() []*entry {
	var out []*entry

	for _, e := range u.order {
		if e.state == Unchanged && e.changed() {
			e.state = Modified
		}

		if e.state != Unchanged {
			out = append(out, e)
		}
	}

	return out
}

func flush(tx *gorm.DB, e *entry) error {
	switch e.state {
	case Added:
		return tx.Create(e.entity).Error
	case Modified:
		return tx.Model(e.entity).Select("*").Omit("ID").Updates(e.entity).Error
	case Deleted:
		result := tx.Delete(e.entity)
		if result.Error != nil {
			return result.Error
		}

		if result.RowsAffected == 0 {
			return fmt.Errorf("%w: delete %s %d", ErrNoRowsAffected, e.value.Type().Name(), e.entity.(keyed).EntityID()) //nolint:forcetypeassert
		}
	case Detached, Unchanged:
	}

	return nil
}

func (u *UnitOfWork) accept(pending []*entry) {
	for _, e := range pending {
		switch e.state {
		case Added:
			u.byKey[e.key()] = e
			e.state = Unchanged
			e.takeSnapshot()
			stagedChanges.WithLabelValues("insert").Inc()
		case Modified:
			e.state = Unchanged
			e.takeSnapshot()
			stagedChanges.WithLabelValues("update").Inc()
		case Deleted:
			u.detach(e)
			stagedChanges.WithLabelValues("delete").Inc()
		case Detached, Unchanged:
		}
	}
}

func (u *UnitOfWork) abort(pending []*entry) {
	for _, e := range pending {
		if e.keyChanged() {
			e.restoreSnapshot()
		}

		switch e.state {
		case Added:
			e.restoreSnapshot()
			u.detach(e)
		case Modified:
			e.restoreSnapshot()
			e.state = Unchanged
		case Deleted:
			if e.origin == Detached {
				u.detach(e)
			} else {
				e.state = Unchanged
			}
		case Detached, Unchanged:
		}
	}
}

// Discard drops every pending change without touching the database, with the
// same effect on the tracked entities as a failed SaveChanges.
func (u *UnitOfWork) Discard() {
	u.abort(u.pending())
}

func (u *UnitOfWork) track(entity any, state State) *entry {
	e := &entry{
		entity: entity,
		value:  reflect.ValueOf(entity).Elem(),
		state:  state,
	}
	e.takeSnapshot()

	u.entries[entity] = e
	u.order = append(u.order, e)

	if e.entity.(keyed).EntityID() != 0 { //nolint:forcetypeassert
		u.byKey[e.key()] = e
	}

	return e
}

func (u *UnitOfWork) detach(e *entry) {
	delete(u.entries, e.entity)

	if k := e.key(); u.byKey[k] == e {
		delete(u.byKey, k)
	}

	for i, o := range u.order {
		if o == e {
			u.order = append(u.order[:i], u.order[i+1:]...)
			break
		}
	}

	e.state = Detached
}

// check validates that entity is a non-nil pointer to a keyed struct.
func check(entity any) error {
	if entity == nil {
		return ErrNilEntity
	}

	v := reflect.ValueOf(entity)
	if v.Kind() != reflect.Pointer {
		return fmt.Errorf("%w: %T", ErrUnsupportedEntity, entity)
	}

	if v.IsNil() {
		return ErrNilEntity
	}

	if v.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("%w: %T", ErrUnsupportedEntity, entity)
	}

	if _, ok := entity.(keyed); !ok {
		return fmt.Errorf("%w: %T has no EntityID method", ErrUnsupportedEntity, entity)
	}

	return nil
}

// add stages entity for insertion.
func (u *UnitOfWork) add(entity any) error {
	if err := check(entity); err != nil {
		return err
	}

	if _, ok := u.entries[entity]; ok {
		return ErrEntityAlreadyTracked
	}

	if id := entity.(keyed).EntityID(); id != 0 { //nolint:forcetypeassert
		if _, ok := u.byKey[identityKey{typ: reflect.TypeOf(entity).Elem(), id: id}]; ok {
			return ErrIdentityConflict
		}
	}

	u.track(entity, Added)

	return nil
}

// remove stages entity for deletion. Untracked entities are attached first,
// entities that were only added are simply detached.
func (u *UnitOfWork) remove(entity any) error {
	if err := check(entity); err != nil {
		return err
	}

	if e, ok := u.entries[entity]; ok {
		if e.keyChanged() {
			return e.keyError()
		}

		switch e.state {
		case Added:
			u.detach(e)
		case Unchanged, Modified:
			e.origin = e.state
			e.state = Deleted
		case Deleted:
			e.origin = Deleted
		case Detached:
		}

		return nil
	}

	id := entity.(keyed).EntityID() //nolint:forcetypeassert
	if id == 0 {
		return ErrKeyUnset
	}

	if _, ok := u.byKey[identityKey{typ: reflect.TypeOf(entity).Elem(), id: id}]; ok {
		return ErrIdentityConflict
	}

	u.track(entity, Deleted)

	return nil
}

// markModified flags a tracked entity so the next SaveChanges updates it.
func (u *UnitOfWork) markModified(entity any) error {
	if err := check(entity); err != nil {
		return err
	}

	e, ok := u.entries[entity]
	if !ok {
		return ErrEntityNotTracked
	}

	if e.keyChanged() {
		return e.keyError()
	}

	e.origin = e.state
	if e.state == Unchanged {
		e.state = Modified
	}

	return nil
}

// revert undoes the last staging operation on entity. Entities that were
// untracked before it are detached again.
func (u *UnitOfWork) revert(entity any) {
	e, ok := u.entries[entity]
	if !ok {
		return
	}

	if e.origin == Detached {
		if e.state == Added {
			e.restoreSnapshot()
		}

		u.detach(e)

		return
	}

	e.state = e.origin
}

// attach starts tracking an entity loaded from the database. If an instance
// with the same key is already tracked, that instance is returned instead.
func (u *UnitOfWork) attach(entity any) any {
	if e, ok := u.entries[entity]; ok {
		return e.entity
	}

	k := identityKey{typ: reflect.TypeOf(entity).Elem(), id: entity.(keyed).EntityID()} //nolint:forcetypeassert
	if e, ok := u.byKey[k]; ok {
		return e.entity
	}

	return u.track(entity, Unchanged).entity
}

// local returns the tracked instance of typ with the given key.
func (u *UnitOfWork) local(typ reflect.Type, id uint64) (any, bool) {
	e, ok := u.byKey[identityKey{typ: typ, id: id}]
	if !ok || e.state == Deleted {
		return nil, false
	}

	return e.entity, true
}
