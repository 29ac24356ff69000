package repository

import (
	"gorm.io/gorm"

	"github.com/greensocial/green/internal/db/models"
	"github.com/greensocial/green/internal/db/uow"
)

// Query is a lazily executed query on the table of T. Every builder method
// returns a new Query, the receiver is never modified. Nothing is sent to the
// database before Find, First or Count.
type Query[T models.Identifiable] struct {
	db       *gorm.DB
	entities *uow.Set[T] // nil for untracked queries
}

func (q *Query[T]) with(db *gorm.DB) *Query[T] {
	return &Query[T]{db: db.Session(&gorm.Session{}), entities: q.entities}
}

// Tracked reports whether results are tracked by the unit of work.
func (q *Query[T]) Tracked() bool {
	return q.entities != nil
}

// Where adds a condition, see gorm.DB.Where.
func (q *Query[T]) Where(query any, args ...any) *Query[T] {
	return q.with(q.db.Where(query, args...))
}

// Not adds a negated condition.
func (q *Query[T]) Not(query any, args ...any) *Query[T] {
	return q.with(q.db.Not(query, args...))
}

// Or adds an alternative condition.
func (q *Query[T]) Or(query any, args ...any) *Query[T] {
	return q.with(q.db.Or(query, args...))
}

// Order adds a sort expression such as "name desc".
func (q *Query[T]) Order(value any) *Query[T] {
	return q.with(q.db.Order(value))
}

// Limit caps the number of results.
func (q *Query[T]) Limit(limit int) *Query[T] {
	return q.with(q.db.Limit(limit))
}

// Offset skips the first offset results.
func (q *Query[T]) Offset(offset int) *Query[T] {
	return q.with(q.db.Offset(offset))
}

// Scopes applies gorm scopes.
func (q *Query[T]) Scopes(funcs ...func(*gorm.DB) *gorm.DB) *Query[T] {
	return q.with(q.db.Scopes(funcs...))
}

// Find executes the query. Tracked queries return the already tracked
// instance for rows the unit of work knows, pending changes included.
func (q *Query[T]) Find() ([]*T, error) {
	var rows []*T

	if err := q.db.Find(&rows).Error; err != nil {
		return nil, persistence("find", err)
	}

	if q.entities != nil {
		for i := range rows {
			rows[i] = q.entities.Attach(rows[i])
		}
	}

	return rows, nil
}

// First returns the first result, or nil if the query matches nothing.
func (q *Query[T]) First() (*T, error) {
	rows, err := q.Limit(1).Find()
	if err != nil {
		return nil, err
	}

	if len(rows) == 0 {
		return nil, nil //nolint:nilnil
	}

	return rows[0], nil
}

// Count returns the number of matching rows.
func (q *Query[T]) Count() (int64, error) {
	var n int64

	if err := q.db.Count(&n).Error; err != nil {
		return 0, persistence("count", err)
	}

	return n, nil
}
