package uow

// State is the tracking state of an entity inside a unit of work.
type State int

const (
	// Detached entities are unknown to the unit of work.
	Detached State = iota
	// Unchanged entities match the last known database row.
	Unchanged
	// Added entities are inserted by the next SaveChanges.
	Added
	// Modified entities are updated by the next SaveChanges.
	Modified
	// Deleted entities are removed by the next SaveChanges.
	Deleted
)

func (s State) String() string {
	switch s {
	case Unchanged:
		return "unchanged"
	case Added:
		return "added"
	case Modified:
		return "modified"
	case Deleted:
		return "deleted"
	default:
		return "detached"
	}
}
