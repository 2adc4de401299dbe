package todo

import "errors"

var (
	// ErrNotFound is returned when the requested row does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrForbidden is returned when the row belongs to another session.
	ErrForbidden = errors.New("record belongs to another session")
)

// Entity names the kind of record an error refers to.
type Entity string

const (
	EntityList     Entity = "todo list"
	EntityItem     Entity = "todo item"
	EntityReminder Entity = "reminder"
)

// Error ties ErrNotFound or ErrForbidden to the entity it concerns.
type Error struct {
	Entity Entity
	Err    error
}

func (e *Error) Error() string {
	return string(e.Entity) + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NotFound reports a missing entity.
func NotFound(entity Entity) error {
	return &Error{Entity: entity, Err: ErrNotFound}
}

// Forbidden reports an entity owned by another session.
func Forbidden(entity Entity) error {
	return &Error{Entity: entity, Err: ErrForbidden}
}
