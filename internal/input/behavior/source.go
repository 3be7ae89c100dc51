package behavior

import "github.com/google/uuid"

// SourceID is a stable handle for a group of registered behaviors.
//
// The router keys capture ownership by SourceID rather than by object
// identity, so a source that has been disposed can still be named when
// terminating its capture.
type SourceID uuid.UUID

// NilSource is the zero handle.
var NilSource SourceID

// NewSourceID mints a fresh handle.
func NewSourceID() SourceID {
	return SourceID(uuid.New())
}

// IsNil returns true for the zero handle.
func (id SourceID) IsNil() bool {
	return id == NilSource
}

// String returns the canonical uuid form.
func (id SourceID) String() string {
	return uuid.UUID(id).String()
}

// Source is anything that exposes a set of behaviors for registration,
// typically an interactive tool.
type Source interface {
	InputBehaviors() *Set
}
