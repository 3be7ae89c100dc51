package luatool

import "errors"

// Errors for script loading and execution.
var (
	// ErrStateClosed is returned when calling into a closed state.
	ErrStateClosed = errors.New("lua state is closed")

	// ErrTimeout is returned when a call exceeds the state's timeout.
	ErrTimeout = errors.New("lua call timed out")

	// ErrNoToolTable is returned for scripts without a global tool table.
	ErrNoToolTable = errors.New("script does not define a tool table")

	// ErrNoName is returned for tool tables without a name.
	ErrNoName = errors.New("tool table has no name")
)
