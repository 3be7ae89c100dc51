package tools

import (
	"errors"
	"fmt"
)

// Tool errors.
var (
	// ErrUnknownToolType indicates no builder is registered under a name.
	ErrUnknownToolType = errors.New("unknown tool type")

	// ErrNoBuilderSelected indicates ActivateTool was called before
	// SelectActiveToolType.
	ErrNoBuilderSelected = errors.New("no tool type selected")

	// ErrCannotBuild indicates the selected builder refused the current scene.
	ErrCannotBuild = errors.New("tool cannot be built for current scene")

	// ErrToolAlreadyActive indicates the side already has an active tool.
	ErrToolAlreadyActive = errors.New("tool already active")

	// ErrNilTool indicates the builder returned no tool.
	ErrNilTool = errors.New("builder returned nil tool")

	// ErrSetupFailed indicates the tool panicked during Setup.
	ErrSetupFailed = errors.New("tool setup failed")

	// ErrInvalidSide indicates a side outside SideLeft and SideRight.
	ErrInvalidSide = errors.New("invalid tool side")

	// ErrDuplicateAction indicates an action id is already registered.
	ErrDuplicateAction = errors.New("duplicate action id")

	// ErrInvalidAction indicates an action without a name or callback.
	ErrInvalidAction = errors.New("invalid action")

	// ErrUnknownProperty indicates a property that was never defined.
	ErrUnknownProperty = errors.New("unknown property")

	// ErrPropertyType indicates a value that cannot be stored in a property.
	ErrPropertyType = errors.New("property type mismatch")
)

// ActivationError describes a failed ActivateTool call.
type ActivationError struct {
	Side Side   // Side the tool was to run on
	Tool string // Selected tool type, if any
	Err  error  // Underlying error
}

func (e *ActivationError) Error() string {
	if e == nil {
		return ""
	}
	if e.Tool == "" {
		return fmt.Sprintf("activate %s tool: %v", e.Side, e.Err)
	}
	return fmt.Sprintf("activate %s tool %q: %v", e.Side, e.Tool, e.Err)
}

// Unwrap returns the underlying error.
func (e *ActivationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}
