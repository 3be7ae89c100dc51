// Package ctxapi defines the narrow host contracts that the input router and
// tool manager depend on.
//
// The host application injects implementations of these interfaces when it
// constructs a tools context. Queries are read-only; transactions carry every
// mutation a tool asks the host to perform (messages, redraw requests, undo
// transactions, recorded changes, selection changes).
package ctxapi

import (
	"github.com/go-gl/mathgl/mgl64"
)

// MessageLevel is the severity of a message displayed through the host.
type MessageLevel uint8

const (
	// Internal messages are diagnostics for developers, not end users.
	Internal MessageLevel = iota
	// UserMessage is a regular status message.
	UserMessage
	// UserNotification is a transient notification.
	UserNotification
	// UserWarning is a warning shown to the user.
	UserWarning
	// UserError is an error shown to the user.
	UserError
)

// String returns a string representation of the level.
func (l MessageLevel) String() string {
	switch l {
	case Internal:
		return "internal"
	case UserMessage:
		return "message"
	case UserNotification:
		return "notification"
	case UserWarning:
		return "warning"
	case UserError:
		return "error"
	default:
		return "unknown"
	}
}

// ObjectRef identifies an object in the host scene.
type ObjectRef struct {
	// ID is the host-assigned identifier.
	ID string

	// Kind is the host-defined object type, e.g. "mesh" or "cell".
	Kind string
}

// SceneState is the snapshot a tool builder inspects before building a tool.
type SceneState struct {
	// Selection is the current host selection, in selection order.
	Selection []ObjectRef

	// Extra carries host-specific context.
	Extra map[string]any
}

// SelectionCount returns the number of selected objects.
func (s SceneState) SelectionCount() int {
	return len(s.Selection)
}

// SelectedOfKind returns the selected objects of the given kind.
func (s SceneState) SelectedOfKind(kind string) []ObjectRef {
	var out []ObjectRef
	for _, o := range s.Selection {
		if o.Kind == kind {
			out = append(out, o)
		}
	}
	return out
}

// ViewState describes the current camera.
type ViewState struct {
	Position     mgl64.Vec3
	Forward      mgl64.Vec3
	Up           mgl64.Vec3
	FOVDegrees   float64
	Orthographic bool
	Viewport     mgl64.Vec2
}

// CoordinateSystem is the active transform frame for manipulation.
type CoordinateSystem uint8

const (
	// CoordWorld is the world frame.
	CoordWorld CoordinateSystem = iota
	// CoordLocal is the selected object's frame.
	CoordLocal
)

// String returns a string representation of the coordinate system.
func (c CoordinateSystem) String() string {
	if c == CoordLocal {
		return "local"
	}
	return "world"
}

// SnapTarget selects what a snap query snaps to.
type SnapTarget uint8

const (
	// SnapGrid snaps to the host grid.
	SnapGrid SnapTarget = iota
	// SnapVertex snaps to nearby scene vertices.
	SnapVertex
)

// SnapQuery asks the host to snap a point.
type SnapQuery struct {
	Target   SnapTarget
	Position mgl64.Vec3
	// Tolerance is the maximum snap distance in world units.
	Tolerance float64
}

// SnapResult is one snap candidate.
type SnapResult struct {
	Position mgl64.Vec3
	Target   ObjectRef
}

// MaterialKind names a standard material a host provides for previews.
type MaterialKind uint8

const (
	// MaterialDefault is the default surface material.
	MaterialDefault MaterialKind = iota
	// MaterialHighlight is used for hover highlighting.
	MaterialHighlight
	// MaterialPreview is used for in-progress previews.
	MaterialPreview
)

// Material is an opaque host material handle.
type Material string

// Change is a reversible edit a tool records with the host.
type Change interface {
	// Describe returns a short human-readable summary.
	Describe() string
}

// ChangeFunc adapts a description to a Change.
type ChangeFunc string

// Describe implements Change.
func (c ChangeFunc) Describe() string { return string(c) }

// SelectionChangeKind is the operation a selection change performs.
type SelectionChangeKind uint8

const (
	// SelectReplace replaces the selection.
	SelectReplace SelectionChangeKind = iota
	// SelectAdd adds to the selection.
	SelectAdd
	// SelectRemove removes from the selection.
	SelectRemove
)

// SelectionChange is a tool's request to modify the host selection.
type SelectionChange struct {
	Kind    SelectionChangeKind
	Objects []ObjectRef
}

// Color is an RGBA color used by render calls.
type Color struct {
	R, G, B, A uint8
}

// QueriesAPI is the host's read-only query surface.
type QueriesAPI interface {
	// CurrentSelectionState returns the scene state tool builders inspect.
	CurrentSelectionState() SceneState

	// CurrentViewState returns the active camera.
	CurrentViewState() ViewState

	// CurrentCoordinateSystem returns the active manipulation frame.
	CurrentCoordinateSystem() CoordinateSystem

	// ExecuteSceneSnapQuery snaps a point. It returns false if nothing snapped.
	ExecuteSceneSnapQuery(q SnapQuery) ([]SnapResult, bool)

	// StandardMaterial returns a host material for previews.
	StandardMaterial(kind MaterialKind) Material
}

// TransactionsAPI is the host's mutation surface.
//
// BeginUndoTransaction and EndUndoTransaction must nest correctly: every
// Begin is matched by exactly one End.
type TransactionsAPI interface {
	// DisplayMessage shows a message at the given level.
	DisplayMessage(msg string, level MessageLevel)

	// PostInvalidation asks the host to redraw.
	PostInvalidation()

	// BeginUndoTransaction opens an undo transaction.
	BeginUndoTransaction(description string)

	// EndUndoTransaction closes the innermost undo transaction.
	EndUndoTransaction()

	// AppendChange records a change against target in the open transaction.
	AppendChange(target any, change Change, description string)

	// RequestSelectionChange asks the host to change its selection.
	// It returns false if the host refused.
	RequestSelectionChange(change SelectionChange) bool
}

// AssetAPI is the host's asset creation surface.
type AssetAPI interface {
	// DefaultAssetPath returns the folder new assets go to.
	DefaultAssetPath() string

	// UniqueAssetName returns a name based on base that is unused in folder.
	UniqueAssetName(folder, base string) string

	// SaveGeneratedAsset persists a tool-generated asset.
	SaveGeneratedAsset(path string, payload any) error
}

// RenderAPI is handed to tools each frame to draw their previews.
type RenderAPI interface {
	// ViewState returns the camera for this frame.
	ViewState() ViewState

	// DrawPoint draws a point with a glyph hint for text-mode hosts.
	DrawPoint(pos mgl64.Vec2, glyph rune, color Color)

	// DrawLine draws a line segment.
	DrawLine(from, to mgl64.Vec2, color Color)

	// DrawText draws a text label.
	DrawText(pos mgl64.Vec2, text string, color Color)
}
