package behavior

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/dshills/interact/internal/input/device"
)

// RayHit is the result of a behavior target's hit test.
type RayHit struct {
	Hit    bool
	Depth  float64
	Normal mgl64.Vec3

	// ID is a target-defined identifier of what was hit.
	ID int
}

// HitAt returns a hit at the given depth.
func HitAt(depth float64) RayHit {
	return RayHit{Hit: true, Depth: depth}
}

// Miss returns a miss.
func Miss() RayHit {
	return RayHit{}
}

// ButtonSelector picks the button a mouse behavior reacts to.
type ButtonSelector func(m device.MouseState) device.ButtonState

// Stock button selectors.
var (
	LeftButton   ButtonSelector = func(m device.MouseState) device.ButtonState { return m.Left }
	MiddleButton ButtonSelector = func(m device.MouseState) device.ButtonState { return m.Middle }
	RightButton  ButtonSelector = func(m device.MouseState) device.ButtonState { return m.Right }
)

// ModifierTest reports whether a modifier condition holds for a sample.
type ModifierTest func(in device.State) bool

// Stock modifier tests.
var (
	IsShiftDown ModifierTest = device.State.IsShiftDown
	IsCtrlDown  ModifierTest = device.State.IsCtrlDown
	IsAltDown   ModifierTest = device.State.IsAltDown
	IsMetaDown  ModifierTest = device.State.IsMetaDown
)

// ModifierToggleTarget receives modifier state updates from behaviors.
type ModifierToggleTarget interface {
	OnUpdateModifierState(id int, on bool)
}

type modifierEntry struct {
	id   int
	test ModifierTest
}

// ModifierStates maps target-defined modifier ids to tests. Behaviors push
// the current value of every registered modifier to their target before
// forwarding a sample.
type ModifierStates struct {
	entries []modifierEntry
}

// Register adds a modifier id evaluated by test.
func (m *ModifierStates) Register(id int, test ModifierTest) {
	m.entries = append(m.entries, modifierEntry{id: id, test: test})
}

// Len returns the number of registered modifiers.
func (m *ModifierStates) Len() int {
	return len(m.entries)
}

// Update evaluates every modifier and reports it to target.
// A nil target is a no-op.
func (m *ModifierStates) Update(in device.State, target ModifierToggleTarget) {
	if target == nil {
		return
	}
	for _, e := range m.entries {
		target.OnUpdateModifierState(e.id, e.test(in))
	}
}
