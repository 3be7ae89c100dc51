// Package device defines the per-event input device snapshot that hosts feed
// into the input router.
//
// A State is an immutable value describing one device at one instant: which
// device produced it, button transitions, pointer position and world ray,
// the active keyboard key and held modifiers. The host owns its lifetime and
// produces a new State per event or frame.
package device

import (
	"strings"
	"time"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/dshills/interact/internal/input/key"
)

// Devices is a bitmask of input device kinds.
type Devices uint8

const (
	// None indicates no device.
	None Devices = 0
	// Keyboard is a keyboard.
	Keyboard Devices = 1 << iota
	// Mouse is a mouse or any other single-pointer device.
	Mouse
	// Gamepad is a game controller.
	Gamepad
	// SpatialController is a tracked 3D controller (e.g. a VR hand).
	SpatialController
	// TabletFingers is a multi-touch surface.
	TabletFingers

	// Any matches every device kind.
	Any = Keyboard | Mouse | Gamepad | SpatialController | TabletFingers
)

// Has returns true if d includes any of the devices in other.
func (d Devices) Has(other Devices) bool {
	return d&other != 0
}

// String returns a "+"-joined list of device names.
func (d Devices) String() string {
	if d == None {
		return "none"
	}
	var parts []string
	for _, e := range []struct {
		dev  Devices
		name string
	}{
		{Keyboard, "keyboard"},
		{Mouse, "mouse"},
		{Gamepad, "gamepad"},
		{SpatialController, "spatial"},
		{TabletFingers, "tablet"},
	} {
		if d.Has(e.dev) {
			parts = append(parts, e.name)
		}
	}
	return strings.Join(parts, "+")
}

// Side identifies which physical pointer produced a mouse-class event.
// A desktop mouse is always SideLeft; a second pointer (a pen, the other
// hand of a tracked pair) posts on SideRight.
type Side uint8

const (
	// SideLeft is the primary pointer.
	SideLeft Side = iota
	// SideRight is the secondary pointer.
	SideRight
)

// String returns a string representation of the side.
func (s Side) String() string {
	if s == SideRight {
		return "right"
	}
	return "left"
}

// ButtonState is the transition state of a single button in one sample.
type ButtonState struct {
	// Pressed is true only in the sample where the button went down.
	Pressed bool

	// Down is true while the button is held, including the pressed sample.
	Down bool

	// Released is true only in the sample where the button went up.
	Released bool

	// DoubleClicked is true if the press completed a double-click.
	DoubleClicked bool
}

// Idle returns true if the button has no activity in this sample.
func (b ButtonState) Idle() bool {
	return !b.Pressed && !b.Down && !b.Released
}

// MouseState is the mouse portion of a State.
type MouseState struct {
	Left   ButtonState
	Middle ButtonState
	Right  ButtonState

	// WheelDelta is the scroll wheel movement in this sample.
	WheelDelta float64

	// Position2D is the pointer position in screen coordinates.
	Position2D mgl64.Vec2

	// Delta2D is the pointer movement since the previous sample.
	Delta2D mgl64.Vec2

	// WorldRay is the 3D ray through the pointer position.
	WorldRay Ray
}

// AnyButtonDown returns true if any mouse button is held.
func (m MouseState) AnyButtonDown() bool {
	return m.Left.Down || m.Middle.Down || m.Right.Down
}

// IsMotionOnly returns true if the sample carries no button transition,
// no held button and no wheel movement.
func (m MouseState) IsMotionOnly() bool {
	for _, b := range [...]ButtonState{m.Left, m.Middle, m.Right} {
		if b.Down || b.Pressed || b.Released {
			return false
		}
	}
	return m.WheelDelta == 0
}

// KeyboardState is the keyboard portion of a State.
type KeyboardState struct {
	// Key is the key that changed state in this sample.
	Key key.Key

	// Rune is the character for key.KeyRune.
	Rune rune

	// Button is the transition state of Key.
	Button ButtonState
}

// Chord returns the key chord for this sample with the given modifiers.
func (k KeyboardState) Chord(mods key.Modifier) key.Chord {
	if k.Key == key.KeyRune {
		return key.RuneChord(k.Rune, mods)
	}
	return key.SpecialChord(k.Key, mods)
}

// State is a snapshot of one input device at one instant.
type State struct {
	// Device is the device that produced this sample.
	Device Devices

	// Side selects the capture slot for mouse-class samples.
	Side Side

	// Modifiers are the keyboard modifiers held during the sample.
	Modifiers key.Modifier

	Mouse    MouseState
	Keyboard KeyboardState

	// Time is when the sample was taken.
	Time time.Time
}

// IsFromDevice returns true if the sample came from any of the given devices.
func (s State) IsFromDevice(d Devices) bool {
	return s.Device.Has(d)
}

// IsShiftDown returns true if Shift is held.
func (s State) IsShiftDown() bool { return s.Modifiers.HasShift() }

// IsCtrlDown returns true if Control is held.
func (s State) IsCtrlDown() bool { return s.Modifiers.HasCtrl() }

// IsAltDown returns true if Alt is held.
func (s State) IsAltDown() bool { return s.Modifiers.HasAlt() }

// IsMetaDown returns true if Meta is held.
func (s State) IsMetaDown() bool { return s.Modifiers.HasMeta() }

// Ray returns the device ray for this sample.
func (s State) Ray() DeviceRay {
	return DeviceRay{
		WorldRay:       s.Mouse.WorldRay,
		Has2D:          s.IsFromDevice(Mouse),
		ScreenPosition: s.Mouse.Position2D,
	}
}
