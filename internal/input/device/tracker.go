package device

import (
	"time"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/dshills/interact/internal/input/key"
)

// Button identifies a mouse button for the tracker.
type Button uint8

const (
	// ButtonLeft is the primary mouse button.
	ButtonLeft Button = iota
	// ButtonMiddle is the middle mouse button.
	ButtonMiddle
	// ButtonRight is the secondary mouse button.
	ButtonRight

	buttonCount
)

// DefaultDoubleClickTime is the maximum time between presses of a double-click.
const DefaultDoubleClickTime = 400 * time.Millisecond

// MouseTracker turns raw "is this button held" samples from a host into
// States with press/release transitions and pointer deltas.
//
// Hosts that only report level-triggered button masks (terminals, polling
// APIs) keep one tracker per pointer side.
type MouseTracker struct {
	side        Side
	down        [buttonCount]bool
	lastPress   [buttonCount]time.Time
	lastPos     mgl64.Vec2
	hasPos      bool
	doubleClick time.Duration
}

// NewMouseTracker creates a tracker for the given pointer side.
func NewMouseTracker(side Side) *MouseTracker {
	return &MouseTracker{side: side, doubleClick: DefaultDoubleClickTime}
}

// SetDoubleClickTime sets the double-click window. Zero disables detection.
func (t *MouseTracker) SetDoubleClickTime(d time.Duration) {
	t.doubleClick = d
}

// Sample records a raw sample and returns the resulting State.
func (t *MouseTracker) Sample(pos mgl64.Vec2, held [3]bool, wheel float64, mods key.Modifier, now time.Time) State {
	st := State{
		Device:    Mouse,
		Side:      t.side,
		Modifiers: mods,
		Time:      now,
	}
	st.Mouse.Position2D = pos
	st.Mouse.WorldRay = ScreenRay(pos)
	st.Mouse.WheelDelta = wheel
	if t.hasPos {
		st.Mouse.Delta2D = pos.Sub(t.lastPos)
	}
	t.lastPos = pos
	t.hasPos = true

	buttons := [buttonCount]*ButtonState{&st.Mouse.Left, &st.Mouse.Middle, &st.Mouse.Right}
	for i := Button(0); i < buttonCount; i++ {
		bs := buttons[i]
		was := t.down[i]
		is := held[i]
		bs.Down = is
		bs.Pressed = is && !was
		bs.Released = !is && was
		if bs.Pressed {
			if t.doubleClick > 0 && !t.lastPress[i].IsZero() && now.Sub(t.lastPress[i]) <= t.doubleClick {
				bs.DoubleClicked = true
				t.lastPress[i] = time.Time{}
			} else {
				t.lastPress[i] = now
			}
		}
		t.down[i] = is
	}
	return st
}

// Reset forgets all held buttons and the last position.
func (t *MouseTracker) Reset() {
	*t = MouseTracker{side: t.side, doubleClick: t.doubleClick}
}

// KeyPress returns a keyboard State for a key going down.
func KeyPress(k key.Key, r rune, mods key.Modifier, now time.Time) State {
	return State{
		Device:    Keyboard,
		Modifiers: mods,
		Keyboard: KeyboardState{
			Key:    k,
			Rune:   r,
			Button: ButtonState{Pressed: true, Down: true},
		},
		Time: now,
	}
}

// KeyRelease returns a keyboard State for a key going up.
func KeyRelease(k key.Key, r rune, mods key.Modifier, now time.Time) State {
	return State{
		Device:    Keyboard,
		Modifiers: mods,
		Keyboard: KeyboardState{
			Key:    k,
			Rune:   r,
			Button: ButtonState{Released: true},
		},
		Time: now,
	}
}
