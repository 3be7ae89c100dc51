package device

import (
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"

	"github.com/dshills/interact/internal/input/key"
)

func TestDevicesString(t *testing.T) {
	tests := []struct {
		devices  Devices
		expected string
	}{
		{None, "none"},
		{Mouse, "mouse"},
		{Keyboard | Mouse, "keyboard+mouse"},
		{Any, "keyboard+mouse+gamepad+spatial+tablet"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.devices.String())
		})
	}
}

func TestStateIsFromDevice(t *testing.T) {
	st := State{Device: Mouse}
	assert.True(t, st.IsFromDevice(Mouse))
	assert.True(t, st.IsFromDevice(Any))
	assert.False(t, st.IsFromDevice(Keyboard))
}

func TestMouseTrackerTransitions(t *testing.T) {
	tr := NewMouseTracker(SideLeft)
	now := time.Now()
	pos := mgl64.Vec2{10, 5}

	st := tr.Sample(pos, [3]bool{}, 0, key.ModNone, now)
	assert.True(t, st.Mouse.Left.Idle())
	assert.Equal(t, mgl64.Vec2{}, st.Mouse.Delta2D)

	st = tr.Sample(pos, [3]bool{true, false, false}, 0, key.ModNone, now.Add(time.Second))
	assert.True(t, st.Mouse.Left.Pressed)
	assert.True(t, st.Mouse.Left.Down)
	assert.False(t, st.Mouse.Left.Released)

	st = tr.Sample(mgl64.Vec2{12, 7}, [3]bool{true, false, false}, 0, key.ModShift, now.Add(2*time.Second))
	assert.False(t, st.Mouse.Left.Pressed)
	assert.True(t, st.Mouse.Left.Down)
	assert.Equal(t, mgl64.Vec2{2, 2}, st.Mouse.Delta2D)
	assert.True(t, st.IsShiftDown())

	st = tr.Sample(mgl64.Vec2{12, 7}, [3]bool{}, 0, key.ModNone, now.Add(3*time.Second))
	assert.True(t, st.Mouse.Left.Released)
	assert.False(t, st.Mouse.Left.Down)
	assert.Equal(t, SideLeft, st.Side)
	assert.Equal(t, Mouse, st.Device)
}

func TestMouseTrackerDoubleClick(t *testing.T) {
	tr := NewMouseTracker(SideRight)
	now := time.Now()
	down := [3]bool{true, false, false}
	up := [3]bool{}

	st := tr.Sample(mgl64.Vec2{}, down, 0, key.ModNone, now)
	assert.False(t, st.Mouse.Left.DoubleClicked)
	tr.Sample(mgl64.Vec2{}, up, 0, key.ModNone, now.Add(50*time.Millisecond))
	st = tr.Sample(mgl64.Vec2{}, down, 0, key.ModNone, now.Add(100*time.Millisecond))
	assert.True(t, st.Mouse.Left.DoubleClicked)
	assert.Equal(t, SideRight, st.Side)

	// a third press starts a new sequence
	tr.Sample(mgl64.Vec2{}, up, 0, key.ModNone, now.Add(150*time.Millisecond))
	st = tr.Sample(mgl64.Vec2{}, down, 0, key.ModNone, now.Add(200*time.Millisecond))
	assert.False(t, st.Mouse.Left.DoubleClicked)
}

func TestMouseStateIsMotionOnly(t *testing.T) {
	tests := []struct {
		name string
		m    MouseState
		want bool
	}{
		{"idle", MouseState{}, true},
		{"held", MouseState{Left: ButtonState{Down: true}}, false},
		{"released", MouseState{Right: ButtonState{Released: true}}, false},
		{"pressed", MouseState{Middle: ButtonState{Pressed: true, Down: true}}, false},
		{"wheel", MouseState{WheelDelta: -1}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.m.IsMotionOnly())
		})
	}
}

func TestKeyboardStateChord(t *testing.T) {
	st := KeyPress(key.KeyRune, 'Z', key.ModCtrl, time.Now())
	assert.True(t, st.IsFromDevice(Keyboard))
	assert.Equal(t, key.MustParseChord("Ctrl+z"), st.Keyboard.Chord(st.Modifiers))

	rel := KeyRelease(key.KeyEscape, 0, key.ModNone, time.Now())
	assert.True(t, rel.Keyboard.Button.Released)
	assert.Equal(t, key.SpecialChord(key.KeyEscape, key.ModNone), rel.Keyboard.Chord(rel.Modifiers))
}

func TestRay(t *testing.T) {
	r := NewRay(mgl64.Vec3{0, 0, 0}, mgl64.Vec3{0, 0, 5})
	assert.Equal(t, mgl64.Vec3{0, 0, 1}, r.Direction)
	assert.Equal(t, mgl64.Vec3{0, 0, 3}, r.PointAt(3))
	assert.Equal(t, 4.0, r.DistanceTo(mgl64.Vec3{1, 1, 4}))
	assert.Equal(t, 0.0, r.DistanceTo(mgl64.Vec3{0, 0, -2}))

	sr := ScreenRay(mgl64.Vec2{3, 4})
	assert.Equal(t, mgl64.Vec3{3, 4, 0}, sr.Origin)

	st := State{Device: Mouse}
	st.Mouse.Position2D = mgl64.Vec2{3, 4}
	st.Mouse.WorldRay = sr
	dr := st.Ray()
	assert.True(t, dr.Has2D)
	assert.Equal(t, mgl64.Vec2{3, 4}, dr.ScreenPosition)
}
