package behavior

import (
	"slices"

	"github.com/dshills/interact/internal/input/device"
	"github.com/dshills/interact/internal/input/key"
)

// KeyTarget receives key presses captured by a KeyInput.
type KeyTarget interface {
	// OnKeyPressed is called when a watched key goes down.
	OnKeyPressed(c key.Chord)

	// OnKeyReleased is called when it goes up, or when the capture is
	// forcibly ended.
	OnKeyReleased(c key.Chord)
}

// KeyInput captures the keyboard while one of its watched keys is held.
// Watched keys match regardless of modifiers; the chord handed to the
// target carries the modifiers of the press.
type KeyInput struct {
	Base

	target KeyTarget
	keys   []key.Chord
}

// NewKeyInput watches the given keys. Only Key and Rune of each chord are
// compared.
func NewKeyInput(target KeyTarget, keys ...key.Chord) *KeyInput {
	return &KeyInput{
		Base:   NewBase(device.Keyboard),
		target: target,
		keys:   slices.Clone(keys),
	}
}

func (k *KeyInput) watches(ks device.KeyboardState) bool {
	for _, c := range k.keys {
		if c.Matches(ks.Key, ks.Rune, c.Modifiers) {
			return true
		}
	}
	return false
}

// WantsCapture implements Behavior.
func (k *KeyInput) WantsCapture(in device.State) CaptureRequest {
	if !in.Keyboard.Button.Pressed || !k.watches(in.Keyboard) {
		return IgnoreRequest()
	}
	return BeginRequest(k, CaptureKeyboard, 0)
}

// BeginCapture implements Behavior. The pressed chord becomes the
// session data.
func (k *KeyInput) BeginCapture(in device.State, side CaptureSide) CaptureUpdate {
	pressed := in.Keyboard.Chord(in.Modifiers)
	k.target.OnKeyPressed(pressed)
	return BeginUpdate(side, pressed)
}

// UpdateCapture implements Behavior.
func (k *KeyInput) UpdateCapture(in device.State, data CaptureData) CaptureUpdate {
	pressed, _ := data.(key.Chord)
	if in.Keyboard.Button.Released && pressed.Matches(in.Keyboard.Key, in.Keyboard.Rune, pressed.Modifiers) {
		k.target.OnKeyReleased(pressed)
		return EndUpdate()
	}
	return ContinueUpdate()
}

// ForceEndCapture implements Behavior.
func (k *KeyInput) ForceEndCapture(data CaptureData) {
	if pressed, ok := data.(key.Chord); ok {
		k.target.OnKeyReleased(pressed)
	}
}
