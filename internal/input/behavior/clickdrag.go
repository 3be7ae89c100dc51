package behavior

import "github.com/dshills/interact/internal/input/device"

// ClickDragTarget receives press, drag and release from a ClickDrag.
type ClickDragTarget interface {
	// CanBeginClickDrag hit-tests the press. A miss declines the capture.
	CanBeginClickDrag(ray device.DeviceRay) RayHit

	// OnClickPress is called when the capture begins.
	OnClickPress(ray device.DeviceRay)

	// OnClickDrag is called for every sample while the button is held.
	OnClickDrag(ray device.DeviceRay)

	// OnClickRelease is called when the button is released.
	OnClickRelease(ray device.DeviceRay)

	// OnTerminateDragSequence is called when the capture is forcibly ended.
	OnTerminateDragSequence()
}

// ClickDrag captures on a button press and forwards drag samples to its
// target until the button is released.
type ClickDrag struct {
	Base

	// Modifiers are evaluated before every forwarded sample.
	Modifiers ModifierStates

	target      ClickDragTarget
	button      ButtonSelector
	modCheck    ModifierTest
	modsOnDrag  bool
	pressedSide CaptureSide
}

// NewClickDrag creates a ClickDrag for the left mouse button.
func NewClickDrag(target ClickDragTarget) *ClickDrag {
	return &ClickDrag{
		Base:       NewBase(device.Mouse),
		target:     target,
		button:     LeftButton,
		modsOnDrag: true,
	}
}

// SetButton selects the button that starts a drag.
func (c *ClickDrag) SetButton(sel ButtonSelector) {
	c.button = sel
}

// SetModifierCheck restricts captures to samples where test holds.
func (c *ClickDrag) SetModifierCheck(test ModifierTest) {
	c.modCheck = test
}

// SetUpdateModifiersDuringDrag controls whether modifiers are re-evaluated
// on every drag sample or only on press.
func (c *ClickDrag) SetUpdateModifiersDuringDrag(on bool) {
	c.modsOnDrag = on
}

// ActiveSide returns the side of the current capture, or CaptureNone.
func (c *ClickDrag) ActiveSide() CaptureSide {
	return c.pressedSide
}

// WantsCapture implements Behavior. A ClickDrag holds at most one side; a
// press on another side is declined until the current drag ends.
func (c *ClickDrag) WantsCapture(in device.State) CaptureRequest {
	if c.pressedSide != CaptureNone || !c.button(in.Mouse).Pressed {
		return IgnoreRequest()
	}
	if c.modCheck != nil && !c.modCheck(in) {
		return IgnoreRequest()
	}
	hit := c.target.CanBeginClickDrag(in.Ray())
	if !hit.Hit {
		return IgnoreRequest()
	}
	return BeginRequest(c, CaptureSideFor(in), hit.Depth)
}

// BeginCapture implements Behavior.
func (c *ClickDrag) BeginCapture(in device.State, side CaptureSide) CaptureUpdate {
	c.updateModifiers(in)
	c.pressedSide = side
	c.target.OnClickPress(in.Ray())
	return BeginUpdate(side, nil)
}

// UpdateCapture implements Behavior.
func (c *ClickDrag) UpdateCapture(in device.State, _ CaptureData) CaptureUpdate {
	if c.modsOnDrag {
		c.updateModifiers(in)
	}
	if c.button(in.Mouse).Released {
		c.target.OnClickRelease(in.Ray())
		c.pressedSide = CaptureNone
		return EndUpdate()
	}
	c.target.OnClickDrag(in.Ray())
	return ContinueUpdate()
}

// ForceEndCapture implements Behavior.
func (c *ClickDrag) ForceEndCapture(CaptureData) {
	c.pressedSide = CaptureNone
	c.target.OnTerminateDragSequence()
}

func (c *ClickDrag) updateModifiers(in device.State) {
	if mt, ok := c.target.(ModifierToggleTarget); ok {
		c.Modifiers.Update(in, mt)
	}
}
