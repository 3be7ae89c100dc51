package behavior

import "github.com/dshills/interact/internal/input/device"

// ClickTarget receives completed clicks from a SingleClick.
type ClickTarget interface {
	// IsHitByClick hit-tests the press (and the release, if enabled).
	IsHitByClick(ray device.DeviceRay) RayHit

	// OnClicked is called when a click completes.
	OnClicked(ray device.DeviceRay)
}

// SingleClick captures on press and reports a click on release.
type SingleClick struct {
	Base

	Modifiers ModifierStates

	target           ClickTarget
	button           ButtonSelector
	hitTestOnRelease bool
}

// NewSingleClick creates a SingleClick for the left mouse button. The
// release is hit-tested again, so dragging off the target cancels the click.
func NewSingleClick(target ClickTarget) *SingleClick {
	return &SingleClick{
		Base:             NewBase(device.Mouse),
		target:           target,
		button:           LeftButton,
		hitTestOnRelease: true,
	}
}

// SetButton selects the button that clicks.
func (c *SingleClick) SetButton(sel ButtonSelector) {
	c.button = sel
}

// SetHitTestOnRelease controls whether the release must also hit.
func (c *SingleClick) SetHitTestOnRelease(on bool) {
	c.hitTestOnRelease = on
}

// WantsCapture implements Behavior.
func (c *SingleClick) WantsCapture(in device.State) CaptureRequest {
	if !c.button(in.Mouse).Pressed {
		return IgnoreRequest()
	}
	hit := c.target.IsHitByClick(in.Ray())
	if !hit.Hit {
		return IgnoreRequest()
	}
	return BeginRequest(c, CaptureSideFor(in), hit.Depth)
}

// BeginCapture implements Behavior.
func (c *SingleClick) BeginCapture(in device.State, side CaptureSide) CaptureUpdate {
	if mt, ok := c.target.(ModifierToggleTarget); ok {
		c.Modifiers.Update(in, mt)
	}
	return BeginUpdate(side, nil)
}

// UpdateCapture implements Behavior.
func (c *SingleClick) UpdateCapture(in device.State, _ CaptureData) CaptureUpdate {
	if !c.button(in.Mouse).Released {
		return ContinueUpdate()
	}
	if !c.hitTestOnRelease || c.target.IsHitByClick(in.Ray()).Hit {
		c.target.OnClicked(in.Ray())
	}
	return EndUpdate()
}

// ForceEndCapture implements Behavior.
func (c *SingleClick) ForceEndCapture(CaptureData) {}
