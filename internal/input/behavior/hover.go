package behavior

import "github.com/dshills/interact/internal/input/device"

// HoverTarget receives hover sequences from a MouseHover.
type HoverTarget interface {
	// BeginHoverHitTest decides whether a hover sequence may start.
	BeginHoverHitTest(ray device.DeviceRay) RayHit

	// OnBeginHover starts a sequence.
	OnBeginHover(ray device.DeviceRay)

	// OnUpdateHover continues a sequence. Returning false ends it.
	OnUpdateHover(ray device.DeviceRay) bool

	// OnEndHover ends a sequence.
	OnEndHover()
}

// MouseHover never captures; it only takes part in hover arbitration.
type MouseHover struct {
	Base

	Modifiers ModifierStates

	target HoverTarget
}

// NewMouseHover creates a hover behavior for target.
func NewMouseHover(target HoverTarget) *MouseHover {
	return &MouseHover{Base: NewBase(device.Mouse), target: target}
}

// WantsCapture implements Behavior.
func (h *MouseHover) WantsCapture(device.State) CaptureRequest { return IgnoreRequest() }

// BeginCapture implements Behavior.
func (h *MouseHover) BeginCapture(device.State, CaptureSide) CaptureUpdate { return IgnoreUpdate() }

// UpdateCapture implements Behavior.
func (h *MouseHover) UpdateCapture(device.State, CaptureData) CaptureUpdate { return EndUpdate() }

// ForceEndCapture implements Behavior.
func (h *MouseHover) ForceEndCapture(CaptureData) {}

// WantsHoverEvents implements HoverBehavior.
func (h *MouseHover) WantsHoverEvents() bool { return true }

// WantsHoverCapture implements HoverBehavior.
func (h *MouseHover) WantsHoverCapture(in device.State) CaptureRequest {
	hit := h.target.BeginHoverHitTest(in.Ray())
	if !hit.Hit {
		return IgnoreRequest()
	}
	return BeginRequest(h, CaptureSideFor(in), hit.Depth)
}

// BeginHoverCapture implements HoverBehavior.
func (h *MouseHover) BeginHoverCapture(in device.State, side CaptureSide) CaptureUpdate {
	h.updateModifiers(in)
	h.target.OnBeginHover(in.Ray())
	return BeginUpdate(side, nil)
}

// UpdateHoverCapture implements HoverBehavior.
func (h *MouseHover) UpdateHoverCapture(in device.State) CaptureUpdate {
	h.updateModifiers(in)
	if h.target.OnUpdateHover(in.Ray()) {
		return ContinueUpdate()
	}
	return EndUpdate()
}

// EndHoverCapture implements HoverBehavior.
func (h *MouseHover) EndHoverCapture() {
	h.target.OnEndHover()
}

func (h *MouseHover) updateModifiers(in device.State) {
	if mt, ok := h.target.(ModifierToggleTarget); ok {
		h.Modifiers.Update(in, mt)
	}
}
