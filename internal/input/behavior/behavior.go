// Package behavior defines the input behavior contract used by the input
// router, the ordered behavior set, and a handful of stock behaviors.
//
// A Behavior is a policy object. Given a device sample it may ask to capture
// the input stream of one side; once granted, it receives every sample on that
// side until it reports End or is forcibly terminated. Behaviors that also
// implement HoverBehavior take part in non-exclusive hover arbitration while
// their side is not captured.
//
// # Priorities
//
// Lower numeric priority wins. When several behaviors ask for the same sample
// the requests are stably sorted by (Priority, HitDepth); ties keep
// registration order. The router then offers capture to each request in that
// order and the first behavior that returns Begin holds the side.
package behavior

import (
	"fmt"

	"github.com/dshills/interact/internal/input/device"
)

// Priority orders capture requests. Lower values are tried first.
type Priority float64

// Standard priorities.
const (
	// DefaultGizmoPriority is used by gizmos, which should win over tools.
	DefaultGizmoPriority Priority = 50
	// DefaultToolPriority is used by tool behaviors.
	DefaultToolPriority Priority = 100
)

// Higher returns a priority that wins over p by d.
func (p Priority) Higher(d float64) Priority {
	return p - Priority(d)
}

// Lower returns a priority that loses to p by d.
func (p Priority) Lower(d float64) Priority {
	return p + Priority(d)
}

// CaptureSide identifies an independently arbitrated input channel.
type CaptureSide uint8

const (
	// CaptureNone is no side.
	CaptureNone CaptureSide = iota
	// CaptureLeft is the primary pointer (the desktop mouse).
	CaptureLeft
	// CaptureRight is the secondary pointer.
	CaptureRight
	// CaptureKeyboard is the keyboard.
	CaptureKeyboard
)

// String returns a string representation of the side.
func (s CaptureSide) String() string {
	switch s {
	case CaptureLeft:
		return "left"
	case CaptureRight:
		return "right"
	case CaptureKeyboard:
		return "keyboard"
	default:
		return "none"
	}
}

// CaptureSideFor returns the side a sample is arbitrated on.
// Samples from devices without a capture slot map to CaptureNone.
func CaptureSideFor(in device.State) CaptureSide {
	switch {
	case in.IsFromDevice(device.Mouse):
		if in.Side == device.SideRight {
			return CaptureRight
		}
		return CaptureLeft
	case in.IsFromDevice(device.Keyboard):
		return CaptureKeyboard
	default:
		return CaptureNone
	}
}

// CaptureState is the result state of a capture or hover callback.
type CaptureState uint8

const (
	// Begin accepts a capture (from BeginCapture/BeginHoverCapture).
	Begin CaptureState = iota
	// Continue keeps a capture alive (from UpdateCapture/UpdateHoverCapture).
	Continue
	// End finishes a capture.
	End
	// Ignore declines a capture.
	Ignore
)

// String returns a string representation of the state.
func (s CaptureState) String() string {
	switch s {
	case Begin:
		return "begin"
	case Continue:
		return "continue"
	case End:
		return "end"
	case Ignore:
		return "ignore"
	default:
		return fmt.Sprintf("CaptureState(%d)", s)
	}
}

// CaptureData is behavior-private state threaded through one capture
// session. The router stores and forwards it without inspecting it.
type CaptureData any

// RequestType says whether a behavior wants a sample.
type RequestType uint8

const (
	// RequestIgnore means the behavior has no interest.
	RequestIgnore RequestType = iota
	// RequestBegin means the behavior would like to begin a capture.
	RequestBegin
)

// CaptureRequest is a behavior's answer to WantsCapture or WantsHoverCapture.
type CaptureRequest struct {
	Type     RequestType
	Behavior Behavior

	// Side is the side the behavior asks for. CaptureNone accepts the
	// sample's side; any other side that differs declines the sample.
	Side     CaptureSide
	Priority Priority

	// HitDepth breaks priority ties in favor of nearer hits.
	HitDepth float64

	// Owner is the source the behavior was registered under.
	// It is filled in by Set when requests are collected.
	Owner SourceID
}

// IgnoreRequest returns a request that declines the sample.
func IgnoreRequest() CaptureRequest {
	return CaptureRequest{Type: RequestIgnore}
}

// BeginRequest returns a request to capture side at b's priority.
func BeginRequest(b Behavior, side CaptureSide, hitDepth float64) CaptureRequest {
	return CaptureRequest{
		Type:     RequestBegin,
		Behavior: b,
		Side:     side,
		Priority: b.Priority(),
		HitDepth: hitDepth,
	}
}

// Wants returns true if the request asks for capture.
func (r CaptureRequest) Wants() bool {
	return r.Type == RequestBegin
}

func (r CaptureRequest) onSide(side CaptureSide) bool {
	return r.Side == CaptureNone || r.Side == side
}

// Less reports whether r should be offered capture before other.
func (r CaptureRequest) Less(other CaptureRequest) bool {
	if r.Priority != other.Priority {
		return r.Priority < other.Priority
	}
	return r.HitDepth < other.HitDepth
}

// CaptureUpdate is the result of a capture callback.
type CaptureUpdate struct {
	State CaptureState
	Side  CaptureSide
	Data  CaptureData
}

// BeginUpdate accepts a capture on side with the given session data.
func BeginUpdate(side CaptureSide, data CaptureData) CaptureUpdate {
	return CaptureUpdate{State: Begin, Side: side, Data: data}
}

// ContinueUpdate keeps the current capture.
func ContinueUpdate() CaptureUpdate {
	return CaptureUpdate{State: Continue}
}

// EndUpdate ends the current capture.
func EndUpdate() CaptureUpdate {
	return CaptureUpdate{State: End}
}

// IgnoreUpdate declines a capture offer.
func IgnoreUpdate() CaptureUpdate {
	return CaptureUpdate{State: Ignore}
}

// Behavior is the capture contract every input behavior implements.
//
// Implementations must be pointer types: the router compares behaviors by
// identity. Callbacks run on the router's goroutine and must not post input
// back into the router.
type Behavior interface {
	// SupportedDevices returns the devices whose samples the behavior sees.
	SupportedDevices() device.Devices

	// Priority returns the behavior's capture priority.
	Priority() Priority

	// WantsCapture is asked for every sample while the side is idle.
	WantsCapture(in device.State) CaptureRequest

	// BeginCapture offers the capture. Returning Begin takes the side.
	BeginCapture(in device.State, side CaptureSide) CaptureUpdate

	// UpdateCapture receives every sample while the behavior holds the side.
	// It must return Continue or End.
	UpdateCapture(in device.State, data CaptureData) CaptureUpdate

	// ForceEndCapture terminates the capture from outside.
	ForceEndCapture(data CaptureData)
}

// HoverBehavior is implemented by behaviors that track hover.
type HoverBehavior interface {
	Behavior

	// WantsHoverEvents returns true if the behavior participates in hover.
	WantsHoverEvents() bool

	// WantsHoverCapture is asked for every hover sample.
	WantsHoverCapture(in device.State) CaptureRequest

	// BeginHoverCapture starts a hover sequence.
	BeginHoverCapture(in device.State, side CaptureSide) CaptureUpdate

	// UpdateHoverCapture continues a hover sequence; End stops it.
	UpdateHoverCapture(in device.State) CaptureUpdate

	// EndHoverCapture ends a hover sequence.
	EndHoverCapture()
}

// Base holds the priority and device filter shared by stock behaviors.
// Embed it and override what differs.
type Base struct {
	priority    Priority
	prioritySet bool
	devices     device.Devices
}

// NewBase returns a Base for the given devices at the default tool priority.
func NewBase(devices device.Devices) Base {
	return Base{priority: DefaultToolPriority, prioritySet: true, devices: devices}
}

// SetDefaultPriority sets the behavior's capture priority.
func (b *Base) SetDefaultPriority(p Priority) {
	b.priority = p
	b.prioritySet = true
}

// Priority implements Behavior.
func (b *Base) Priority() Priority {
	if !b.prioritySet {
		return DefaultToolPriority
	}
	return b.priority
}

// SupportedDevices implements Behavior. A zero Base supports the mouse.
func (b *Base) SupportedDevices() device.Devices {
	if b.devices == device.None {
		return device.Mouse
	}
	return b.devices
}
