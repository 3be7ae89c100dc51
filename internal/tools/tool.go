// Package tools defines interactive tools and the manager that runs them.
//
// A Tool is built on demand by a registered Builder, lives while it is the
// active tool on its side, and registers its input behaviors with the
// router for that time. The Manager owns the lifecycle: it selects a
// builder, builds and sets up the tool, and shuts it down again, firing
// OnToolStarted and OnToolEnded around it.
package tools

import (
	"fmt"
	"time"

	"github.com/dshills/interact/internal/ctxapi"
	"github.com/dshills/interact/internal/input/behavior"
)

// Side is a tool slot. The left side is driven by the desktop mouse.
type Side uint8

const (
	// SideLeft is the primary tool slot.
	SideLeft Side = iota
	// SideRight is the secondary tool slot.
	SideRight

	sideCount
)

// Sides lists every tool side in order.
var Sides = [...]Side{SideLeft, SideRight}

// String returns a string representation of the side.
func (s Side) String() string {
	switch s {
	case SideLeft:
		return "left"
	case SideRight:
		return "right"
	default:
		return fmt.Sprintf("Side(%d)", s)
	}
}

// CaptureSide returns the pointer side whose input the tool receives.
func (s Side) CaptureSide() behavior.CaptureSide {
	if s == SideRight {
		return behavior.CaptureRight
	}
	return behavior.CaptureLeft
}

func (s Side) valid() bool {
	return s < sideCount
}

// ShutdownType says why a tool is shutting down.
type ShutdownType uint8

const (
	// Completed is a tool finishing on its own, with nothing to commit or
	// roll back.
	Completed ShutdownType = iota
	// Accept commits the tool's pending work.
	Accept
	// Cancel discards the tool's pending work.
	Cancel
)

// String returns a string representation of the shutdown type.
func (t ShutdownType) String() string {
	switch t {
	case Completed:
		return "completed"
	case Accept:
		return "accept"
	case Cancel:
		return "cancel"
	default:
		return fmt.Sprintf("ShutdownType(%d)", t)
	}
}

// ParseShutdownType parses "completed", "accept" or "cancel".
func ParseShutdownType(s string) (ShutdownType, error) {
	switch s {
	case "completed":
		return Completed, nil
	case "accept":
		return Accept, nil
	case "cancel":
		return Cancel, nil
	default:
		return Completed, fmt.Errorf("unknown shutdown type %q", s)
	}
}

// Tool is a unit of interactive functionality.
//
// The manager calls Setup exactly once before any Tick or Render, and
// Shutdown exactly once, after which the tool is discarded. The behaviors
// returned by InputBehaviors after Setup are registered with the router
// for the tool's lifetime.
type Tool interface {
	// Setup prepares the tool. Behaviors and property sets are added here.
	Setup()

	// Shutdown releases the tool. An undo transaction opened by the tool
	// must be closed before Shutdown returns.
	Shutdown(t ShutdownType)

	// Tick advances the tool by dt.
	Tick(dt time.Duration)

	// Render draws the tool's feedback.
	Render(api ctxapi.RenderAPI)

	// HasCancel returns true if the tool supports Cancel.
	HasCancel() bool

	// HasAccept returns true if the tool supports Accept.
	HasAccept() bool

	// CanAccept returns true if Accept is currently possible.
	CanAccept() bool

	// InputBehaviors returns the tool's behaviors.
	InputBehaviors() *behavior.Set

	// RegisterActions adds the tool's keybindable actions to set.
	RegisterActions(set *ActionSet)
}

// PropertySource is implemented by tools that expose property sets.
type PropertySource interface {
	PropertySets() []*PropertySet
}

// managerBinder is implemented by BaseTool so the manager can hand itself
// to tools that embed it.
type managerBinder interface {
	bindManager(m *Manager, side Side)
}

// BaseTool provides default behavior for tools. Embed it by value and
// override what the tool needs.
type BaseTool struct {
	manager    *Manager
	side       Side
	behaviors  *behavior.Set
	properties []*PropertySet
}

func (t *BaseTool) bindManager(m *Manager, side Side) {
	t.manager = m
	t.side = side
}

// Manager returns the manager running the tool. It is set before Setup.
func (t *BaseTool) Manager() *Manager {
	return t.manager
}

// ToolSide returns the side the tool runs on.
func (t *BaseTool) ToolSide() Side {
	return t.side
}

// AddInputBehavior adds b to the tool's behavior set.
func (t *BaseTool) AddInputBehavior(b behavior.Behavior) {
	t.InputBehaviors().Add(b, behavior.NilSource, "")
}

// InputBehaviors implements Tool.
func (t *BaseTool) InputBehaviors() *behavior.Set {
	if t.behaviors == nil {
		t.behaviors = behavior.NewSet()
	}
	return t.behaviors
}

// AddPropertySet registers ps with the tool.
func (t *BaseTool) AddPropertySet(ps *PropertySet) {
	if ps == nil {
		return
	}
	for _, p := range t.properties {
		if p == ps {
			return
		}
	}
	t.properties = append(t.properties, ps)
}

// RemovePropertySet unregisters ps. It returns false if ps was not added.
func (t *BaseTool) RemovePropertySet(ps *PropertySet) bool {
	for i, p := range t.properties {
		if p == ps {
			t.properties = append(t.properties[:i], t.properties[i+1:]...)
			return true
		}
	}
	return false
}

// SetPropertySetEnabled shows or hides ps. It returns false if ps was not
// added.
func (t *BaseTool) SetPropertySetEnabled(ps *PropertySet, enabled bool) bool {
	for _, p := range t.properties {
		if p == ps {
			p.SetEnabled(enabled)
			return true
		}
	}
	return false
}

// PropertySets implements PropertySource.
func (t *BaseTool) PropertySets() []*PropertySet {
	out := make([]*PropertySet, len(t.properties))
	copy(out, t.properties)
	return out
}

// Setup implements Tool.
func (t *BaseTool) Setup() {}

// Shutdown implements Tool.
func (t *BaseTool) Shutdown(ShutdownType) {}

// Tick implements Tool.
func (t *BaseTool) Tick(time.Duration) {}

// Render implements Tool.
func (t *BaseTool) Render(ctxapi.RenderAPI) {}

// HasCancel implements Tool.
func (t *BaseTool) HasCancel() bool { return false }

// HasAccept implements Tool.
func (t *BaseTool) HasAccept() bool { return false }

// CanAccept implements Tool.
func (t *BaseTool) CanAccept() bool { return false }

// RegisterActions implements Tool.
func (t *BaseTool) RegisterActions(*ActionSet) {}
