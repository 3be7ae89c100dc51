package behavior

import (
	"slices"

	"github.com/dshills/interact/internal/input/device"
)

// Entry is one registered behavior.
type Entry struct {
	Behavior Behavior
	Owner    SourceID
	Group    string

	// Side binds the entry to one pointer side. Mouse samples from the
	// other pointer side skip it; keyboard samples always reach it.
	// CaptureNone leaves it unbound.
	Side CaptureSide
}

// accepts reports whether a sample arbitrated on side may reach e.
func (e Entry) accepts(side CaptureSide) bool {
	if e.Side != CaptureLeft && e.Side != CaptureRight {
		return true
	}
	return side == CaptureKeyboard || side == e.Side
}

// Set is an ordered collection of behaviors. Registration order is
// preserved and decides capture ties.
//
// Set is not safe for concurrent use.
type Set struct {
	entries []Entry
}

// NewSet creates an empty set.
func NewSet() *Set {
	return &Set{}
}

// Add appends a behavior owned by owner. Group is a free-form label used
// for bulk removal.
func (s *Set) Add(b Behavior, owner SourceID, group string) {
	s.entries = append(s.entries, Entry{Behavior: b, Owner: owner, Group: group})
}

// AddSet appends every behavior of other under owner, keeping groups.
func (s *Set) AddSet(other *Set, owner SourceID) {
	s.AddSetOn(other, owner, CaptureNone)
}

// AddSetOn is AddSet with every entry bound to the pointer side side.
func (s *Set) AddSetOn(other *Set, owner SourceID, side CaptureSide) {
	if other == nil {
		return
	}
	for _, e := range other.entries {
		s.entries = append(s.entries, Entry{Behavior: e.Behavior, Owner: owner, Group: e.Group, Side: side})
	}
}

// Remove removes the first entry holding b. It returns false if b was not
// registered.
func (s *Set) Remove(b Behavior) bool {
	for i, e := range s.entries {
		if e.Behavior == b {
			s.entries = slices.Delete(s.entries, i, i+1)
			return true
		}
	}
	return false
}

// RemoveByOwner removes every entry registered under owner and returns how
// many were removed.
func (s *Set) RemoveByOwner(owner SourceID) int {
	n := len(s.entries)
	s.entries = slices.DeleteFunc(s.entries, func(e Entry) bool { return e.Owner == owner })
	return n - len(s.entries)
}

// RemoveByGroup removes every entry in group and returns how many were
// removed.
func (s *Set) RemoveByGroup(group string) int {
	n := len(s.entries)
	s.entries = slices.DeleteFunc(s.entries, func(e Entry) bool { return e.Group == group })
	return n - len(s.entries)
}

// RemoveAll clears the set.
func (s *Set) RemoveAll() {
	s.entries = nil
}

// Len returns the number of entries.
func (s *Set) Len() int {
	return len(s.entries)
}

// IsEmpty returns true if the set has no entries.
func (s *Set) IsEmpty() bool {
	return len(s.entries) == 0
}

// Contains returns true if b is registered.
func (s *Set) Contains(b Behavior) bool {
	return slices.ContainsFunc(s.entries, func(e Entry) bool { return e.Behavior == b })
}

// HasOwner returns true if any entry is registered under owner.
func (s *Set) HasOwner(owner SourceID) bool {
	return slices.ContainsFunc(s.entries, func(e Entry) bool { return e.Owner == owner })
}

// Entries returns a copy of the entries in registration order.
func (s *Set) Entries() []Entry {
	return slices.Clone(s.entries)
}

// CollectWantsCapture asks every behavior that supports the sample's device
// and is not bound to another pointer side whether it wants to capture, and
// returns the interested requests in registration order. A request naming a
// side other than the sample's is dropped.
func (s *Set) CollectWantsCapture(in device.State) []CaptureRequest {
	side := CaptureSideFor(in)
	var out []CaptureRequest
	for _, e := range s.entries {
		if !e.accepts(side) || !e.Behavior.SupportedDevices().Has(in.Device) {
			continue
		}
		req := e.Behavior.WantsCapture(in)
		if !req.Wants() || !req.onSide(side) {
			continue
		}
		out = append(out, complete(req, e))
	}
	return out
}

// CollectWantsHoverCapture is CollectWantsCapture for hover-capable
// behaviors.
func (s *Set) CollectWantsHoverCapture(in device.State) []CaptureRequest {
	side := CaptureSideFor(in)
	var out []CaptureRequest
	for _, e := range s.entries {
		if !e.accepts(side) {
			continue
		}
		hb, ok := e.Behavior.(HoverBehavior)
		if !ok || !hb.WantsHoverEvents() || !hb.SupportedDevices().Has(in.Device) {
			continue
		}
		req := hb.WantsHoverCapture(in)
		if !req.Wants() || !req.onSide(side) {
			continue
		}
		out = append(out, complete(req, e))
	}
	return out
}

func complete(req CaptureRequest, e Entry) CaptureRequest {
	if req.Behavior == nil {
		req.Behavior = e.Behavior
	}
	req.Owner = e.Owner
	return req
}

// SortRequests orders requests by (Priority, HitDepth), keeping the input
// order for ties.
func SortRequests(reqs []CaptureRequest) {
	slices.SortStableFunc(reqs, func(a, b CaptureRequest) int {
		switch {
		case a.Less(b):
			return -1
		case b.Less(a):
			return 1
		default:
			return 0
		}
	})
}
