// Package router decides which input behavior owns each input event.
//
// A Router keeps one capture slot per side (left pointer, right pointer,
// keyboard) and one hover slot per pointer side. While a side is idle,
// every registered behavior that supports the event's device is asked
// whether it wants to capture; the requests are ordered by priority (lower
// wins) and then hit depth, ties keeping registration order, and the first
// behavior to accept BeginCapture takes the side. A captured side forwards
// every event to its owner until the owner ends the capture or it is
// terminated from outside.
//
// The Router is not safe for concurrent use. All calls must be made from the
// goroutine that drives input, and behavior callbacks must not post input
// back into the router.
package router

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/dshills/interact/internal/ctxapi"
	"github.com/dshills/interact/internal/input/behavior"
	"github.com/dshills/interact/internal/input/device"
)

// sides indexes the capture and hover slot arrays.
const sides = int(behavior.CaptureKeyboard) + 1

type captureSlot struct {
	behavior behavior.Behavior
	owner    behavior.SourceID
	data     behavior.CaptureData
	seq      uint64
}

func (s *captureSlot) active() bool {
	return s.behavior != nil
}

type hoverSlot struct {
	behavior behavior.HoverBehavior
	owner    behavior.SourceID
}

func (s *hoverSlot) active() bool {
	return s.behavior != nil
}

// Router is the capture and hover state machine.
type Router struct {
	transactions ctxapi.TransactionsAPI
	logger       *zap.Logger
	metrics      *Metrics

	autoInvalidateOnHover   bool
	autoInvalidateOnCapture bool
	anomalyPolicy           AnomalyPolicy

	behaviors *behavior.Set
	sources   map[behavior.SourceID]behavior.Source
	retired   map[behavior.SourceID]struct{}

	captures [sides]captureSlot
	hovers   [sides]hoverSlot
	seq      uint64

	dispatching bool

	lastMouse    device.State
	hasLastMouse bool
}

// New creates a router that reports diagnostics and invalidations through
// transactions. A nil transactions discards them.
func New(transactions ctxapi.TransactionsAPI, opts ...Option) *Router {
	if transactions == nil {
		transactions = ctxapi.NopTransactions{}
	}
	r := &Router{
		transactions: transactions,
		logger:       zap.NewNop(),
		behaviors:    behavior.NewSet(),
		sources:      make(map[behavior.SourceID]behavior.Source),
		retired:      make(map[behavior.SourceID]struct{}),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.metrics == nil {
		r.metrics = NewMetrics()
	}
	return r
}

// Metrics returns the router's metrics tracker.
func (r *Router) Metrics() *Metrics {
	return r.metrics
}

// AnomalyPolicy returns the configured anomaly policy.
func (r *Router) AnomalyPolicy() AnomalyPolicy {
	return r.anomalyPolicy
}

// RegisterSource registers every behavior in src.InputBehaviors() under a
// freshly minted handle and returns it. Behaviors added to the source's set
// afterwards are not seen.
func (r *Router) RegisterSource(src behavior.Source) behavior.SourceID {
	return r.RegisterSourceOn(src, behavior.CaptureNone)
}

// RegisterSourceOn is RegisterSource with the source bound to one pointer
// side: its behaviors never see mouse samples from the other pointer side.
// Keyboard samples reach them either way. CaptureNone or CaptureKeyboard
// leaves the source unbound.
func (r *Router) RegisterSourceOn(src behavior.Source, side behavior.CaptureSide) behavior.SourceID {
	id := behavior.NewSourceID()
	r.sources[id] = src
	if src != nil {
		r.behaviors.AddSetOn(src.InputBehaviors(), id, side)
	}
	r.logger.Debug("source registered",
		zap.Stringer("source", id),
		zap.Stringer("side", side),
		zap.Int("behaviors", r.behaviors.Len()))
	return id
}

// RegisterBehavior registers a single behavior under owner. A nil owner
// mints a new handle. The handle is returned either way.
func (r *Router) RegisterBehavior(b behavior.Behavior, owner behavior.SourceID) behavior.SourceID {
	if owner.IsNil() {
		owner = behavior.NewSourceID()
	}
	if _, ok := r.sources[owner]; !ok {
		r.sources[owner] = nil
	}
	r.behaviors.Add(b, owner, "")
	return owner
}

// DeregisterSource removes every behavior registered under id and ends any
// hover it owns.
//
// An active capture owned by id is left running: the handle is retired and
// stays valid for ForceTerminateSource until the capture ends, at which
// point it is released.
func (r *Router) DeregisterSource(id behavior.SourceID) {
	if id.IsNil() {
		return
	}
	removed := r.behaviors.RemoveByOwner(id)
	delete(r.sources, id)

	hoverChanged := false
	for side := range r.hovers {
		if r.hovers[side].active() && r.hovers[side].owner == id {
			r.endHover(behavior.CaptureSide(side))
			hoverChanged = true
		}
	}
	if hoverChanged && r.autoInvalidateOnHover {
		r.transactions.PostInvalidation()
	}

	if r.ownsCapture(id) {
		r.retired[id] = struct{}{}
		r.logger.Debug("source retired with live capture",
			zap.Stringer("source", id),
			zap.Int("removed", removed))
		return
	}
	r.logger.Debug("source deregistered",
		zap.Stringer("source", id),
		zap.Int("removed", removed))
}

// IsRegistered returns true if id is a live registration.
func (r *Router) IsRegistered(id behavior.SourceID) bool {
	_, ok := r.sources[id]
	return ok
}

// IsRetired returns true if id was deregistered while one of its behaviors
// still held a capture.
func (r *Router) IsRetired(id behavior.SourceID) bool {
	_, ok := r.retired[id]
	return ok
}

// BehaviorCount returns the number of registered behaviors.
func (r *Router) BehaviorCount() int {
	return r.behaviors.Len()
}

// PostInputEvent dispatches one input event.
//
// Mouse events go to the slot selected by in.Side and keyboard events to the
// keyboard slot. Events from other devices are reported as an internal
// diagnostic and dropped. When the event's pointer side is idle after
// capture handling, it is also run through hover arbitration.
func (r *Router) PostInputEvent(in device.State) {
	if !r.enter("PostInputEvent") {
		return
	}
	defer r.leave()

	side := behavior.CaptureSideFor(in)
	if side == behavior.CaptureNone {
		r.metrics.RecordDroppedEvent()
		r.diagnostic(fmt.Sprintf("unsupported input device %s; event dropped", in.Device))
		return
	}
	r.metrics.RecordEvent()
	if in.IsFromDevice(device.Mouse) {
		r.lastMouse = in
		r.hasLastMouse = true
	}

	if r.captures[side].active() {
		r.handleCapturedInput(side, in)
	} else {
		r.checkForCaptures(side, in)
	}

	if side != behavior.CaptureKeyboard && !r.captures[side].active() {
		if r.updateHover(side, in) && r.autoInvalidateOnHover {
			r.transactions.PostInvalidation()
		}
	}
}

// PostHoverInputEvent runs hover arbitration for a pointer sample without
// touching capture. It returns true if the hover owner changed.
//
// A side with an active capture never receives hover queries; the sample is
// ignored and false returned.
func (r *Router) PostHoverInputEvent(in device.State) bool {
	if !r.enter("PostHoverInputEvent") {
		return false
	}
	defer r.leave()

	if !in.IsFromDevice(device.Mouse) {
		r.metrics.RecordDroppedEvent()
		r.diagnostic(fmt.Sprintf("hover from unsupported input device %s; event dropped", in.Device))
		return false
	}
	r.metrics.RecordHoverEvent()
	r.lastMouse = in
	r.hasLastMouse = true

	side := behavior.CaptureSideFor(in)
	if r.captures[side].active() {
		return false
	}
	changed := r.updateHover(side, in)
	if changed && r.autoInvalidateOnHover {
		r.transactions.PostInvalidation()
	}
	return changed
}

// HasActiveMouseCapture returns true if either pointer side is captured.
func (r *Router) HasActiveMouseCapture() bool {
	return r.captures[behavior.CaptureLeft].active() || r.captures[behavior.CaptureRight].active()
}

// HasActiveKeyboardCapture returns true if the keyboard is captured.
func (r *Router) HasActiveKeyboardCapture() bool {
	return r.captures[behavior.CaptureKeyboard].active()
}

// HasActiveCapture returns true if side is captured.
func (r *Router) HasActiveCapture(side behavior.CaptureSide) bool {
	if !validSide(side) {
		return false
	}
	return r.captures[side].active()
}

// ActiveCaptureOwner returns the owner of side's capture.
func (r *Router) ActiveCaptureOwner(side behavior.CaptureSide) (behavior.SourceID, bool) {
	if !validSide(side) || !r.captures[side].active() {
		return behavior.NilSource, false
	}
	return r.captures[side].owner, true
}

// ActiveCapture returns the behavior holding side, or nil.
func (r *Router) ActiveCapture(side behavior.CaptureSide) behavior.Behavior {
	if !validSide(side) {
		return nil
	}
	return r.captures[side].behavior
}

// ActiveHover returns the behavior hovering on side, or nil.
func (r *Router) ActiveHover(side behavior.CaptureSide) behavior.HoverBehavior {
	if !validSide(side) {
		return nil
	}
	return r.hovers[side].behavior
}

// LastMouseInput returns the most recent mouse sample seen by the router.
func (r *Router) LastMouseInput() (device.State, bool) {
	return r.lastMouse, r.hasLastMouse
}

// ForceTerminateSource ends every capture and hover owned by id. Each
// captured behavior's ForceEndCapture has returned before this does.
func (r *Router) ForceTerminateSource(id behavior.SourceID) {
	if id.IsNil() {
		return
	}
	hoverChanged := false
	for side := range r.hovers {
		if r.hovers[side].active() && r.hovers[side].owner == id {
			r.endHover(behavior.CaptureSide(side))
			hoverChanged = true
		}
	}
	for side := range r.captures {
		if r.captures[side].active() && r.captures[side].owner == id {
			r.forceEndCapture(behavior.CaptureSide(side))
		}
	}
	if hoverChanged && r.autoInvalidateOnHover {
		r.transactions.PostInvalidation()
	}
}

// ForceTerminateAll ends every capture and every hover.
func (r *Router) ForceTerminateAll() {
	hoverChanged := false
	for side := range r.hovers {
		if r.hovers[side].active() {
			r.endHover(behavior.CaptureSide(side))
			hoverChanged = true
		}
	}
	for side := range r.captures {
		if r.captures[side].active() {
			r.forceEndCapture(behavior.CaptureSide(side))
		}
	}
	if hoverChanged && r.autoInvalidateOnHover {
		r.transactions.PostInvalidation()
	}
}

// checkForCaptures runs arbitration on an idle side.
func (r *Router) checkForCaptures(side behavior.CaptureSide, in device.State) {
	if r.behaviors.IsEmpty() {
		return
	}
	reqs := r.behaviors.CollectWantsCapture(in)
	if len(reqs) == 0 {
		return
	}
	behavior.SortRequests(reqs)

	for _, req := range reqs {
		// A callback earlier in this loop may have deregistered the source.
		if !r.behaviors.Contains(req.Behavior) {
			continue
		}
		upd := req.Behavior.BeginCapture(in, side)
		if upd.State != behavior.Begin {
			continue
		}

		if r.hovers[side].active() {
			r.endHover(side)
			if r.autoInvalidateOnHover {
				r.transactions.PostInvalidation()
			}
		}
		r.seq++
		r.captures[side] = captureSlot{
			behavior: req.Behavior,
			owner:    req.Owner,
			data:     upd.Data,
			seq:      r.seq,
		}
		r.metrics.RecordCaptureBegun()
		r.logger.Debug("capture begun",
			zap.Stringer("side", side),
			zap.Stringer("owner", req.Owner),
			zap.Float64("priority", float64(req.Priority)))
		if r.autoInvalidateOnCapture {
			r.transactions.PostInvalidation()
		}
		return
	}
}

// handleCapturedInput forwards an event to the side's owner.
func (r *Router) handleCapturedInput(side behavior.CaptureSide, in device.State) {
	slot := r.captures[side]
	upd := slot.behavior.UpdateCapture(in, slot.data)

	// The callback may have terminated this capture through the manager.
	if r.captures[side].seq != slot.seq {
		return
	}

	switch upd.State {
	case behavior.Continue:
	case behavior.End:
		r.clearCapture(side)
		r.metrics.RecordCaptureEnded()
		r.logger.Debug("capture ended",
			zap.Stringer("side", side),
			zap.Stringer("owner", slot.owner))
	default:
		r.metrics.RecordAnomaly()
		r.diagnostic(fmt.Sprintf("behavior returned %s from UpdateCapture on %s side", upd.State, side))
		if r.anomalyPolicy == AnomalyForceEnd {
			r.forceEndCapture(side)
		}
	}
	if r.autoInvalidateOnCapture {
		r.transactions.PostInvalidation()
	}
}

// updateHover runs hover arbitration for side and reports whether the
// hover owner changed.
func (r *Router) updateHover(side behavior.CaptureSide, in device.State) bool {
	reqs := r.behaviors.CollectWantsHoverCapture(in)
	behavior.SortRequests(reqs)

	changed := false
	if cur := r.hovers[side]; cur.active() {
		if len(reqs) > 0 && reqs[0].Behavior == behavior.Behavior(cur.behavior) {
			if cur.behavior.UpdateHoverCapture(in).State == behavior.End && r.hovers[side].behavior == cur.behavior {
				r.endHover(side)
				return true
			}
			return false
		}
		r.endHover(side)
		changed = true
	}

	for _, req := range reqs {
		hb, ok := req.Behavior.(behavior.HoverBehavior)
		if !ok || !r.behaviors.Contains(req.Behavior) {
			continue
		}
		if hb.BeginHoverCapture(in, side).State != behavior.Begin {
			continue
		}
		r.hovers[side] = hoverSlot{behavior: hb, owner: req.Owner}
		r.metrics.RecordHoverChange()
		return true
	}
	return changed
}

// endHover clears side's hover slot and then notifies the behavior.
func (r *Router) endHover(side behavior.CaptureSide) {
	cur := r.hovers[side]
	r.hovers[side] = hoverSlot{}
	r.metrics.RecordHoverChange()
	cur.behavior.EndHoverCapture()
}

// forceEndCapture clears side's capture slot and then calls ForceEndCapture.
// Clearing first keeps a nested termination from ending it twice.
func (r *Router) forceEndCapture(side behavior.CaptureSide) {
	slot := r.captures[side]
	r.clearCapture(side)
	r.metrics.RecordCaptureForced()
	r.logger.Debug("capture force-ended",
		zap.Stringer("side", side),
		zap.Stringer("owner", slot.owner))
	slot.behavior.ForceEndCapture(slot.data)
}

func (r *Router) clearCapture(side behavior.CaptureSide) {
	owner := r.captures[side].owner
	r.captures[side] = captureSlot{}
	if _, ok := r.retired[owner]; ok && !r.ownsCapture(owner) {
		delete(r.retired, owner)
		r.logger.Debug("retired source released", zap.Stringer("source", owner))
	}
}

func (r *Router) ownsCapture(id behavior.SourceID) bool {
	for side := range r.captures {
		if r.captures[side].active() && r.captures[side].owner == id {
			return true
		}
	}
	return false
}

// enter marks the start of a dispatch. A nested dispatch is reported and
// refused.
func (r *Router) enter(op string) bool {
	if r.dispatching {
		r.metrics.RecordDroppedEvent()
		r.diagnostic(op + " called from inside a behavior callback; event dropped")
		return false
	}
	r.dispatching = true
	return true
}

func (r *Router) leave() {
	r.dispatching = false
}

// diagnostic reports an internal problem to the log and to the host.
func (r *Router) diagnostic(msg string) {
	r.logger.Warn(msg)
	r.transactions.DisplayMessage(msg, ctxapi.Internal)
}

func validSide(side behavior.CaptureSide) bool {
	return side > behavior.CaptureNone && int(side) < sides
}
