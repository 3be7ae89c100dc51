package router

import (
	"strings"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/interact/internal/ctxapi"
	"github.com/dshills/interact/internal/input/behavior"
	"github.com/dshills/interact/internal/input/device"
	"github.com/dshills/interact/internal/input/key"
)

// callLog is shared by fake behaviors so tests can check cross-behavior
// ordering.
type callLog struct {
	calls []string
}

func (l *callLog) add(s string) { l.calls = append(l.calls, s) }

func (l *callLog) count(s string) int {
	n := 0
	for _, c := range l.calls {
		if c == s {
			n++
		}
	}
	return n
}

// fakeBehavior is a scriptable behavior that wants every press.
type fakeBehavior struct {
	behavior.Base
	name string
	log  *callLog

	wants       bool
	accept      bool
	depth       float64
	updates     []behavior.CaptureState // consumed in order; End when empty
	onUpdate    func()
	onBegin     func()
	hover       bool
	hoverAccept bool
	hoverEnd    bool
}

func newFake(name string, p behavior.Priority, log *callLog) *fakeBehavior {
	f := &fakeBehavior{
		Base:        behavior.NewBase(device.Mouse | device.Keyboard),
		name:        name,
		log:         log,
		wants:       true,
		accept:      true,
		hoverAccept: true,
	}
	f.SetDefaultPriority(p)
	return f
}

func (f *fakeBehavior) WantsCapture(in device.State) behavior.CaptureRequest {
	if !f.wants || !(in.Mouse.Left.Pressed || in.Keyboard.Button.Pressed) {
		return behavior.IgnoreRequest()
	}
	return behavior.BeginRequest(f, behavior.CaptureSideFor(in), f.depth)
}

func (f *fakeBehavior) BeginCapture(in device.State, side behavior.CaptureSide) behavior.CaptureUpdate {
	f.log.add(f.name + ".begin")
	if f.onBegin != nil {
		f.onBegin()
	}
	if !f.accept {
		return behavior.IgnoreUpdate()
	}
	return behavior.BeginUpdate(side, f.name+"-data")
}

func (f *fakeBehavior) UpdateCapture(in device.State, data behavior.CaptureData) behavior.CaptureUpdate {
	f.log.add(f.name + ".update:" + data.(string))
	if f.onUpdate != nil {
		f.onUpdate()
	}
	if len(f.updates) == 0 {
		return behavior.EndUpdate()
	}
	st := f.updates[0]
	f.updates = f.updates[1:]
	return behavior.CaptureUpdate{State: st}
}

func (f *fakeBehavior) ForceEndCapture(data behavior.CaptureData) {
	f.log.add(f.name + ".force:" + data.(string))
}

func (f *fakeBehavior) WantsHoverEvents() bool { return f.hover }

func (f *fakeBehavior) WantsHoverCapture(in device.State) behavior.CaptureRequest {
	return behavior.BeginRequest(f, behavior.CaptureSideFor(in), f.depth)
}

func (f *fakeBehavior) BeginHoverCapture(in device.State, side behavior.CaptureSide) behavior.CaptureUpdate {
	f.log.add(f.name + ".hoverBegin")
	if !f.hoverAccept {
		return behavior.IgnoreUpdate()
	}
	return behavior.BeginUpdate(side, nil)
}

func (f *fakeBehavior) UpdateHoverCapture(in device.State) behavior.CaptureUpdate {
	f.log.add(f.name + ".hoverUpdate")
	if f.hoverEnd {
		return behavior.EndUpdate()
	}
	return behavior.ContinueUpdate()
}

func (f *fakeBehavior) EndHoverCapture() { f.log.add(f.name + ".hoverEnd") }

// fakeSource exposes a fixed behavior set.
type fakeSource struct {
	set *behavior.Set
}

func sourceOf(bs ...behavior.Behavior) *fakeSource {
	s := &fakeSource{set: behavior.NewSet()}
	for _, b := range bs {
		s.set.Add(b, behavior.NilSource, "")
	}
	return s
}

func (s *fakeSource) InputBehaviors() *behavior.Set { return s.set }

func mouse(x, y float64) device.State {
	st := device.State{Device: device.Mouse}
	st.Mouse.Position2D = mgl64.Vec2{x, y}
	st.Mouse.WorldRay = device.ScreenRay(st.Mouse.Position2D)
	return st
}

func press() device.State {
	st := mouse(1, 1)
	st.Mouse.Left = device.ButtonState{Pressed: true, Down: true}
	return st
}

func newRouter(opts ...Option) (*Router, *ctxapi.RecordingTransactions) {
	tx := &ctxapi.RecordingTransactions{}
	return New(tx, opts...), tx
}

func TestFirstAcceptorWins(t *testing.T) {
	log := &callLog{}
	r, _ := newRouter()

	a := newFake("A", 10, log)
	b := newFake("B", 5, log)
	b.accept = false
	r.RegisterSource(sourceOf(a, b))

	r.PostInputEvent(press())

	assert.Equal(t, []string{"B.begin", "A.begin"}, log.calls)
	assert.True(t, r.HasActiveMouseCapture())
	assert.Same(t, a, r.ActiveCapture(behavior.CaptureLeft))
}

func TestLowerPriorityPreferred(t *testing.T) {
	log := &callLog{}
	r, _ := newRouter()
	a := newFake("A", 10, log)
	b := newFake("B", 5, log)
	r.RegisterSource(sourceOf(a, b))

	r.PostInputEvent(press())
	assert.Equal(t, []string{"B.begin"}, log.calls)
	assert.Same(t, b, r.ActiveCapture(behavior.CaptureLeft))
}

func TestStableTieBreak(t *testing.T) {
	for run := 0; run < 20; run++ {
		log := &callLog{}
		r, _ := newRouter()
		first := newFake("first", 7, log)
		second := newFake("second", 7, log)
		r.RegisterSource(sourceOf(first))
		r.RegisterSource(sourceOf(second))

		r.PostInputEvent(press())
		require.Same(t, first, r.ActiveCapture(behavior.CaptureLeft), "run %d", run)
	}
}

func TestAtMostOneCapture(t *testing.T) {
	log := &callLog{}
	r, _ := newRouter()
	a := newFake("A", 1, log)
	a.updates = []behavior.CaptureState{behavior.Continue, behavior.Continue}
	b := newFake("B", 2, log)
	r.RegisterSource(sourceOf(a, b))

	r.PostInputEvent(press())
	r.PostInputEvent(press())
	r.PostInputEvent(press())

	assert.Equal(t, []string{"A.begin", "A.update:A-data", "A.update:A-data"}, log.calls)
	assert.Zero(t, log.count("B.begin"))

	// third update returns End; the next press arbitrates again
	r.PostInputEvent(press())
	assert.False(t, r.HasActiveMouseCapture())
	r.PostInputEvent(press())
	assert.Equal(t, "A.begin", log.calls[len(log.calls)-1])
}

func TestSidesAreIndependent(t *testing.T) {
	log := &callLog{}
	r, _ := newRouter()
	a := newFake("A", 1, log)
	a.updates = []behavior.CaptureState{behavior.Continue}
	r.RegisterSource(sourceOf(a))

	r.PostInputEvent(press())
	right := press()
	right.Side = device.SideRight
	r.PostInputEvent(right)

	assert.True(t, r.HasActiveCapture(behavior.CaptureLeft))
	assert.True(t, r.HasActiveCapture(behavior.CaptureRight))

	kb := device.KeyPress(key.KeyRune, 'a', key.ModNone, right.Time)
	r.PostInputEvent(kb)
	assert.True(t, r.HasActiveKeyboardCapture())
	assert.Equal(t, 3, log.count("A.begin"))
}

func TestCapturedDataIsPassedThrough(t *testing.T) {
	log := &callLog{}
	r, _ := newRouter()
	a := newFake("A", 1, log)
	a.updates = []behavior.CaptureState{behavior.Continue}
	r.RegisterSource(sourceOf(a))

	r.PostInputEvent(press())
	r.PostInputEvent(mouse(2, 2))
	r.ForceTerminateAll()

	assert.Equal(t, []string{"A.begin", "A.update:A-data", "A.force:A-data"}, log.calls)
}

func TestForceTerminateAll(t *testing.T) {
	log := &callLog{}
	r, tx := newRouter()
	a := newFake("A", 1, log)
	a.updates = []behavior.CaptureState{behavior.Continue, behavior.Continue}
	h := newFake("H", 5, log)
	h.wants = false
	h.hover = true
	r.RegisterSource(sourceOf(a, h))

	right := mouse(3, 3)
	right.Side = device.SideRight
	r.PostHoverInputEvent(right)
	r.PostInputEvent(press())
	r.PostInputEvent(device.KeyPress(key.KeyEscape, 0, key.ModNone, right.Time))
	require.True(t, r.HasActiveMouseCapture())
	require.True(t, r.HasActiveKeyboardCapture())
	require.NotNil(t, r.ActiveHover(behavior.CaptureRight))

	r.ForceTerminateAll()

	assert.False(t, r.HasActiveMouseCapture())
	assert.False(t, r.HasActiveKeyboardCapture())
	assert.Nil(t, r.ActiveHover(behavior.CaptureRight))
	assert.Equal(t, 2, log.count("A.force:A-data"))
	assert.Equal(t, 1, log.count("H.hoverEnd"))

	r.ForceTerminateAll()
	assert.Equal(t, 2, log.count("A.force:A-data"))
	assert.Empty(t, tx.Messages)
	assert.Zero(t, r.Metrics().ActiveCaptures())
}

func TestForceTerminateSource(t *testing.T) {
	log := &callLog{}
	r, _ := newRouter()
	a := newFake("A", 1, log)
	a.updates = []behavior.CaptureState{behavior.Continue}
	b := newFake("B", 1, log)
	b.updates = []behavior.CaptureState{behavior.Continue}
	idA := r.RegisterSource(sourceOf(a))
	idB := r.RegisterSource(sourceOf(b))

	r.PostInputEvent(press())
	right := press()
	right.Side = device.SideRight
	b.log = log
	a.wants = false
	r.PostInputEvent(right)
	require.Same(t, b, r.ActiveCapture(behavior.CaptureRight))

	r.ForceTerminateSource(idB)
	assert.True(t, r.HasActiveCapture(behavior.CaptureLeft))
	assert.False(t, r.HasActiveCapture(behavior.CaptureRight))
	assert.Equal(t, 1, log.count("B.force:B-data"))

	r.ForceTerminateSource(idB)
	assert.Equal(t, 1, log.count("B.force:B-data"))

	owner, ok := r.ActiveCaptureOwner(behavior.CaptureLeft)
	require.True(t, ok)
	assert.Equal(t, idA, owner)
}

func TestUnsupportedDeviceDropped(t *testing.T) {
	log := &callLog{}
	r, tx := newRouter()
	r.RegisterSource(sourceOf(newFake("A", 1, log)))

	r.PostInputEvent(device.State{Device: device.Gamepad})

	assert.Empty(t, log.calls)
	require.Len(t, tx.Messages, 1)
	assert.Equal(t, ctxapi.Internal, tx.Messages[0].Level)
	assert.Contains(t, tx.Messages[0].Text, "unsupported input device")
	assert.Equal(t, uint64(1), r.Metrics().Snapshot().DroppedEvents)
}

func TestAnomalyForceEnd(t *testing.T) {
	log := &callLog{}
	r, tx := newRouter()
	assert.Equal(t, AnomalyForceEnd, r.AnomalyPolicy())
	a := newFake("A", 1, log)
	a.updates = []behavior.CaptureState{behavior.Begin}
	r.RegisterSource(sourceOf(a))

	r.PostInputEvent(press())
	r.PostInputEvent(mouse(2, 2))

	assert.False(t, r.HasActiveMouseCapture())
	assert.Equal(t, 1, log.count("A.force:A-data"))
	require.Len(t, tx.MessagesAt(ctxapi.Internal), 1)
	assert.True(t, strings.Contains(tx.Messages[0].Text, "begin"))
	snap := r.Metrics().Snapshot()
	assert.Equal(t, uint64(1), snap.Anomalies)
	assert.Equal(t, uint64(1), snap.CapturesForced)
}

func TestAnomalyPreserve(t *testing.T) {
	log := &callLog{}
	r, tx := newRouter(WithCaptureAnomalyPolicy(AnomalyPreserve))
	a := newFake("A", 1, log)
	a.updates = []behavior.CaptureState{behavior.Ignore, behavior.Continue}
	r.RegisterSource(sourceOf(a))

	r.PostInputEvent(press())
	r.PostInputEvent(mouse(2, 2))

	assert.True(t, r.HasActiveMouseCapture())
	assert.Zero(t, log.count("A.force:A-data"))
	assert.Len(t, tx.Messages, 1)

	r.PostInputEvent(mouse(3, 3))
	r.PostInputEvent(mouse(4, 4))
	assert.False(t, r.HasActiveMouseCapture())
	assert.Equal(t, 3, log.count("A.update:A-data"))
}

func TestReentrantPostDropped(t *testing.T) {
	log := &callLog{}
	r, tx := newRouter()
	a := newFake("A", 1, log)
	a.onBegin = func() {
		r.PostInputEvent(press())
		assert.False(t, r.PostHoverInputEvent(mouse(0, 0)))
	}
	r.RegisterSource(sourceOf(a))

	r.PostInputEvent(press())

	assert.Equal(t, 1, log.count("A.begin"))
	assert.True(t, r.HasActiveMouseCapture())
	require.Len(t, tx.Messages, 2)
	assert.Contains(t, tx.Messages[0].Text, "PostInputEvent called from inside a behavior callback")
	assert.Contains(t, tx.Messages[1].Text, "PostHoverInputEvent")
}

func TestTerminateFromInsideUpdate(t *testing.T) {
	log := &callLog{}
	r, _ := newRouter()
	a := newFake("A", 1, log)
	a.updates = []behavior.CaptureState{behavior.Ignore}
	id := r.RegisterSource(sourceOf(a))
	a.onUpdate = func() { r.ForceTerminateSource(id) }

	r.PostInputEvent(press())
	r.PostInputEvent(mouse(2, 2))

	assert.False(t, r.HasActiveMouseCapture())
	assert.Equal(t, 1, log.count("A.force:A-data"))
	assert.Zero(t, r.Metrics().Snapshot().Anomalies)
}

func TestTwoStepTeardown(t *testing.T) {
	log := &callLog{}
	r, _ := newRouter()
	a := newFake("A", 1, log)
	a.updates = []behavior.CaptureState{behavior.Continue, behavior.Continue}
	id := r.RegisterSource(sourceOf(a))

	r.PostInputEvent(press())
	r.DeregisterSource(id)

	assert.False(t, r.IsRegistered(id))
	assert.True(t, r.IsRetired(id))
	assert.Zero(t, r.BehaviorCount())
	assert.True(t, r.HasActiveMouseCapture(), "deregistration does not end the capture")

	r.PostInputEvent(mouse(2, 2))
	assert.Equal(t, 1, log.count("A.update:A-data"))

	r.ForceTerminateSource(id)
	assert.False(t, r.IsRetired(id))
	assert.False(t, r.HasActiveMouseCapture())
	assert.Equal(t, 1, log.count("A.force:A-data"))
}

func TestRetiredHandleReleasedOnEnd(t *testing.T) {
	log := &callLog{}
	r, _ := newRouter()
	a := newFake("A", 1, log)
	id := r.RegisterSource(sourceOf(a))

	r.PostInputEvent(press())
	r.DeregisterSource(id)
	require.True(t, r.IsRetired(id))

	r.PostInputEvent(mouse(2, 2))
	assert.False(t, r.IsRetired(id))
	assert.Zero(t, log.count("A.force:A-data"))
}

func TestDeregisterWithoutCapture(t *testing.T) {
	r, _ := newRouter()
	log := &callLog{}
	id := r.RegisterSource(sourceOf(newFake("A", 1, log), newFake("B", 1, log)))
	assert.Equal(t, 2, r.BehaviorCount())

	r.DeregisterSource(id)
	assert.False(t, r.IsRetired(id))
	assert.Zero(t, r.BehaviorCount())

	r.PostInputEvent(press())
	assert.Empty(t, log.calls)
}

func TestRegisterBehaviorMintsHandle(t *testing.T) {
	r, _ := newRouter()
	log := &callLog{}
	id := r.RegisterBehavior(newFake("A", 1, log), behavior.NilSource)
	assert.False(t, id.IsNil())
	assert.True(t, r.IsRegistered(id))

	same := r.RegisterBehavior(newFake("B", 1, log), id)
	assert.Equal(t, id, same)
	assert.Equal(t, 2, r.BehaviorCount())
}

func TestHoverArbitration(t *testing.T) {
	log := &callLog{}
	r, tx := newRouter(WithAutoInvalidateOnHover(true))
	near := newFake("near", 10, log)
	near.hover = true
	near.wants = false
	near.depth = 1
	far := newFake("far", 10, log)
	far.hover = true
	far.wants = false
	far.depth = 4
	r.RegisterSource(sourceOf(far, near))

	assert.True(t, r.PostHoverInputEvent(mouse(1, 1)))
	assert.Same(t, near, r.ActiveHover(behavior.CaptureLeft))
	assert.Equal(t, 1, tx.Invalidations)

	assert.False(t, r.PostHoverInputEvent(mouse(2, 1)))
	assert.Equal(t, 1, log.count("near.hoverUpdate"))

	// near moves behind far: the hover switches owners, ending the old one first
	near.depth = 9
	assert.True(t, r.PostHoverInputEvent(mouse(3, 1)))
	assert.Same(t, far, r.ActiveHover(behavior.CaptureLeft))
	endIdx := indexOf(log.calls, "near.hoverEnd")
	beginIdx := indexOf(log.calls, "far.hoverBegin")
	require.GreaterOrEqual(t, endIdx, 0)
	assert.Less(t, endIdx, beginIdx)

	far.hoverEnd = true
	assert.True(t, r.PostHoverInputEvent(mouse(4, 1)))
	assert.Nil(t, r.ActiveHover(behavior.CaptureLeft))
	assert.Equal(t, 1, log.count("far.hoverEnd"))
}

func TestCaptureEndsHoverAndSuppressesIt(t *testing.T) {
	log := &callLog{}
	r, _ := newRouter()
	h := newFake("H", 10, log)
	h.hover = true
	h.wants = false
	c := newFake("C", 1, log)
	c.updates = []behavior.CaptureState{behavior.Continue}
	r.RegisterSource(sourceOf(h, c))

	r.PostInputEvent(mouse(1, 1))
	require.Same(t, h, r.ActiveHover(behavior.CaptureLeft))

	r.PostInputEvent(press())
	require.True(t, r.HasActiveMouseCapture())
	assert.Nil(t, r.ActiveHover(behavior.CaptureLeft))
	assert.Equal(t, 1, log.count("H.hoverEnd"))

	mark := len(log.calls)
	r.PostInputEvent(mouse(2, 2))
	assert.False(t, r.PostHoverInputEvent(mouse(2, 2)))
	for _, call := range log.calls[mark:] {
		assert.False(t, strings.HasPrefix(call, "H.hover"), "hover queried during capture: %s", call)
	}

	// capture ends on this event; hover resumes on the same event
	r.PostInputEvent(mouse(3, 3))
	assert.False(t, r.HasActiveMouseCapture())
	assert.Same(t, h, r.ActiveHover(behavior.CaptureLeft))
}

func TestSourceBoundToPointerSide(t *testing.T) {
	log := &callLog{}
	r, _ := newRouter()
	rt := newFake("R", 1, log)
	rt.hover = true
	lt := newFake("L", 5, log)
	lt.hover = true
	rightID := r.RegisterSourceOn(sourceOf(rt), behavior.CaptureRight)
	leftID := r.RegisterSourceOn(sourceOf(lt), behavior.CaptureLeft)

	r.PostHoverInputEvent(mouse(1, 1))
	assert.Same(t, lt, r.ActiveHover(behavior.CaptureLeft), "right-bound hover never sees the left pointer")

	r.PostInputEvent(press())
	owner, ok := r.ActiveCaptureOwner(behavior.CaptureLeft)
	require.True(t, ok)
	assert.Equal(t, leftID, owner)
	assert.Zero(t, log.count("R.begin"))

	right := press()
	right.Side = device.SideRight
	r.PostInputEvent(right)
	owner, ok = r.ActiveCaptureOwner(behavior.CaptureRight)
	require.True(t, ok)
	assert.Equal(t, rightID, owner)

	r.ForceTerminateAll()
	r.PostInputEvent(device.KeyPress(key.KeyRune, 'k', key.ModNone, time.Time{}))
	owner, ok = r.ActiveCaptureOwner(behavior.CaptureKeyboard)
	require.True(t, ok)
	assert.Equal(t, rightID, owner, "the keyboard is shared by both sides")
}

// sideAsker asks for a fixed side whatever the sample.
type sideAsker struct {
	*fakeBehavior
	side behavior.CaptureSide
}

func (s *sideAsker) WantsCapture(device.State) behavior.CaptureRequest {
	return behavior.BeginRequest(s, s.side, 0)
}

func TestRequestForOtherSideIgnored(t *testing.T) {
	log := &callLog{}
	r, _ := newRouter()
	wrong := &sideAsker{fakeBehavior: newFake("wrong", 1, log), side: behavior.CaptureRight}
	r.RegisterSource(sourceOf(wrong, newFake("fallback", 5, log)))

	r.PostInputEvent(press())
	assert.Zero(t, log.count("wrong.begin"))
	assert.Equal(t, 1, log.count("fallback.begin"))
}

func TestHoverDeclinedBegin(t *testing.T) {
	log := &callLog{}
	r, _ := newRouter()
	first := newFake("first", 1, log)
	first.hover = true
	first.wants = false
	first.hoverAccept = false
	second := newFake("second", 2, log)
	second.hover = true
	second.wants = false
	r.RegisterSource(sourceOf(first, second))

	assert.True(t, r.PostHoverInputEvent(mouse(0, 0)))
	assert.Same(t, second, r.ActiveHover(behavior.CaptureLeft))
}

func TestHoverRejectsKeyboard(t *testing.T) {
	r, tx := newRouter()
	assert.False(t, r.PostHoverInputEvent(device.KeyPress(key.KeyRune, 'a', key.ModNone, mouse(0, 0).Time)))
	assert.Len(t, tx.MessagesAt(ctxapi.Internal), 1)
}

func TestDeregisterEndsHover(t *testing.T) {
	log := &callLog{}
	r, _ := newRouter()
	h := newFake("H", 10, log)
	h.hover = true
	h.wants = false
	id := r.RegisterSource(sourceOf(h))

	r.PostHoverInputEvent(mouse(0, 0))
	r.DeregisterSource(id)
	assert.Nil(t, r.ActiveHover(behavior.CaptureLeft))
	assert.Equal(t, 1, log.count("H.hoverEnd"))
	assert.False(t, r.IsRetired(id))
}

func TestAutoInvalidateOnCapture(t *testing.T) {
	log := &callLog{}
	r, tx := newRouter(WithAutoInvalidateOnCapture(true))
	a := newFake("A", 1, log)
	a.updates = []behavior.CaptureState{behavior.Continue}
	r.RegisterSource(sourceOf(a))

	r.PostInputEvent(press())
	r.PostInputEvent(mouse(1, 1))
	r.PostInputEvent(mouse(1, 1))
	assert.Equal(t, 3, tx.Invalidations)
}

func TestLastMouseInput(t *testing.T) {
	r, _ := newRouter()
	_, ok := r.LastMouseInput()
	assert.False(t, ok)

	r.PostInputEvent(mouse(5, 6))
	r.PostInputEvent(device.KeyPress(key.KeyRune, 'a', key.ModNone, mouse(0, 0).Time))
	last, ok := r.LastMouseInput()
	require.True(t, ok)
	assert.Equal(t, mgl64.Vec2{5, 6}, last.Mouse.Position2D)
}

func TestNilTransactions(t *testing.T) {
	r := New(nil)
	assert.NotPanics(t, func() {
		r.PostInputEvent(device.State{Device: device.TabletFingers})
	})
}

func TestParseAnomalyPolicy(t *testing.T) {
	tests := []struct {
		in   string
		want AnomalyPolicy
		ok   bool
	}{
		{"force-end", AnomalyForceEnd, true},
		{"", AnomalyForceEnd, true},
		{"preserve", AnomalyPreserve, true},
		{"explode", AnomalyForceEnd, false},
	}
	for _, tt := range tests {
		got, ok := ParseAnomalyPolicy(tt.in)
		assert.Equal(t, tt.want, got, tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
	}
	assert.Equal(t, "preserve", AnomalyPreserve.String())
}

func TestMetricsDisabled(t *testing.T) {
	m := NewMetrics()
	m.SetEnabled(false)
	r, _ := newRouter(WithMetrics(m))
	r.PostInputEvent(mouse(0, 0))
	assert.Zero(t, m.Snapshot().EventsTotal)

	m.SetEnabled(true)
	r.PostInputEvent(mouse(0, 0))
	assert.Equal(t, uint64(1), m.Snapshot().EventsTotal)
	m.Reset()
	assert.Zero(t, m.Snapshot().EventsTotal)
}

func indexOf(calls []string, s string) int {
	for i, c := range calls {
		if c == s {
			return i
		}
	}
	return -1
}
