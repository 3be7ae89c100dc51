package terminal

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/interact/internal/config"
	"github.com/dshills/interact/internal/ctxapi"
	"github.com/dshills/interact/internal/input/behavior"
	"github.com/dshills/interact/internal/input/device"
	"github.com/dshills/interact/internal/input/key"
	"github.com/dshills/interact/internal/tools"
	"github.com/dshills/interact/internal/tools/sample"
	"github.com/dshills/interact/internal/toolsctx"
)

type harness struct {
	screen  tcell.SimulationScreen
	host    *Host
	ctx     *toolsctx.Context
	session *Session
	assets  string
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{screen: newSimScreen(t, 20, 8), assets: t.TempDir()}
	h.host = NewHost(testScene(), nil)
	h.ctx = toolsctx.New(h.host.Scene(), h.host, toolsctx.WithAssetAPI(NewFileAssets(h.assets)))
	sample.Register(h.ctx.Manager())
	h.session = NewSession(h.screen, h.ctx, h.host)
	return h
}

func (h *harness) mouse(x, y int, b tcell.ButtonMask, mods tcell.ModMask) {
	h.session.HandleEvent(tcell.NewEventMouse(x, y, b, mods))
}

func (h *harness) key(k tcell.Key, r rune, mods tcell.ModMask) bool {
	return h.session.HandleEvent(tcell.NewEventKey(k, r, mods))
}

func (h *harness) statusLine() string {
	cells, w, hgt := h.screen.GetContents()
	var b strings.Builder
	for x := 0; x < w; x++ {
		c := cells[(hgt-1)*w+x]
		if len(c.Runes) > 0 {
			b.WriteRune(c.Runes[0])
		}
	}
	return b.String()
}

func TestSessionViewport(t *testing.T) {
	h := newHarness(t)
	assert.Equal(t, mgl64.Vec2{20, 7}, h.host.Scene().CurrentViewState().Viewport)

	h.screen.SetSize(30, 10)
	h.session.HandleEvent(tcell.NewEventResize(30, 10))
	assert.Equal(t, mgl64.Vec2{30, 9}, h.host.Scene().CurrentViewState().Viewport)
	assert.True(t, h.host.TakeInvalidation())
}

func TestSessionBrushStroke(t *testing.T) {
	h := newHarness(t)
	require.True(t, h.key(tcell.KeyF1, 0, tcell.ModNone))
	require.Equal(t, sample.BrushToolName, h.ctx.ActiveToolName())

	h.mouse(1, 1, tcell.Button1, tcell.ModNone)
	h.mouse(4, 1, tcell.Button1, tcell.ModNone)
	h.mouse(4, 1, tcell.ButtonNone, tcell.ModNone)

	journal := h.host.Journal()
	require.Len(t, journal, 1)
	assert.Equal(t, "Brush stroke", journal[0].Description)
	assert.Equal(t, []Change{
		{Target: sample.BrushTarget, Description: "stamp 1,1"},
		{Target: sample.BrushTarget, Description: "stamp 4,1"},
	}, journal[0].Changes)

	h.session.Draw()
	assert.Equal(t, '*', cellAt(h.screen, 1, 1))
	assert.Equal(t, '*', cellAt(h.screen, 4, 1))
	assert.Contains(t, h.statusLine(), "[F1 brush]")

	require.True(t, h.key(tcell.KeyEnter, 0, tcell.ModNone))
	assert.False(t, h.ctx.HasActiveTool())
	assert.Contains(t, h.host.Status().Text, "brush: saved")
	assert.FileExists(t, h.assets+"/strokes-1.yaml")
}

func TestSessionToolActionsAndKeys(t *testing.T) {
	h := newHarness(t)
	h.session.StartTool(sample.BrushToolName)

	require.True(t, h.key(tcell.KeyRune, ']', tcell.ModNone))
	brush := h.ctx.Manager().ActiveTool(tools.SideLeft).(*sample.BrushTool)
	assert.Equal(t, 2.0, brush.Properties().Float(sample.PropRadius))

	h.session.ApplyConfig(&config.Config{
		Tools: config.ToolsConfig{Bindings: map[string]map[string]string{
			sample.BrushToolName: {"grow": "Ctrl+G"},
		}},
		Host: config.HostConfig{Mouse: true},
	})
	assert.Equal(t, "config reloaded", h.host.Status().Text)

	require.True(t, h.key(tcell.KeyEscape, 0, tcell.ModNone))
	assert.False(t, h.ctx.HasActiveTool())

	h.session.StartTool(sample.BrushToolName)
	brush = h.ctx.Manager().ActiveTool(tools.SideLeft).(*sample.BrushTool)
	require.True(t, h.key(tcell.KeyRune, ']', tcell.ModNone))
	assert.Equal(t, 1.0, brush.Properties().Float(sample.PropRadius), "old chord is unbound")
	require.True(t, h.key(tcell.KeyCtrlG, 0, tcell.ModCtrl))
	assert.Equal(t, 2.0, brush.Properties().Float(sample.PropRadius), "rebound chord runs the action")
}

func TestSessionSelectTool(t *testing.T) {
	h := newHarness(t)
	require.True(t, h.key(tcell.KeyF2, 0, tcell.ModNone))
	require.Equal(t, sample.SelectToolName, h.ctx.ActiveToolName())

	h.mouse(6, 2, tcell.Button1, tcell.ModNone)
	h.mouse(6, 2, tcell.ButtonNone, tcell.ModNone)
	assert.True(t, h.host.Scene().IsSelected("b"))
	assert.False(t, h.host.Scene().IsSelected("a"))

	h.mouse(2, 2, tcell.Button1, tcell.ModShift)
	h.mouse(2, 2, tcell.ButtonNone, tcell.ModShift)
	assert.True(t, h.host.Scene().IsSelected("a"))
	assert.True(t, h.host.Scene().IsSelected("b"))

	require.True(t, h.key(tcell.KeyF1, 0, tcell.ModNone))
	assert.Equal(t, sample.BrushToolName, h.ctx.ActiveToolName(), "function keys switch tools")
}

func TestSessionHoverPreview(t *testing.T) {
	h := newHarness(t)
	h.session.StartTool(sample.BrushToolName)

	h.mouse(9, 3, tcell.ButtonNone, tcell.ModNone)
	h.session.Draw()
	assert.Equal(t, '*', cellAt(h.screen, 9, 3))
}

// hoverCounter hovers everywhere and counts its hover callbacks.
type hoverCounter struct {
	behavior.Base
	begins, updates int
}

func (h *hoverCounter) WantsCapture(device.State) behavior.CaptureRequest {
	return behavior.IgnoreRequest()
}
func (h *hoverCounter) BeginCapture(_ device.State, side behavior.CaptureSide) behavior.CaptureUpdate {
	return behavior.BeginUpdate(side, nil)
}
func (h *hoverCounter) UpdateCapture(device.State, behavior.CaptureData) behavior.CaptureUpdate {
	return behavior.EndUpdate()
}
func (h *hoverCounter) ForceEndCapture(behavior.CaptureData) {}
func (h *hoverCounter) WantsHoverEvents() bool               { return true }
func (h *hoverCounter) WantsHoverCapture(in device.State) behavior.CaptureRequest {
	return behavior.BeginRequest(h, behavior.CaptureSideFor(in), 0)
}
func (h *hoverCounter) BeginHoverCapture(_ device.State, side behavior.CaptureSide) behavior.CaptureUpdate {
	h.begins++
	return behavior.BeginUpdate(side, nil)
}
func (h *hoverCounter) UpdateHoverCapture(device.State) behavior.CaptureUpdate {
	h.updates++
	return behavior.ContinueUpdate()
}
func (h *hoverCounter) EndHoverCapture() {}

type hoverTool struct {
	tools.BaseTool
	counter *hoverCounter
}

func (t *hoverTool) Setup() { t.AddInputBehavior(t.counter) }

func TestSessionMotionIsHoverOnly(t *testing.T) {
	h := newHarness(t)
	counter := &hoverCounter{}
	h.ctx.RegisterToolType("hover", tools.BuilderFunc(func(ctxapi.SceneState) tools.Tool {
		return &hoverTool{counter: counter}
	}))
	h.session.StartTool("hover")
	metrics := h.ctx.Router().Metrics()

	h.mouse(3, 3, tcell.ButtonNone, tcell.ModNone)
	assert.Equal(t, 1, counter.begins)
	assert.Zero(t, counter.updates)

	h.mouse(4, 3, tcell.ButtonNone, tcell.ModNone)
	assert.Equal(t, 1, counter.updates, "one hover update per motion sample")
	snap := metrics.Snapshot()
	assert.Equal(t, uint64(2), snap.HoverEventsTotal)
	assert.Zero(t, snap.EventsTotal, "motion is not posted as capture input")

	h.mouse(4, 3, tcell.Button1, tcell.ModNone)
	h.mouse(4, 3, tcell.ButtonNone, tcell.ModNone)
	snap = metrics.Snapshot()
	assert.Equal(t, uint64(2), snap.EventsTotal, "press and release are capture input")
	assert.Equal(t, uint64(2), snap.HoverEventsTotal)
}

func TestSessionConfigInterrupts(t *testing.T) {
	h := newHarness(t)
	assert.True(t, h.session.HandleEvent(tcell.NewEventInterrupt(errors.New("bad level"))))
	assert.Equal(t, ctxapi.Message{Text: "config: bad level", Level: ctxapi.UserWarning}, h.host.Status())

	assert.True(t, h.session.HandleEvent(tcell.NewEventInterrupt(config.Default())))
	assert.Equal(t, "config reloaded", h.host.Status().Text)
}

func TestSessionStartUnknownTool(t *testing.T) {
	h := newHarness(t)
	h.session.StartTool("nope")
	assert.Equal(t, ctxapi.UserError, h.host.Status().Level)
	assert.Contains(t, h.host.Status().Text, "start nope")
}

func TestSessionRunQuits(t *testing.T) {
	h := newHarness(t)
	h.screen.InjectKey(tcell.KeyRune, 'x', tcell.ModNone)
	h.screen.InjectKey(tcell.KeyCtrlC, 0, tcell.ModCtrl)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, h.session.Run(ctx))
}

func TestSessionTick(t *testing.T) {
	h := newHarness(t)
	now := time.Now()
	h.session.Tick(now)
	h.session.Tick(now.Add(time.Second))
	assert.False(t, h.key(tcell.KeyCtrlC, 0, tcell.ModCtrl))
	assert.Equal(t, key.RuneChord('c', key.ModCtrl), quitChord)
}
