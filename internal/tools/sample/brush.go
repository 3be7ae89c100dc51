// Package sample provides stock tools built on the tools package: a
// freehand brush and a click selection tool.
package sample

import (
	"fmt"
	"path/filepath"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/dshills/interact/internal/ctxapi"
	"github.com/dshills/interact/internal/input/behavior"
	"github.com/dshills/interact/internal/input/device"
	"github.com/dshills/interact/internal/input/key"
	"github.com/dshills/interact/internal/tools"
)

// Tool type ids.
const (
	BrushToolName  = "brush"
	SelectToolName = "select"
)

// Brush property names.
const (
	PropGlyph   = "glyph"
	PropRadius  = "radius"
	PropSpacing = "spacing"
	PropSnap    = "snap"
)

// BrushTarget is the object brush changes are recorded against.
const BrushTarget = "canvas"

// BrushAssetBase is the base name of assets saved on Accept.
const BrushAssetBase = "strokes"

const (
	// Holding Shift draws a straight line from the press point.
	modStraight = iota + 1

	minRadius = 1
	maxRadius = 16
)

var (
	strokeColor  = ctxapi.Color{R: 230, G: 200, B: 80, A: 255}
	previewColor = ctxapi.Color{R: 120, G: 120, B: 120, A: 255}
)

// Stroke is one committed brush stroke.
type Stroke struct {
	Glyph  rune
	Radius float64
	Points []mgl64.Vec2
}

// BrushTool paints strokes with a click-drag and previews the brush under
// the hovering pointer. Each stroke is one undo transaction.
type BrushTool struct {
	tools.BaseTool

	props *tools.PropertySet

	strokes  []Stroke
	current  *Stroke
	anchor   mgl64.Vec2
	straight bool

	hovering bool
	hoverPos mgl64.Vec2
}

// NewBrushBuilder returns the builder for BrushTool.
func NewBrushBuilder() tools.Builder {
	return tools.BuilderFunc(func(ctxapi.SceneState) tools.Tool {
		return &BrushTool{}
	})
}

// Setup implements tools.Tool.
func (t *BrushTool) Setup() {
	t.props = tools.NewPropertySet(BrushToolName)
	_ = t.props.Define(PropGlyph, "*")
	_ = t.props.Define(PropRadius, 1.0)
	_ = t.props.Define(PropSpacing, 1.0)
	_ = t.props.Define(PropSnap, false)
	t.AddPropertySet(t.props)

	drag := behavior.NewClickDrag(t)
	drag.Modifiers.Register(modStraight, behavior.IsShiftDown)
	t.AddInputBehavior(drag)
	t.AddInputBehavior(behavior.NewMouseHover(t))
}

// Properties returns the brush settings.
func (t *BrushTool) Properties() *tools.PropertySet {
	return t.props
}

// Strokes returns the strokes painted so far.
func (t *BrushTool) Strokes() []Stroke {
	return t.strokes
}

// Shutdown implements tools.Tool. A stroke still in progress is closed.
// Accept saves the strokes as an asset when the host has an asset API;
// Cancel reports how many strokes are discarded.
func (t *BrushTool) Shutdown(st tools.ShutdownType) {
	if t.current != nil {
		t.finishStroke()
	}
	if len(t.strokes) == 0 {
		return
	}
	switch st {
	case tools.Accept:
		t.saveAsset()
	case tools.Cancel:
		t.Manager().PostMessage(fmt.Sprintf("brush: discarded %d stroke(s)", len(t.strokes)), ctxapi.UserNotification)
	}
}

func (t *BrushTool) saveAsset() {
	m := t.Manager()
	assets := m.Assets()
	if assets == nil {
		return
	}
	folder := assets.DefaultAssetPath()
	path := filepath.Join(folder, assets.UniqueAssetName(folder, BrushAssetBase))
	if err := assets.SaveGeneratedAsset(path, t.strokes); err != nil {
		m.PostMessage(fmt.Sprintf("brush: save %s: %v", path, err), ctxapi.UserError)
		return
	}
	m.PostMessage("brush: saved "+path, ctxapi.UserMessage)
}

// HasAccept implements tools.Tool.
func (t *BrushTool) HasAccept() bool { return true }

// HasCancel implements tools.Tool.
func (t *BrushTool) HasCancel() bool { return true }

// CanAccept implements tools.Tool.
func (t *BrushTool) CanAccept() bool {
	return t.current == nil && len(t.strokes) > 0
}

// RegisterActions implements tools.Tool.
func (t *BrushTool) RegisterActions(set *tools.ActionSet) {
	_ = set.Register(tools.Action{
		ID:          tools.StandardActionBase + 1,
		Name:        "grow",
		Description: "Increase brush radius",
		Chord:       key.RuneChord(']', key.ModNone),
		Run:         func() { t.resize(1) },
	})
	_ = set.Register(tools.Action{
		ID:          tools.StandardActionBase + 2,
		Name:        "shrink",
		Description: "Decrease brush radius",
		Chord:       key.RuneChord('[', key.ModNone),
		Run:         func() { t.resize(-1) },
	})
}

func (t *BrushTool) resize(d float64) {
	r := min(max(t.props.Float(PropRadius)+d, minRadius), maxRadius)
	_ = t.props.Set(PropRadius, r)
	t.Manager().PostInvalidation()
}

// Render implements tools.Tool.
func (t *BrushTool) Render(api ctxapi.RenderAPI) {
	for _, s := range t.strokes {
		drawStroke(api, s, strokeColor)
	}
	if t.current != nil {
		drawStroke(api, *t.current, strokeColor)
	}
	if t.hovering && t.current == nil {
		api.DrawPoint(t.hoverPos, t.glyph(), previewColor)
	}
}

func drawStroke(api ctxapi.RenderAPI, s Stroke, c ctxapi.Color) {
	for _, p := range s.Points {
		api.DrawPoint(p, s.Glyph, c)
	}
}

// OnUpdateModifierState implements behavior.ModifierToggleTarget.
func (t *BrushTool) OnUpdateModifierState(id int, on bool) {
	if id == modStraight {
		t.straight = on
	}
}

// CanBeginClickDrag implements behavior.ClickDragTarget.
func (t *BrushTool) CanBeginClickDrag(device.DeviceRay) behavior.RayHit {
	return behavior.HitAt(0)
}

// OnClickPress implements behavior.ClickDragTarget.
func (t *BrushTool) OnClickPress(ray device.DeviceRay) {
	t.Manager().BeginUndoTransaction("Brush stroke")
	t.current = &Stroke{Glyph: t.glyph(), Radius: t.props.Float(PropRadius)}
	t.anchor = t.snap(ray.ScreenPosition)
	t.stamp(t.anchor)
}

// OnClickDrag implements behavior.ClickDragTarget.
func (t *BrushTool) OnClickDrag(ray device.DeviceRay) {
	if t.current == nil {
		return
	}
	p := t.snap(ray.ScreenPosition)
	if t.straight {
		// Keep only the anchor and the current end point.
		t.current.Points = t.current.Points[:1]
	}
	last := t.current.Points[len(t.current.Points)-1]
	if p.Sub(last).Len() < t.props.Float(PropSpacing) {
		return
	}
	t.stamp(p)
}

// OnClickRelease implements behavior.ClickDragTarget.
func (t *BrushTool) OnClickRelease(device.DeviceRay) {
	t.finishStroke()
}

// OnTerminateDragSequence implements behavior.ClickDragTarget.
func (t *BrushTool) OnTerminateDragSequence() {
	t.finishStroke()
}

func (t *BrushTool) stamp(p mgl64.Vec2) {
	t.current.Points = append(t.current.Points, p)
	desc := fmt.Sprintf("stamp %g,%g", p.X(), p.Y())
	t.Manager().EmitObjectChange(BrushTarget, ctxapi.ChangeFunc(desc), desc)
	t.Manager().PostInvalidation()
}

func (t *BrushTool) finishStroke() {
	if t.current == nil {
		return
	}
	t.strokes = append(t.strokes, *t.current)
	t.current = nil
	t.Manager().EndUndoTransaction()
}

// snap snaps p to the host grid when the snap property is set.
func (t *BrushTool) snap(p mgl64.Vec2) mgl64.Vec2 {
	if !t.props.Bool(PropSnap) {
		return p
	}
	res, ok := t.Manager().Queries().ExecuteSceneSnapQuery(ctxapi.SnapQuery{
		Target:    ctxapi.SnapGrid,
		Position:  p.Vec3(0),
		Tolerance: t.props.Float(PropRadius),
	})
	if !ok || len(res) == 0 {
		return p
	}
	return res[0].Position.Vec2()
}

func (t *BrushTool) glyph() rune {
	for _, r := range t.props.Text(PropGlyph) {
		return r
	}
	return '*'
}

// BeginHoverHitTest implements behavior.HoverTarget.
func (t *BrushTool) BeginHoverHitTest(device.DeviceRay) behavior.RayHit {
	return behavior.HitAt(0)
}

// OnBeginHover implements behavior.HoverTarget.
func (t *BrushTool) OnBeginHover(ray device.DeviceRay) {
	t.hovering = true
	t.hoverPos = ray.ScreenPosition
	t.Manager().PostInvalidation()
}

// OnUpdateHover implements behavior.HoverTarget.
func (t *BrushTool) OnUpdateHover(ray device.DeviceRay) bool {
	if ray.ScreenPosition != t.hoverPos {
		t.hoverPos = ray.ScreenPosition
		t.Manager().PostInvalidation()
	}
	return true
}

// OnEndHover implements behavior.HoverTarget.
func (t *BrushTool) OnEndHover() {
	t.hovering = false
	t.Manager().PostInvalidation()
}
