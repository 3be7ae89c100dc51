package sample

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/dshills/interact/internal/ctxapi"
	"github.com/dshills/interact/internal/input/behavior"
	"github.com/dshills/interact/internal/input/device"
	"github.com/dshills/interact/internal/tools"
)

const (
	modAdd = iota + 1
	modRemove
)

// pickTolerance is the snap distance used to find the clicked object.
const pickTolerance = 0.5

// SelectTool picks the object under a click. Shift adds to the selection,
// Ctrl removes from it, and a click on nothing clears it.
type SelectTool struct {
	tools.BaseTool

	add    bool
	remove bool
}

// NewSelectBuilder returns the builder for SelectTool.
func NewSelectBuilder() tools.Builder {
	return tools.BuilderFunc(func(ctxapi.SceneState) tools.Tool {
		return &SelectTool{}
	})
}

// Setup implements tools.Tool.
func (t *SelectTool) Setup() {
	click := behavior.NewSingleClick(t)
	click.Modifiers.Register(modAdd, behavior.IsShiftDown)
	click.Modifiers.Register(modRemove, behavior.IsCtrlDown)
	click.SetDefaultPriority(behavior.DefaultToolPriority.Lower(1))
	t.AddInputBehavior(click)
}

// OnUpdateModifierState implements behavior.ModifierToggleTarget.
func (t *SelectTool) OnUpdateModifierState(id int, on bool) {
	switch id {
	case modAdd:
		t.add = on
	case modRemove:
		t.remove = on
	}
}

// IsHitByClick implements behavior.ClickTarget. The whole view is
// clickable.
func (t *SelectTool) IsHitByClick(device.DeviceRay) behavior.RayHit {
	return behavior.HitAt(0)
}

// OnClicked implements behavior.ClickTarget.
func (t *SelectTool) OnClicked(ray device.DeviceRay) {
	m := t.Manager()
	obj, hit := t.pick(ray.ScreenPosition)

	change := ctxapi.SelectionChange{Kind: ctxapi.SelectReplace}
	switch {
	case !hit && (t.add || t.remove):
		return
	case !hit:
		// Replacing with nothing clears the selection.
	case t.remove:
		change.Kind = ctxapi.SelectRemove
		change.Objects = []ctxapi.ObjectRef{obj}
	case t.add:
		change.Kind = ctxapi.SelectAdd
		change.Objects = []ctxapi.ObjectRef{obj}
	default:
		change.Objects = []ctxapi.ObjectRef{obj}
	}

	m.BeginUndoTransaction("Select")
	if !m.RequestSelectionChange(change) {
		m.PostMessage("selection change refused", ctxapi.UserWarning)
	}
	m.EndUndoTransaction()
	m.PostInvalidation()
}

// pick asks the host for the object nearest p.
func (t *SelectTool) pick(p mgl64.Vec2) (ctxapi.ObjectRef, bool) {
	res, ok := t.Manager().Queries().ExecuteSceneSnapQuery(ctxapi.SnapQuery{
		Target:    ctxapi.SnapVertex,
		Position:  p.Vec3(0),
		Tolerance: pickTolerance,
	})
	if !ok || len(res) == 0 || res[0].Target.ID == "" {
		return ctxapi.ObjectRef{}, false
	}
	return res[0].Target, true
}
