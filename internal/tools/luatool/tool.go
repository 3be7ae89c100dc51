package luatool

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/dshills/interact/internal/ctxapi"
	"github.com/dshills/interact/internal/input/behavior"
	"github.com/dshills/interact/internal/input/device"
	"github.com/dshills/interact/internal/input/key"
	"github.com/dshills/interact/internal/tools"
)

// defaultColor is used by draw calls without a color argument.
var defaultColor = ctxapi.Color{R: 255, G: 255, B: 255, A: 255}

// Tool runs a script as an interactive tool.
type Tool struct {
	tools.BaseTool

	info   Info
	state  *State
	logger *zap.Logger
	props  *tools.PropertySet

	// render is set only while on_render runs.
	render ctxapi.RenderAPI
}

// newTool wraps an executed script. The interact module is installed
// before the script body runs so top-level code may use it.
func newTool(info Info, s *State, logger *zap.Logger) *Tool {
	t := &Tool{info: info, state: s, logger: logger}
	t.installModule()
	return t
}

// Info returns the script's description.
func (t *Tool) Info() Info {
	return t.info
}

// Properties returns the tool's property set, or nil if the script
// declares none.
func (t *Tool) Properties() *tools.PropertySet {
	return t.props
}

// Setup implements tools.Tool.
func (t *Tool) Setup() {
	if len(t.info.Properties) > 0 {
		t.props = tools.NewPropertySet(t.info.Name)
		for _, name := range t.info.PropertyNames() {
			if err := t.props.Define(name, t.info.Properties[name]); err != nil {
				t.report(err)
			}
		}
		t.AddPropertySet(t.props)
	}

	drag := t.state.HasFunc(fnPress) || t.state.HasFunc(fnDrag) || t.state.HasFunc(fnRelease)
	if drag {
		t.addBehavior(behavior.NewClickDrag(t))
	} else if t.state.HasFunc(fnClick) {
		t.addBehavior(behavior.NewSingleClick(t))
	}
	if t.state.HasFunc(fnHover) {
		t.addBehavior(behavior.NewMouseHover(t))
	}
	if t.state.HasFunc(fnKey) && len(t.info.Keys) > 0 {
		t.addBehavior(behavior.NewKeyInput(t, t.info.Keys...))
	}

	t.call(fnSetup)
}

type prioritized interface {
	behavior.Behavior
	SetDefaultPriority(p behavior.Priority)
}

func (t *Tool) addBehavior(b prioritized) {
	if t.info.Priority != 0 {
		b.SetDefaultPriority(t.info.Priority)
	}
	t.AddInputBehavior(b)
}

// Shutdown implements tools.Tool. The script's state is closed afterwards.
func (t *Tool) Shutdown(st tools.ShutdownType) {
	t.call(fnShutdown, lua.LString(st.String()))
	t.state.Close()
}

// Tick implements tools.Tool. The script receives dt in seconds.
func (t *Tool) Tick(dt time.Duration) {
	t.call(fnTick, lua.LNumber(dt.Seconds()))
}

// Render implements tools.Tool.
func (t *Tool) Render(api ctxapi.RenderAPI) {
	if api == nil {
		return
	}
	t.render = api
	defer func() { t.render = nil }()
	t.call(fnRender)
}

// HasAccept implements tools.Tool.
func (t *Tool) HasAccept() bool { return t.info.HasAccept }

// HasCancel implements tools.Tool.
func (t *Tool) HasCancel() bool { return t.info.HasCancel }

// CanAccept implements tools.Tool. Scripts without can_accept can accept
// whenever they support it.
func (t *Tool) CanAccept() bool {
	if !t.info.HasAccept {
		return false
	}
	if !t.state.HasFunc(fnCanAccept) {
		return true
	}
	return lua.LVAsBool(t.call(fnCanAccept))
}

// RegisterActions implements tools.Tool.
func (t *Tool) RegisterActions(set *tools.ActionSet) {
	tbl, _ := t.state.Global(toolTable).(*lua.LTable)
	if tbl == nil {
		return
	}
	entries, _ := tbl.RawGetString("actions").(*lua.LTable)
	for i, a := range t.info.Actions {
		var chord key.Chord
		if a.Key != "" {
			c, err := key.ParseChord(a.Key)
			if err != nil {
				t.report(fmt.Errorf("action %s: %w", a.Name, err))
			}
			chord = c
		}
		var fn lua.LValue = lua.LNil
		if entries != nil {
			if e, ok := entries.RawGetInt(i + 1).(*lua.LTable); ok {
				fn = e.RawGetString("run")
			}
		}
		name := a.Name
		err := set.Register(tools.Action{
			ID:          tools.StandardActionBase + i,
			Name:        name,
			Description: a.Description,
			Chord:       chord,
			Run: func() {
				if _, err := t.state.CallValue(fn); err != nil {
					t.report(fmt.Errorf("action %s: %w", name, err))
				}
			},
		})
		if err != nil {
			t.report(err)
		}
	}
}

// CanBeginClickDrag implements behavior.ClickDragTarget.
func (t *Tool) CanBeginClickDrag(ray device.DeviceRay) behavior.RayHit {
	return t.hitTest(ray)
}

// OnClickPress implements behavior.ClickDragTarget.
func (t *Tool) OnClickPress(ray device.DeviceRay) {
	t.callAt(fnPress, ray)
}

// OnClickDrag implements behavior.ClickDragTarget.
func (t *Tool) OnClickDrag(ray device.DeviceRay) {
	t.callAt(fnDrag, ray)
}

// OnClickRelease implements behavior.ClickDragTarget.
func (t *Tool) OnClickRelease(ray device.DeviceRay) {
	t.callAt(fnRelease, ray)
}

// OnTerminateDragSequence implements behavior.ClickDragTarget.
func (t *Tool) OnTerminateDragSequence() {
	t.call(fnTerminate)
}

// IsHitByClick implements behavior.ClickTarget.
func (t *Tool) IsHitByClick(ray device.DeviceRay) behavior.RayHit {
	return t.hitTest(ray)
}

// OnClicked implements behavior.ClickTarget.
func (t *Tool) OnClicked(ray device.DeviceRay) {
	t.callAt(fnClick, ray)
}

// BeginHoverHitTest implements behavior.HoverTarget.
func (t *Tool) BeginHoverHitTest(ray device.DeviceRay) behavior.RayHit {
	return t.hitTest(ray)
}

// OnBeginHover implements behavior.HoverTarget.
func (t *Tool) OnBeginHover(ray device.DeviceRay) {
	t.callAt(fnHover, ray)
}

// OnUpdateHover implements behavior.HoverTarget. A script ends the hover by
// returning false; any other result continues it.
func (t *Tool) OnUpdateHover(ray device.DeviceRay) bool {
	ret := t.callAt(fnHover, ray)
	return ret != lua.LFalse
}

// OnEndHover implements behavior.HoverTarget.
func (t *Tool) OnEndHover() {
	t.call(fnHoverEnd)
}

// OnKeyPressed implements behavior.KeyTarget.
func (t *Tool) OnKeyPressed(c key.Chord) {
	t.call(fnKey, lua.LString(c.String()), lua.LTrue)
}

// OnKeyReleased implements behavior.KeyTarget.
func (t *Tool) OnKeyReleased(c key.Chord) {
	t.call(fnKey, lua.LString(c.String()), lua.LFalse)
}

// hitTest asks hit_test(x, y). A number is a hit at that depth, true a hit
// at depth zero, anything else a miss. Without hit_test everything hits.
func (t *Tool) hitTest(ray device.DeviceRay) behavior.RayHit {
	if !t.state.HasFunc(fnHitTest) {
		return behavior.HitAt(0)
	}
	switch v := t.callAt(fnHitTest, ray).(type) {
	case lua.LNumber:
		return behavior.HitAt(float64(v))
	case lua.LBool:
		if v {
			return behavior.HitAt(0)
		}
	}
	return behavior.Miss()
}

func (t *Tool) callAt(fn string, ray device.DeviceRay) lua.LValue {
	p := ray.ScreenPosition
	return t.call(fn, lua.LNumber(p.X()), lua.LNumber(p.Y()))
}

// call runs a callback and reports failures. Missing callbacks and closed
// states return nil.
func (t *Tool) call(fn string, args ...lua.LValue) lua.LValue {
	ret, err := t.state.Call(fn, args...)
	if err != nil {
		if !errors.Is(err, ErrStateClosed) {
			t.report(err)
		}
		return lua.LNil
	}
	return ret
}

// report logs a script error and shows it to the user.
func (t *Tool) report(err error) {
	t.logger.Warn("lua tool error", zap.String("tool", t.info.Name), zap.Error(err))
	if m := t.Manager(); m != nil {
		m.PostMessage(fmt.Sprintf("%s: %v", t.info.Name, err), ctxapi.UserWarning)
	}
}

// installModule registers the interact module.
func (t *Tool) installModule() {
	t.state.RegisterModule(moduleGlobal, map[string]lua.LGFunction{
		"message":    t.luaMessage,
		"invalidate": t.luaInvalidate,
		"begin_undo": t.luaBeginUndo,
		"end_undo":   t.luaEndUndo,
		"change":     t.luaChange,
		"select":     t.luaSelect,
		"selection":  t.luaSelection,
		"get":        t.luaGet,
		"set":        t.luaSet,
		"draw_point": t.luaDrawPoint,
		"draw_line":  t.luaDrawLine,
		"draw_text":  t.luaDrawText,
	})
}

func (t *Tool) manager(L *lua.LState) *tools.Manager {
	m := t.Manager()
	if m == nil {
		L.RaiseError("tool is not running")
	}
	return m
}

var messageLevels = map[string]ctxapi.MessageLevel{
	"message":      ctxapi.UserMessage,
	"notification": ctxapi.UserNotification,
	"warning":      ctxapi.UserWarning,
	"error":        ctxapi.UserError,
}

// message(text [, level])
func (t *Tool) luaMessage(L *lua.LState) int {
	text := L.CheckString(1)
	level := ctxapi.UserMessage
	if name := L.OptString(2, ""); name != "" {
		l, ok := messageLevels[name]
		if !ok {
			L.ArgError(2, "unknown message level "+name)
		}
		level = l
	}
	t.manager(L).PostMessage(text, level)
	return 0
}

func (t *Tool) luaInvalidate(L *lua.LState) int {
	t.manager(L).PostInvalidation()
	return 0
}

// begin_undo(description)
func (t *Tool) luaBeginUndo(L *lua.LState) int {
	t.manager(L).BeginUndoTransaction(L.CheckString(1))
	return 0
}

func (t *Tool) luaEndUndo(L *lua.LState) int {
	t.manager(L).EndUndoTransaction()
	return 0
}

// change(description [, target])
func (t *Tool) luaChange(L *lua.LState) int {
	desc := L.CheckString(1)
	target := L.OptString(2, t.info.Name)
	t.manager(L).EmitObjectChange(target, ctxapi.ChangeFunc(desc), desc)
	return 0
}

var selectionKinds = map[string]ctxapi.SelectionChangeKind{
	"replace": ctxapi.SelectReplace,
	"add":     ctxapi.SelectAdd,
	"remove":  ctxapi.SelectRemove,
}

// select({ids...} [, mode [, kind]]) -> accepted
func (t *Tool) luaSelect(L *lua.LState) int {
	ids := L.CheckTable(1)
	kind, ok := selectionKinds[L.OptString(2, "replace")]
	if !ok {
		L.ArgError(2, "mode must be replace, add or remove")
	}
	objKind := L.OptString(3, "")
	change := ctxapi.SelectionChange{Kind: kind}
	for i := 1; i <= ids.Len(); i++ {
		change.Objects = append(change.Objects, ctxapi.ObjectRef{
			ID:   lua.LVAsString(ids.RawGetInt(i)),
			Kind: objKind,
		})
	}
	L.Push(lua.LBool(t.manager(L).RequestSelectionChange(change)))
	return 1
}

// selection() -> {ids...}
func (t *Tool) luaSelection(L *lua.LState) int {
	scene := t.manager(L).Queries().CurrentSelectionState()
	tbl := L.CreateTable(len(scene.Selection), 0)
	for _, o := range scene.Selection {
		tbl.Append(lua.LString(o.ID))
	}
	L.Push(tbl)
	return 1
}

// get(name) -> value
func (t *Tool) luaGet(L *lua.LState) int {
	name := L.CheckString(1)
	if t.props == nil {
		L.Push(lua.LNil)
		return 1
	}
	v, _ := t.props.Get(name)
	L.Push(toLua(v))
	return 1
}

// set(name, value)
func (t *Tool) luaSet(L *lua.LState) int {
	name := L.CheckString(1)
	v, ok := fromLua(L.CheckAny(2))
	if !ok {
		L.ArgError(2, "unsupported property type")
	}
	if t.props == nil {
		L.RaiseError("tool has no properties")
	}
	if err := t.props.Set(name, v); err != nil {
		L.RaiseError("%s", err.Error())
	}
	return 0
}

func (t *Tool) renderAPI(L *lua.LState) ctxapi.RenderAPI {
	if t.render == nil {
		L.RaiseError("draw calls are only allowed in on_render")
	}
	return t.render
}

// draw_point(x, y [, glyph])
func (t *Tool) luaDrawPoint(L *lua.LState) int {
	pos := mgl64.Vec2{float64(L.CheckNumber(1)), float64(L.CheckNumber(2))}
	glyph := '*'
	if g := []rune(L.OptString(3, "")); len(g) > 0 {
		glyph = g[0]
	}
	t.renderAPI(L).DrawPoint(pos, glyph, defaultColor)
	return 0
}

// draw_line(x1, y1, x2, y2)
func (t *Tool) luaDrawLine(L *lua.LState) int {
	from := mgl64.Vec2{float64(L.CheckNumber(1)), float64(L.CheckNumber(2))}
	to := mgl64.Vec2{float64(L.CheckNumber(3)), float64(L.CheckNumber(4))}
	t.renderAPI(L).DrawLine(from, to, defaultColor)
	return 0
}

// draw_text(x, y, text)
func (t *Tool) luaDrawText(L *lua.LState) int {
	pos := mgl64.Vec2{float64(L.CheckNumber(1)), float64(L.CheckNumber(2))}
	t.renderAPI(L).DrawText(pos, L.CheckString(3), defaultColor)
	return 0
}
