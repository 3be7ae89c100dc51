package luatool

import (
	"fmt"
	"sort"
	"time"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/interact/internal/input/behavior"
	"github.com/dshills/interact/internal/input/key"
)

// Callback names a script may define.
const (
	fnSetup      = "on_setup"
	fnShutdown   = "on_shutdown"
	fnTick       = "on_tick"
	fnRender     = "on_render"
	fnPress      = "on_press"
	fnDrag       = "on_drag"
	fnRelease    = "on_release"
	fnTerminate  = "on_terminate"
	fnClick      = "on_click"
	fnHitTest    = "hit_test"
	fnHover      = "on_hover"
	fnHoverEnd   = "on_hover_end"
	fnKey        = "on_key"
	fnCanAccept  = "can_accept"
	toolTable    = "tool"
	moduleGlobal = "interact"
)

// ActionInfo describes one entry of tool.actions.
type ActionInfo struct {
	Name        string
	Description string
	Key         string
}

// Info is the static description a script gives in its tool table.
type Info struct {
	// Name is the tool type id.
	Name        string
	Description string
	Path        string

	HasAccept bool
	HasCancel bool

	// Priority overrides the behaviors' capture priority when non-zero.
	Priority behavior.Priority

	// RequiresSelection is the minimum selection size to build the tool.
	RequiresSelection int

	// Properties are the tool's property defaults.
	Properties map[string]any

	// Keys are the chords the on_key callback captures.
	Keys []key.Chord

	Actions []ActionInfo
}

// PropertyNames returns the property names in sorted order.
func (i Info) PropertyNames() []string {
	names := make([]string, 0, len(i.Properties))
	for n := range i.Properties {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Inspect loads the script at path in a scratch state and reads its tool
// table.
func Inspect(path string, timeout time.Duration) (Info, error) {
	s := NewState(timeout)
	defer s.Close()

	if err := s.DoFile(path); err != nil {
		return Info{}, fmt.Errorf("load %s: %w", path, err)
	}
	info, err := readInfo(s)
	if err != nil {
		return Info{}, fmt.Errorf("%s: %w", path, err)
	}
	info.Path = path
	return info, nil
}

// readInfo reads the tool table from an executed script.
func readInfo(s *State) (Info, error) {
	tbl, ok := s.Global(toolTable).(*lua.LTable)
	if !ok {
		return Info{}, ErrNoToolTable
	}

	info := Info{
		Name:              lua.LVAsString(tbl.RawGetString("name")),
		Description:       lua.LVAsString(tbl.RawGetString("description")),
		HasAccept:         lua.LVAsBool(tbl.RawGetString("accept")),
		HasCancel:         lua.LVAsBool(tbl.RawGetString("cancel")),
		Priority:          behavior.Priority(lua.LVAsNumber(tbl.RawGetString("priority"))),
		RequiresSelection: int(lua.LVAsNumber(tbl.RawGetString("requires_selection"))),
		Properties:        make(map[string]any),
	}
	if info.Name == "" {
		return Info{}, ErrNoName
	}

	if props, ok := tbl.RawGetString("properties").(*lua.LTable); ok {
		var err error
		props.ForEach(func(k, v lua.LValue) {
			if err != nil {
				return
			}
			name, ok := k.(lua.LString)
			if !ok {
				err = fmt.Errorf("property key %v is not a string", k)
				return
			}
			val, ok := fromLua(v)
			if !ok {
				err = fmt.Errorf("property %s has unsupported type %s", name, v.Type())
				return
			}
			info.Properties[string(name)] = val
		})
		if err != nil {
			return Info{}, err
		}
	}

	if keys, ok := tbl.RawGetString("keys").(*lua.LTable); ok {
		for i := 1; i <= keys.Len(); i++ {
			spec := lua.LVAsString(keys.RawGetInt(i))
			c, err := key.ParseChord(spec)
			if err != nil {
				return Info{}, fmt.Errorf("keys[%d]: %w", i, err)
			}
			info.Keys = append(info.Keys, c)
		}
	}

	if actions, ok := tbl.RawGetString("actions").(*lua.LTable); ok {
		for i := 1; i <= actions.Len(); i++ {
			a, ok := actions.RawGetInt(i).(*lua.LTable)
			if !ok {
				return Info{}, fmt.Errorf("actions[%d] is not a table", i)
			}
			if a.RawGetString("run").Type() != lua.LTFunction {
				return Info{}, fmt.Errorf("actions[%d] has no run function", i)
			}
			info.Actions = append(info.Actions, ActionInfo{
				Name:        lua.LVAsString(a.RawGetString("name")),
				Description: lua.LVAsString(a.RawGetString("description")),
				Key:         lua.LVAsString(a.RawGetString("key")),
			})
		}
	}
	return info, nil
}

// fromLua converts a Lua scalar to a property value. Numbers become
// float64.
func fromLua(v lua.LValue) (any, bool) {
	switch v := v.(type) {
	case lua.LBool:
		return bool(v), true
	case lua.LNumber:
		return float64(v), true
	case lua.LString:
		return string(v), true
	default:
		return nil, false
	}
}

// toLua converts a property value to a Lua value.
func toLua(v any) lua.LValue {
	switch v := v.(type) {
	case bool:
		return lua.LBool(v)
	case int:
		return lua.LNumber(v)
	case float64:
		return lua.LNumber(v)
	case string:
		return lua.LString(v)
	default:
		return lua.LNil
	}
}
