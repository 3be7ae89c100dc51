// Package luatool builds interactive tools from Lua scripts.
//
// A script declares a global `tool` table and any of a fixed set of
// callback functions. The tool's input behaviors are chosen from the
// callbacks it defines: on_press/on_drag/on_release give a click-drag,
// on_click a single click, on_hover a hover, and on_key together with
// tool.keys a keyboard capture. Scripts reach the host through the
// `interact` module.
//
//	tool = { name = "stamp", accept = true, properties = { glyph = "*" } }
//
//	function on_click(x, y)
//	  interact.begin_undo("stamp")
//	  interact.change("stamp at " .. x .. "," .. y)
//	  interact.end_undo()
//	end
package luatool

import (
	"context"
	"fmt"
	"time"

	lua "github.com/yuin/gopher-lua"
)

// DefaultTimeout bounds a single call into a script.
const DefaultTimeout = 250 * time.Millisecond

// State wraps a gopher-lua state with the safe standard libraries and a
// per-call timeout.
//
// A State is not safe for concurrent use. Tools call into it from the
// goroutine that drives the router.
type State struct {
	L *lua.LState

	timeout time.Duration
	closed  bool

	// depth counts calls in progress. Host functions may call back into
	// the script; only the outermost call installs the timeout.
	depth int
}

// NewState creates a state with only the base, table, string and math
// libraries.
func NewState(timeout time.Duration) *State {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	openSafeLibraries(L)
	return &State{L: L, timeout: timeout}
}

// openSafeLibraries opens only libraries without host access.
func openSafeLibraries(L *lua.LState) {
	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)

	// Loading code from disk or strings would bypass the script directory.
	for _, name := range []string{"dofile", "loadfile", "load", "loadstring", "require"} {
		L.SetGlobal(name, lua.LNil)
	}
}

// DoFile executes a script file.
func (s *State) DoFile(path string) error {
	if s.closed {
		return ErrStateClosed
	}
	return s.withTimeout(func() error {
		return s.L.DoFile(path)
	})
}

// DoString executes a chunk of Lua.
func (s *State) DoString(code string) error {
	if s.closed {
		return ErrStateClosed
	}
	return s.withTimeout(func() error {
		return s.L.DoString(code)
	})
}

// HasFunc returns true if the global name is a function.
func (s *State) HasFunc(name string) bool {
	if s.closed {
		return false
	}
	return s.L.GetGlobal(name).Type() == lua.LTFunction
}

// Call calls the global function fn with args and returns its first result.
// A missing function returns LNil and no error.
func (s *State) Call(fn string, args ...lua.LValue) (lua.LValue, error) {
	if s.closed {
		return lua.LNil, ErrStateClosed
	}
	v := s.L.GetGlobal(fn)
	if v.Type() != lua.LTFunction {
		return lua.LNil, nil
	}
	ret, err := s.CallValue(v, args...)
	if err != nil {
		return lua.LNil, fmt.Errorf("%s: %w", fn, err)
	}
	return ret, nil
}

// CallValue calls a function value with args and returns its first result.
func (s *State) CallValue(fn lua.LValue, args ...lua.LValue) (lua.LValue, error) {
	if s.closed {
		return lua.LNil, ErrStateClosed
	}
	ret := lua.LValue(lua.LNil)
	err := s.withTimeout(func() error {
		if err := s.L.CallByParam(lua.P{Fn: fn, NRet: 1, Protect: true}, args...); err != nil {
			return err
		}
		ret = s.L.Get(-1)
		s.L.Pop(1)
		return nil
	})
	return ret, err
}

// RegisterModule installs funcs as the global table name.
func (s *State) RegisterModule(name string, funcs map[string]lua.LGFunction) {
	if s.closed {
		return
	}
	s.L.SetGlobal(name, s.L.SetFuncs(s.L.NewTable(), funcs))
}

// Global returns a global value.
func (s *State) Global(name string) lua.LValue {
	if s.closed {
		return lua.LNil
	}
	return s.L.GetGlobal(name)
}

// Close releases the state. It is safe to call more than once.
func (s *State) Close() {
	if s.closed {
		return
	}
	s.L.Close()
	s.closed = true
}

// withTimeout runs fn with a cancellable context installed and converts
// panics into errors.
func (s *State) withTimeout(fn func() error) (err error) {
	ctx := s.L.Context()
	if s.depth == 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(context.Background(), s.timeout)
		defer cancel()
		s.L.SetContext(ctx)
		defer s.L.RemoveContext()
	}
	s.depth++
	defer func() { s.depth-- }()

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("lua panic: %v", r)
		}
	}()
	if err := fn(); err != nil {
		if ctx != nil && ctx.Err() != nil {
			return fmt.Errorf("%w: %v", ErrTimeout, err)
		}
		return err
	}
	return nil
}
