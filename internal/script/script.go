// Package script feeds the keypad from a Lua input script during headless
// runs. The script defines a global function
//
//	function input(frame, x, y) return "right,down" end
//
// called once before every frame with the frame number (from 0) and the
// entity's position. It returns the buttons to hold for that frame as a
// comma-separated string, a table of button names, or nil/false for none.
package script

import (
	"errors"
	"fmt"

	lua "github.com/yuin/gopher-lua"

	"github.com/vovakirdan/spritemover/internal/core"
)

// ErrNoInputFunc is returned when a script does not define input().
var ErrNoInputFunc = errors.New("script: no global input function")

// Script is a loaded input script. It is not safe for concurrent use.
type Script struct {
	l  *lua.LState
	fn lua.LValue
}

// Load runs the Lua file at path and binds its input function.
func Load(path string) (*Script, error) {
	s, err := load(func(l *lua.LState) error { return l.DoFile(path) })
	if err != nil {
		return nil, fmt.Errorf("script: %s: %w", path, err)
	}
	return s, nil
}

// LoadString is Load for source held in memory.
func LoadString(src string) (*Script, error) {
	return load(func(l *lua.LState) error { return l.DoString(src) })
}

func load(run func(l *lua.LState) error) (*Script, error) {
	l := lua.NewState()
	if err := run(l); err != nil {
		l.Close()
		return nil, err
	}

	fn := l.GetGlobal("input")
	if fn.Type() != lua.LTFunction {
		l.Close()
		return nil, ErrNoInputFunc
	}
	return &Script{l: l, fn: fn}, nil
}

// Buttons calls input for one frame and returns the buttons it holds.
func (s *Script) Buttons(frame int, pos core.Point) (core.ButtonSet, error) {
	top := s.l.GetTop()
	defer s.l.SetTop(top)

	err := s.l.CallByParam(lua.P{Fn: s.fn, NRet: 1, Protect: true},
		lua.LNumber(frame), lua.LNumber(pos.X), lua.LNumber(pos.Y))
	if err != nil {
		return 0, fmt.Errorf("script: frame %d: %w", frame, err)
	}

	var held core.ButtonSet
	switch v := s.l.Get(-1).(type) {
	case *lua.LNilType:
	case lua.LBool:
		if v {
			return 0, fmt.Errorf("script: frame %d: input returned true", frame)
		}
	case lua.LString:
		held, err = core.ParseButtonSet(string(v))
	case *lua.LTable:
		v.ForEach(func(_, name lua.LValue) {
			if err != nil {
				return
			}
			var b core.Button
			if b, err = core.ParseButton(name.String()); err == nil {
				held = held.With(b)
			}
		})
	default:
		return 0, fmt.Errorf("script: frame %d: input returned %s", frame, v.Type())
	}
	if err != nil {
		return 0, fmt.Errorf("script: frame %d: %w", frame, err)
	}
	return held, nil
}

// Close releases the Lua state.
func (s *Script) Close() {
	s.l.Close()
}
