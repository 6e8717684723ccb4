// Package luaiface exposes an emulator's register/memory/breakpoint
// surface as plain Lua global functions, the Go analogue of
// original_source/core/automation/lua/src/emulator/lua_emulator.h's
// LuaEmulator::registerType. gopher-lua has no reflection-based usertype
// binding like sol2, so each sol2 "new_usertype<Emulator>(...)" entry or
// "lua.set_function(...)" call becomes one named global function here.
package luaiface

import (
	"strings"

	lua "github.com/yuin/gopher-lua"
)

// Emulator is the slice of instance behavior a Lua script can reach.
// pkg/automation.Instance satisfies this directly.
type Emulator interface {
	ReadMemory(addr uint16) byte
	WriteMemory(addr uint16, v byte)
	GetRegister(name string) (uint16, bool)
	SetRegister(name string, v uint16) bool
	Paused() bool
	Pause()
	Resume()
	AddBreakpoint(addr uint16) uint16
	RemoveBreakpoint(id uint16) bool
}

// Register binds emu's surface as globals on L. print is redirected to
// printFn instead of gopher-lua's default stdout writer, since script
// output needs to come back as the CLI/HTTP response body rather than go
// to the server process's own stdout.
func Register(L *lua.LState, emu Emulator, printFn func(args []string)) {
	L.SetGlobal("print", L.NewFunction(func(L *lua.LState) int {
		n := L.GetTop()
		parts := make([]string, n)
		for i := 1; i <= n; i++ {
			parts[i-1] = L.ToStringMeta(L.Get(i)).String()
		}
		printFn(parts)
		return 0
	}))

	L.SetGlobal("read_memory", L.NewFunction(func(L *lua.LState) int {
		addr := uint16(L.CheckInt(1))
		L.Push(lua.LNumber(emu.ReadMemory(addr)))
		return 1
	}))

	L.SetGlobal("write_memory", L.NewFunction(func(L *lua.LState) int {
		addr := uint16(L.CheckInt(1))
		value := byte(L.CheckInt(2))
		emu.WriteMemory(addr, value)
		return 0
	}))

	L.SetGlobal("get_register", L.NewFunction(func(L *lua.LState) int {
		name := strings.ToUpper(L.CheckString(1))
		v, ok := emu.GetRegister(name)
		if !ok {
			L.RaiseError("unknown register %q", name)
			return 0
		}
		L.Push(lua.LNumber(v))
		return 1
	}))

	L.SetGlobal("set_register", L.NewFunction(func(L *lua.LState) int {
		name := strings.ToUpper(L.CheckString(1))
		v := uint16(L.CheckInt(2))
		if !emu.SetRegister(name, v) {
			L.RaiseError("unknown register %q", name)
		}
		return 0
	}))

	L.SetGlobal("is_paused", L.NewFunction(func(L *lua.LState) int {
		L.Push(lua.LBool(emu.Paused()))
		return 1
	}))

	L.SetGlobal("pause", L.NewFunction(func(L *lua.LState) int {
		emu.Pause()
		return 0
	}))

	L.SetGlobal("resume", L.NewFunction(func(L *lua.LState) int {
		emu.Resume()
		return 0
	}))

	L.SetGlobal("add_breakpoint", L.NewFunction(func(L *lua.LState) int {
		addr := uint16(L.CheckInt(1))
		L.Push(lua.LNumber(emu.AddBreakpoint(addr)))
		return 1
	}))

	L.SetGlobal("remove_breakpoint", L.NewFunction(func(L *lua.LState) int {
		id := uint16(L.CheckInt(1))
		L.Push(lua.LBool(emu.RemoveBreakpoint(id)))
		return 1
	}))
}
