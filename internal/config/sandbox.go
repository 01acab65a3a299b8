package config

import (
	lua "github.com/yuin/gopher-lua"
)

// blockedGlobals are removed from every rules VM. A rules file only has to
// build a table; it never needs to run commands, touch files or load code.
var blockedGlobals = []string{
	"os",
	"io",
	"debug",
	"package",
	"require",
	"dofile",
	"loadfile",
	"load",
	"loadstring",
	"module",
	"collectgarbage",
	"rawset",
	"rawget",
	"setfenv",
	"getfenv",
}

// sandboxLuaVM removes every global listed in blockedGlobals.
// string, table, math and the basic functions (type, tostring, pairs, ...) remain.
func sandboxLuaVM(L *lua.LState) {
	for _, name := range blockedGlobals {
		L.SetGlobal(name, lua.LNil)
	}
}

// newSandboxedVM creates a new Lua VM with sandboxing applied.
func newSandboxedVM() *lua.LState {
	L := lua.NewState()
	sandboxLuaVM(L)
	return L
}
