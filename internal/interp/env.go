package interp

import "fortasr/internal/asr"

// env binds every Variable symbol live in the current call to a mutable
// cell. A subroutine callee's argument cells are set up by the caller — directly
// aliasing the caller's own cells for bare-variable arguments — so that
// an out/inout parameter's mutation is visible after the call returns,
// matching Fortran's pass-by-reference argument semantics.
type env struct {
	vars map[asr.SymbolID]*Value
}

func newEnv() *env {
	return &env{vars: make(map[asr.SymbolID]*Value)}
}

func (e *env) cell(id asr.SymbolID) *Value {
	if v, ok := e.vars[id]; ok {
		return v
	}
	v := new(Value)
	e.vars[id] = v
	return v
}
