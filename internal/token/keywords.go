package token

import "strings"

// reserved is the set of words a Fortran identifier is still allowed to
// shadow lexically (Fortran has no truly reserved words — "if" is a valid
// variable name outside statement-keyword position) but that the parser
// treats specially at statement-start and in a handful of fixed
// grammar slots. The parser consults it through IsReservedWord to tell an
// optional loop label from a keyword.
var reserved = map[string]struct{}{
	"program": {}, "module": {}, "subroutine": {}, "function": {},
	"end": {}, "use": {}, "only": {}, "contains": {}, "implicit": {}, "none": {},
	"type": {}, "interface": {}, "procedure": {},
	"integer": {}, "real": {}, "complex": {}, "logical": {}, "character": {},
	"dimension": {}, "intent": {}, "in": {}, "out": {}, "inout": {},
	"parameter": {}, "save": {}, "pointer": {}, "allocatable": {},
	"public": {}, "private": {}, "external": {}, "intrinsic": {}, "optional": {},
	"value": {}, "target": {}, "bind": {},
	"if": {}, "then": {}, "else": {}, "elseif": {}, "endif": {},
	"do": {}, "while": {}, "concurrent": {}, "enddo": {},
	"select": {}, "case": {}, "default": {}, "endselect": {},
	"call": {}, "print": {}, "return": {}, "stop": {}, "error": {},
	"exit": {}, "cycle": {}, "goto": {}, "continue": {}, "assert": {},
	"allocate": {}, "deallocate": {},
	"true": {}, "false": {}, "and": {}, "or": {}, "not": {}, "eqv": {}, "neqv": {},
}

// IsReservedWord reports whether name (compared case-insensitively) is one
// of Fortran's statement/attribute keywords.
func IsReservedWord(name string) bool {
	_, ok := reserved[strings.ToLower(name)]
	return ok
}
