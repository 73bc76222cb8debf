// Package shader turns user fragment source into a complete WGSL module. The user writes only the
// fragment stage; the uniform declaration is prepended and diagnostics are mapped back onto the
// user's own line numbers. The full-screen vertex stage is a separate module, so user code is free to
// use any name, including the vertex entry point's.
package shader

import (
	"strings"
)

const (
	// VertexEntryPoint is the entry point of the fixed vertex stage.
	VertexEntryPoint = "vs"

	// FragmentEntryPoint is the entry point the user source must define.
	FragmentEntryPoint = "fs"
)

// Program is a composed shader module.
type Program struct {
	// Source is the user's fragment source, as received.
	Source string

	// Code is the complete fragment module handed to the compiler.
	Code string

	// PrefixLines is the number of lines placed in front of Source inside Code.
	PrefixLines int
}

// Prefix returns the text placed in front of every user source.
//
// Returns:
//   - string: the uniform declaration, newline terminated
func Prefix() string {
	return strings.TrimRight(UniformsSource, "\n") + "\n\n"
}

// Compose prepends the fixed uniform declaration to the user's fragment source.
//
// Parameters:
//   - source: the user's fragment source
//
// Returns:
//   - Program: the composed module
func Compose(source string) Program {
	prefix := Prefix()
	return Program{
		Source:      source,
		Code:        prefix + source,
		PrefixLines: strings.Count(prefix, "\n"),
	}
}

// UserLine converts a line number in Code to the matching line number in Source.
//
// Parameters:
//   - line: a 1-based line number in the composed module
//
// Returns:
//   - int: the 1-based line in the user's source
//   - bool: false if the line falls inside the prefix
func (p Program) UserLine(line int) (int, bool) {
	l := line - p.PrefixLines
	if l < 1 {
		return line, false
	}
	return l, true
}
