package shader

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gogpu/naga"
	"github.com/gogpu/naga/ir"
	"github.com/gogpu/naga/spirv"
)

// ErrEmptySource is returned when the user source is blank.
var ErrEmptySource = errors.New("shader source is empty")

// ErrMissingEntryPoint is returned when the module has no fragment entry point named FragmentEntryPoint.
var ErrMissingEntryPoint = fmt.Errorf("missing @fragment entry point %q", FragmentEntryPoint)

// Validate runs the WGSL front end over the composed module and reports syntax and semantic
// diagnostics with line numbers relative to the user's source.
//
// Parameters:
//   - p: the composed program
//
// Returns:
//   - error: nil if the module compiles, otherwise the remapped diagnostic
func Validate(p Program) error {
	if strings.TrimSpace(p.Source) == "" {
		return ErrEmptySource
	}

	ast, err := naga.Parse(p.Code)
	if err != nil {
		return p.diagnostic(err)
	}
	module, err := naga.LowerWithSource(ast, p.Code)
	if err != nil {
		return p.diagnostic(fmt.Errorf("lowering error: %w", err))
	}
	if !hasFragmentEntryPoint(module) {
		return ErrMissingEntryPoint
	}

	issues, err := naga.Validate(module)
	if err != nil {
		return p.diagnostic(fmt.Errorf("validation error: %w", err))
	}
	if len(issues) > 0 {
		return p.diagnostic(fmt.Errorf("validation failed: %w", issues[0]))
	}
	if _, err := naga.GenerateSPIRV(module, spirv.Options{Version: naga.DefaultOptions().SPIRVVersion}); err != nil {
		return p.diagnostic(err)
	}
	return nil
}

// Check composes and validates source in one step.
//
// Parameters:
//   - source: the user's fragment source
//
// Returns:
//   - Program: the composed program
//   - error: nil if the module compiles, otherwise the remapped diagnostic
func Check(source string) (Program, error) {
	p := Compose(source)
	return p, Validate(p)
}

func hasFragmentEntryPoint(m *ir.Module) bool {
	for _, ep := range m.EntryPoints {
		if ep.Name == FragmentEntryPoint && ep.Stage == ir.StageFragment {
			return true
		}
	}
	return false
}

func (p Program) diagnostic(err error) error {
	return errors.New(p.Remap(err.Error()))
}
