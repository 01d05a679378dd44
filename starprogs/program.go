package starprogs

import (
	"github.com/reusee/allpaths/sessions"
	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

// Program is a starlark script usable as an exploration target. The
// script calls choose(n) for every nondeterministic decision and
// emit(value) to record output. It is compiled once and evaluated
// afresh on every run.
type Program struct {
	name string
	prog *starlark.Program
}

var fileOptions = &syntax.FileOptions{
	Set:             true,
	While:           true,
	TopLevelControl: true,
	GlobalReassign:  true,
}

var predeclaredNames = map[string]bool{
	"choose": true,
	"emit":   true,
}

// Compile parses and compiles a script. src follows the conventions of
// starlark.SourceProgramOptions: nil to read the named file, or the
// source as string / []byte / io.Reader.
func Compile(name string, src any) (*Program, error) {
	_, prog, err := starlark.SourceProgramOptions(fileOptions, name, src, func(name string) bool {
		return predeclaredNames[name]
	})
	if err != nil {
		return nil, err
	}
	return &Program{
		name: name,
		prog: prog,
	}, nil
}

// Runner adapts the program to the exploration driver. Every
// invocation evaluates the script on a fresh thread with fresh
// globals; emit, if not nil, receives each emitted value converted to
// its Go form.
func (p *Program) Runner(emit func(value any)) sessions.Program {
	return func(choose sessions.Choose) error {
		thread := &starlark.Thread{
			Name: p.name,
		}
		predeclared := starlark.StringDict{
			// choose must surface as a plain int to the script, and a
			// choice-port error must unwind the evaluation, so it is
			// built by hand instead of wrapping a Go function
			"choose": starlark.NewBuiltin("choose", func(
				thread *starlark.Thread,
				builtin *starlark.Builtin,
				args starlark.Tuple,
				kwargs []starlark.Tuple,
			) (starlark.Value, error) {
				var n int
				if err := starlark.UnpackPositionalArgs("choose", args, kwargs, 1, &n); err != nil {
					return nil, err
				}
				index, err := choose(n)
				if err != nil {
					return nil, err
				}
				return starlark.MakeInt(index), nil
			}),
			"emit": starlark.NewBuiltin("emit", func(
				thread *starlark.Thread,
				builtin *starlark.Builtin,
				args starlark.Tuple,
				kwargs []starlark.Tuple,
			) (starlark.Value, error) {
				var value starlark.Value
				if err := starlark.UnpackPositionalArgs("emit", args, kwargs, 1, &value); err != nil {
					return nil, err
				}
				if emit != nil {
					emit(FromStarlark(value))
				}
				return starlark.None, nil
			}),
		}
		_, err := p.prog.Init(thread, predeclared)
		return err
	}
}
