package script

import (
	"context"
	"errors"
	"fmt"
	"os"

	starlarkjson "go.starlark.net/lib/json"
	starlarkmath "go.starlark.net/lib/math"
	starlarktime "go.starlark.net/lib/time"
	"go.starlark.net/starlark"
	"go.starlark.net/starlarkstruct"

	"github.com/sameehj/scriptkit/pkg/exec"
)

// Names of the modules a script can be given.
const (
	ModuleJSON   = "json"
	ModuleMath   = "math"
	ModuleTime   = "time"
	ModuleStruct = "struct"
	ModuleEnv    = "env"
	ModuleSh     = "sh"
)

// DefaultModules lists every available module.
var DefaultModules = []string{ModuleJSON, ModuleMath, ModuleTime, ModuleStruct, ModuleEnv, ModuleSh}

const contextKey = "scriptkit.context"

// Modules builds the predeclared module set named by names. executor backs
// the sh module and may be nil when sh is not requested.
func Modules(names []string, executor *exec.SafeExecutor) (starlark.StringDict, error) {
	out := make(starlark.StringDict, len(names))
	for _, name := range names {
		switch name {
		case ModuleJSON:
			out[name] = starlarkjson.Module
		case ModuleMath:
			out[name] = starlarkmath.Module
		case ModuleTime:
			out[name] = starlarktime.Module
		case ModuleStruct:
			out[name] = starlark.NewBuiltin("struct", starlarkstruct.Make)
		case ModuleEnv:
			out[name] = &starlarkstruct.Module{
				Name: ModuleEnv,
				Members: starlark.StringDict{
					"get": starlark.NewBuiltin("env.get", envGet),
				},
			}
		case ModuleSh:
			if executor == nil {
				return nil, errors.New("sh module requires an executor")
			}
			out[name] = &starlarkstruct.Module{
				Name: ModuleSh,
				Members: starlark.StringDict{
					"run": starlark.NewBuiltin("sh.run", shRun(executor)),
				},
			}
		default:
			return nil, fmt.Errorf("unknown script module %q", name)
		}
	}
	return out, nil
}

func envGet(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var name string
	var def starlark.Value = starlark.None
	if err := starlark.UnpackArgs(b.Name(), args, kwargs, "name", &name, "default?", &def); err != nil {
		return nil, err
	}
	if v, ok := os.LookupEnv(name); ok {
		return starlark.String(v), nil
	}
	return def, nil
}

// shRun implements sh.run(cmd, *args). The result is a struct with stdout,
// stderr, code and truncated fields; blocked commands and timeouts fail the
// script.
func shRun(executor *exec.SafeExecutor) func(*starlark.Thread, *starlark.Builtin, starlark.Tuple, []starlark.Tuple) (starlark.Value, error) {
	return func(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
		if len(kwargs) > 0 {
			return nil, fmt.Errorf("%s: unexpected keyword arguments", b.Name())
		}
		if len(args) == 0 {
			return nil, fmt.Errorf("%s: missing command", b.Name())
		}
		strs := make([]string, len(args))
		for i, arg := range args {
			s, ok := starlark.AsString(arg)
			if !ok {
				return nil, fmt.Errorf("%s: argument %d is %s, want string", b.Name(), i+1, arg.Type())
			}
			strs[i] = s
		}

		ctx, _ := thread.Local(contextKey).(context.Context)
		if ctx == nil {
			ctx = context.Background()
		}
		res, err := executor.Run(ctx, strs[0], strs[1:])
		var truncated exec.OutputTruncatedError
		if err != nil && !errors.As(err, &truncated) {
			return nil, fmt.Errorf("%s: %w", b.Name(), err)
		}
		return starlarkstruct.FromStringDict(starlarkstruct.Default, starlark.StringDict{
			"stdout":    starlark.String(res.Stdout),
			"stderr":    starlark.String(res.Stderr),
			"code":      starlark.MakeInt(res.Code),
			"truncated": starlark.Bool(err != nil),
		}), nil
	}
}
