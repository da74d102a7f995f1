package workload

import (
	"log/slog"
	"math"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// exprEnv is the environment visible to workload expressions. The
// accumulator x starts at 1 and is replaced by the expression's result on
// each of the [Iterations] steps; i is the step index as a float64.
func exprEnv() map[string]any {
	return map[string]any{
		"x":    float64(1),
		"i":    float64(0),
		"sin":  math.Sin,
		"cos":  math.Cos,
		"tan":  math.Tan,
		"exp":  math.Exp,
		"log":  math.Log,
		"sqrt": math.Sqrt,
		"pow":  math.Pow,
		"pi":   math.Pi,
	}
}

// Expr compiles source into a workload. The expression must evaluate to a
// number. It is evaluated once during compilation to reject sources that
// fail at run time.
func Expr(name, source string) (Workload, error) {
	if name == "" {
		return Workload{}, ErrEmptyName.With(slog.String("source", source))
	}

	env := exprEnv()

	program, err := expr.Compile(source, expr.Env(env), expr.AsFloat64())
	if err != nil {
		return Workload{}, ErrExprCompile.Wrap(err).
			With(slog.String("workload", name), slog.String("source", source))
	}

	var machine vm.VM

	step := func() (float64, error) {
		out, err := machine.Run(program, env)
		if err != nil {
			return 0, err
		}

		v, _ := out.(float64)

		return v, nil
	}

	if _, err := step(); err != nil {
		return Workload{}, ErrExprRun.Wrap(err).
			With(slog.String("workload", name), slog.String("source", source))
	}

	return Workload{
		Name:        name,
		Description: source,
		Func: func() {
			env["x"] = float64(1)

			for i := range Iterations {
				env["i"] = float64(i)

				v, err := step()
				if err != nil {
					panic(ErrExprRun.Wrap(err).With(slog.String("workload", name)))
				}

				env["x"] = v
			}
		},
	}, nil
}
