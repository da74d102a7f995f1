// Package workload defines functions under test: named zero-argument
// callbacks whose cycle cost is measured by the profiler.
//
// The built-in workloads each run [Iterations] steps of a sine recurrence on
// a captured accumulator. The accumulator lives on the heap so the compiler
// cannot discard the loop. User workloads are compiled from expressions with
// [Expr].
package workload

import (
	"math"

	"github.com/ardnew/ccnt/pkg"
)

// Iterations is the number of loop steps run by each built-in workload.
const Iterations = 100

// Workload is a named function under test.
type Workload struct {
	Name        string
	Description string
	Func        func()
}

// Errors returned by this package.
var (
	ErrEmptyName   = pkg.NewError("workload name is empty")
	ErrNilFunc     = pkg.NewError("workload has no function")
	ErrDuplicate   = pkg.NewError("duplicate workload")
	ErrUnknown     = pkg.NewError("unknown workload")
	ErrExprCompile = pkg.NewError("failed to compile workload expression")
	ErrExprRun     = pkg.NewError("failed to evaluate workload expression")
)

// Names of the built-in workloads.
const (
	NameEmpty    = "empty"
	NameSin      = "sin"
	NameSinf     = "sinf"
	NameSinfPoly = "sinf_poly"
)

// Empty returns a workload that does nothing. Its cost is the measurement
// overhead.
func Empty() Workload {
	return Workload{
		Name:        NameEmpty,
		Description: "no-op baseline",
		Func:        func() {},
	}
}

// Sin returns a workload iterating a = sin(a) in float64.
func Sin() Workload {
	acc := new(float64)

	return Workload{
		Name:        NameSin,
		Description: "math.Sin recurrence, float64",
		Func: func() {
			*acc = 1
			for range Iterations {
				*acc = math.Sin(*acc)
			}
		},
	}
}

// Sinf returns a workload iterating a = sin(a) with a float32 accumulator.
func Sinf() Workload {
	acc := new(float32)

	return Workload{
		Name:        NameSinf,
		Description: "math.Sin recurrence, float32 accumulator",
		Func: func() {
			*acc = 1
			for range Iterations {
				*acc = float32(math.Sin(float64(*acc)))
			}
		},
	}
}

// SinfPoly returns a workload iterating a = sin(a) with a float32
// polynomial approximation.
func SinfPoly() Workload {
	acc := new(float32)

	return Workload{
		Name:        NameSinfPoly,
		Description: "polynomial sine recurrence, float32",
		Func: func() {
			*acc = 1
			for range Iterations {
				*acc = sinfPoly(*acc)
			}
		},
	}
}

// Builtins returns fresh instances of the built-in workloads in their
// canonical order.
func Builtins() []Workload {
	return []Workload{Empty(), Sin(), Sinf(), SinfPoly()}
}
