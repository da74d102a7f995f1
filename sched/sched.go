// Package sched runs task bodies on dedicated, optionally real-time, OS
// threads.
//
// A [Scheduler] creates named tasks at a priority and later runs each task's
// body once per [Scheduler.Schedule] call, asynchronously to the caller.
// [Aux] is the threaded implementation; [Inline] runs bodies synchronously and
// exists for tests and single-threaded hosts. [Run] drives a periodic callback
// on a locked thread, the way an audio host calls its render function.
package sched

import (
	"github.com/ardnew/ccnt/pkg"
)

// Task is a handle returned by [Scheduler.CreateTask].
type Task interface {
	Name() string
	Priority() int
}

// Scheduler creates tasks and runs them on request.
type Scheduler interface {
	// CreateTask registers body to run at the given priority. A priority of
	// zero or less runs the task under the normal time-sharing policy.
	CreateTask(body func(), priority int, name string) (Task, error)
	// Schedule requests one asynchronous run of the task's body.
	// Scheduling a task that is already pending does not queue a second run.
	Schedule(t Task) error
	// Close stops every task and waits for running bodies to return.
	Close() error
}

// MaxPriority is the highest real-time priority accepted by [Aux].
const MaxPriority = 99

// Errors returned by schedulers.
var (
	ErrClosed      = pkg.NewError("scheduler closed")
	ErrUnknownTask = pkg.NewError("task not created by this scheduler")
	ErrPriority    = pkg.NewError("invalid task priority")
	ErrThreadInit  = pkg.NewError("task thread initialization failed")
	ErrPeriod      = pkg.NewError("period must be positive")
)

type task struct {
	name     string
	priority int
	body     func()
	trigger  chan struct{}
}

func (t *task) Name() string  { return t.name }
func (t *task) Priority() int { return t.priority }
