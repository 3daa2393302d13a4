package domain

import "context"

// ExecutableTask is a unit of work run by a TaskExecutor
type ExecutableTask interface {
	// Name identifies the task in errors and progress output
	Name() string

	// Execute runs the task
	Execute(ctx context.Context) (interface{}, error)

	// IsEnabled reports whether the task should run at all
	IsEnabled() bool
}

// TaskExecutor runs independent tasks and reports the ones that failed or
// never started
type TaskExecutor interface {
	Execute(ctx context.Context, tasks []ExecutableTask) error
}

// ProgressManager creates progress trackers for long-running steps
type ProgressManager interface {
	StartTask(description string, total int) TaskProgress
	IsInteractive() bool
	Close()
}

// TaskProgress tracks the progress of a single step
type TaskProgress interface {
	Increment(n int)
	Describe(description string)
	Complete()
}
