package service

import (
	"context"
	"fmt"
	"runtime/debug"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ludo-technologies/schemascan/domain"
	"github.com/ludo-technologies/schemascan/internal/config"
)

// Fallbacks for non-positive performance settings
const (
	DefaultMaxConcurrency = 4
	DefaultTimeout        = 5 * time.Minute
)

// TaskError is the failure of one task
type TaskError struct {
	TaskName string
	Err      error
}

// Error implements the error interface
func (e TaskError) Error() string {
	return fmt.Sprintf("[%s] %v", e.TaskName, e.Err)
}

// Unwrap returns the underlying error
func (e TaskError) Unwrap() error {
	return e.Err
}

// ExecutionError lists the tasks that failed or never started, in task order
type ExecutionError struct {
	Failures []TaskError
}

// Error implements the error interface
func (e *ExecutionError) Error() string {
	switch len(e.Failures) {
	case 0:
		return "no errors"
	case 1:
		return e.Failures[0].Error()
	}
	parts := make([]string, len(e.Failures))
	for i, f := range e.Failures {
		parts[i] = f.Error()
	}
	return fmt.Sprintf("%d tasks failed: %s", len(e.Failures), strings.Join(parts, "; "))
}

// Unwrap exposes every failure to errors.Is and errors.As
func (e *ExecutionError) Unwrap() []error {
	errs := make([]error, len(e.Failures))
	for i, f := range e.Failures {
		errs[i] = f
	}
	return errs
}

// PanicError is returned for a task that panicked
type PanicError struct {
	Value interface{}
	Stack []byte
}

// Error implements the error interface
func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.Value)
}

// CheckpointExecutor runs checkpoint tasks on a bounded pool of goroutines
// under one deadline for the whole batch
type CheckpointExecutor struct {
	workers  int
	deadline time.Duration
	progress domain.ProgressManager
}

// NewCheckpointExecutor creates an executor from the performance settings.
// pm may be nil.
func NewCheckpointExecutor(cfg *config.PerformanceConfig, pm domain.ProgressManager) *CheckpointExecutor {
	e := &CheckpointExecutor{
		workers:  DefaultMaxConcurrency,
		deadline: DefaultTimeout,
		progress: pm,
	}
	if cfg != nil {
		if cfg.MaxGoroutines > 0 {
			e.workers = cfg.MaxGoroutines
		}
		if cfg.TimeoutSeconds > 0 {
			e.deadline = time.Duration(cfg.TimeoutSeconds) * time.Second
		}
	}
	if e.progress == nil {
		e.progress = silentProgress{}
	}
	return e
}

// Execute runs the enabled tasks. A failing or panicking task does not stop
// the others; tasks still queued when ctx or the deadline ends are reported
// with the context's error.
func (e *CheckpointExecutor) Execute(ctx context.Context, tasks []domain.ExecutableTask) error {
	var enabled []domain.ExecutableTask
	for _, t := range tasks {
		if t.IsEnabled() {
			enabled = append(enabled, t)
		}
	}
	if len(enabled) == 0 {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, e.deadline)
	defer cancel()

	step := e.progress.StartTask("Running checkpoints", len(enabled))
	defer step.Complete()

	// Each goroutine owns its slot
	outcomes := make([]error, len(enabled))
	started := make([]bool, len(enabled))

	var g errgroup.Group
	g.SetLimit(e.workers)
	for i, t := range enabled {
		g.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}
			started[i] = true
			step.Describe(t.Name())
			outcomes[i] = runRecovered(ctx, t)
			step.Increment(1)
			return nil
		})
	}
	_ = g.Wait()

	var failures []TaskError
	for i, t := range enabled {
		err := outcomes[i]
		if !started[i] {
			err = ctx.Err()
		}
		if err != nil {
			failures = append(failures, TaskError{TaskName: t.Name(), Err: err})
		}
	}
	if len(failures) > 0 {
		return &ExecutionError{Failures: failures}
	}
	return nil
}

// runRecovered executes a task, converting a panic into a PanicError
func runRecovered(ctx context.Context, t domain.ExecutableTask) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &PanicError{Value: r, Stack: debug.Stack()}
		}
	}()
	_, err = t.Execute(ctx)
	return err
}
