package service

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ludo-technologies/schemascan/domain"
	"github.com/ludo-technologies/schemascan/internal/config"
	"github.com/ludo-technologies/schemascan/internal/testutil"
)

// stubTask runs fn under a fixed name
type stubTask struct {
	name    string
	enabled bool
	fn      func(ctx context.Context) error
}

func (t *stubTask) Name() string    { return t.name }
func (t *stubTask) IsEnabled() bool { return t.enabled }
func (t *stubTask) Execute(ctx context.Context) (interface{}, error) {
	if t.fn == nil {
		return nil, nil
	}
	return nil, t.fn(ctx)
}

// checkpointTasks wraps every catalogue checkpoint for one schema
func checkpointTasks(t *testing.T, schema *domain.Schema) ([]domain.ExecutableTask, []domain.CheckpointResult) {
	t.Helper()
	cfg := config.DefaultConfig()
	run := newAnalysisRun(cfg, schema)
	assembler := NewCheckpointAssembler(&cfg.Checkpoints, nil)

	defs := checkpointCatalogue()
	results := make([]domain.CheckpointResult, len(defs))
	tasks := make([]domain.ExecutableTask, len(defs))
	for i, def := range defs {
		tasks[i] = &checkpointTask{
			def:       def,
			run:       run,
			assembler: assembler,
			enabled:   true,
			store:     func(r domain.CheckpointResult) { results[i] = r },
		}
	}
	return tasks, results
}

func TestNewCheckpointExecutor_Settings(t *testing.T) {
	e := NewCheckpointExecutor(nil, nil)
	assert.Equal(t, DefaultMaxConcurrency, e.workers)
	assert.Equal(t, DefaultTimeout, e.deadline)
	assert.False(t, e.progress.IsInteractive())

	e = NewCheckpointExecutor(&config.PerformanceConfig{MaxGoroutines: 2, TimeoutSeconds: 30}, nil)
	assert.Equal(t, 2, e.workers)
	assert.Equal(t, 30*time.Second, e.deadline)

	e = NewCheckpointExecutor(&config.PerformanceConfig{MaxGoroutines: -1, TimeoutSeconds: 0}, nil)
	assert.Equal(t, DefaultMaxConcurrency, e.workers)
	assert.Equal(t, DefaultTimeout, e.deadline)
}

func TestCheckpointExecutor_RunsEveryCheckpoint(t *testing.T) {
	tasks, results := checkpointTasks(t, testutil.Chain("Page", "Section", "Block", "Media"))

	e := NewCheckpointExecutor(&config.PerformanceConfig{MaxGoroutines: 2}, nil)
	require.NoError(t, e.Execute(context.Background(), tasks))

	for i, def := range checkpointCatalogue() {
		assert.Equal(t, def.ID, results[i].ID)
		assert.NotEmpty(t, results[i].Findings, def.ID)
		assert.False(t, results[i].Degraded, def.ID)
	}
}

func TestCheckpointExecutor_FailingEvaluationDegrades(t *testing.T) {
	cfg := config.DefaultConfig()
	run := newAnalysisRun(cfg, testutil.Chain("A", "B"))
	assembler := NewCheckpointAssembler(&cfg.Checkpoints, nil)

	var got []domain.CheckpointResult
	var mu sync.Mutex
	store := func(r domain.CheckpointResult) {
		mu.Lock()
		defer mu.Unlock()
		got = append(got, r)
	}
	tasks := []domain.ExecutableTask{
		&checkpointTask{
			def: checkpointDefinition{
				ID:    "broken",
				Title: "Broken",
				Evaluate: func(*analysisRun) (checkpointEvaluation, error) {
					return checkpointEvaluation{}, errors.New("detector unavailable")
				},
			},
			run: run, assembler: assembler, enabled: true, store: store,
		},
		&checkpointTask{
			def: checkpointDefinition{
				ID:    "exploding",
				Title: "Exploding",
				Evaluate: func(*analysisRun) (checkpointEvaluation, error) {
					panic("index out of range")
				},
			},
			run: run, assembler: assembler, enabled: true, store: store,
		},
	}

	// Degraded checkpoints are results, not execution failures
	require.NoError(t, NewCheckpointExecutor(nil, nil).Execute(context.Background(), tasks))
	require.Len(t, got, 2)
	for _, r := range got {
		assert.True(t, r.Degraded, r.ID)
		assert.Equal(t, domain.StatusWarning, r.Status, r.ID)
	}
}

func TestCheckpointExecutor_DisabledCheckpointSkipped(t *testing.T) {
	tasks, results := checkpointTasks(t, testutil.Chain("A", "B"))
	tasks[0].(*checkpointTask).enabled = false

	require.NoError(t, NewCheckpointExecutor(nil, nil).Execute(context.Background(), tasks))
	assert.Empty(t, results[0].ID)
	assert.NotEmpty(t, results[1].ID)
}

func TestCheckpointExecutor_NoEnabledTasks(t *testing.T) {
	progress := &recordingProgress{}
	e := NewCheckpointExecutor(nil, progress)
	require.NoError(t, e.Execute(context.Background(), []domain.ExecutableTask{
		&stubTask{name: "off"},
	}))
	assert.Zero(t, progress.started.Load())
}

func TestCheckpointExecutor_FailuresInTaskOrder(t *testing.T) {
	tasks := []domain.ExecutableTask{
		&stubTask{name: "first", enabled: true, fn: func(context.Context) error {
			time.Sleep(20 * time.Millisecond)
			return errors.New("first failed")
		}},
		&stubTask{name: "ok", enabled: true},
		&stubTask{name: "panics", enabled: true, fn: func(context.Context) error {
			panic("boom")
		}},
	}

	err := NewCheckpointExecutor(&config.PerformanceConfig{MaxGoroutines: 3}, nil).Execute(context.Background(), tasks)
	require.Error(t, err)

	var execErr *ExecutionError
	require.True(t, errors.As(err, &execErr))
	require.Len(t, execErr.Failures, 2)
	assert.Equal(t, "first", execErr.Failures[0].TaskName)
	assert.Equal(t, "panics", execErr.Failures[1].TaskName)

	var panicErr *PanicError
	require.True(t, errors.As(err, &panicErr))
	assert.Equal(t, "boom", panicErr.Value)
	assert.NotEmpty(t, panicErr.Stack)
	assert.Contains(t, err.Error(), "2 tasks failed")
}

func TestCheckpointExecutor_DeadlineReportsQueuedTasks(t *testing.T) {
	var ran atomic.Int32
	blocking := &stubTask{name: "slow", enabled: true, fn: func(ctx context.Context) error {
		ran.Add(1)
		<-ctx.Done()
		return nil
	}}
	queued := &stubTask{name: "queued", enabled: true, fn: func(context.Context) error {
		ran.Add(1)
		return nil
	}}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()

	e := NewCheckpointExecutor(&config.PerformanceConfig{MaxGoroutines: 1}, nil)
	err := e.Execute(ctx, []domain.ExecutableTask{blocking, queued})
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
	assert.Equal(t, int32(1), ran.Load())

	var execErr *ExecutionError
	require.True(t, errors.As(err, &execErr))
	require.Len(t, execErr.Failures, 1)
	assert.Equal(t, "queued", execErr.Failures[0].TaskName)
}

func TestCheckpointExecutor_CancelledBeforeStart(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	tasks, results := checkpointTasks(t, testutil.Chain("A", "B"))
	err := NewCheckpointExecutor(nil, nil).Execute(ctx, tasks)
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
	for _, r := range results {
		assert.Empty(t, r.ID)
	}
}

func TestCheckpointExecutor_ConcurrencyLimit(t *testing.T) {
	var running, peak atomic.Int32
	tasks := make([]domain.ExecutableTask, 8)
	for i := range tasks {
		tasks[i] = &stubTask{name: "t", enabled: true, fn: func(context.Context) error {
			n := running.Add(1)
			for {
				p := peak.Load()
				if n <= p || peak.CompareAndSwap(p, n) {
					break
				}
			}
			time.Sleep(10 * time.Millisecond)
			running.Add(-1)
			return nil
		}}
	}

	require.NoError(t, NewCheckpointExecutor(&config.PerformanceConfig{MaxGoroutines: 2}, nil).Execute(context.Background(), tasks))
	assert.LessOrEqual(t, peak.Load(), int32(2))
}

func TestCheckpointExecutor_ReportsProgress(t *testing.T) {
	tasks, _ := checkpointTasks(t, testutil.Chain("A", "B"))
	progress := &recordingProgress{}

	require.NoError(t, NewCheckpointExecutor(nil, progress).Execute(context.Background(), tasks))
	assert.Equal(t, int32(1), progress.started.Load())
	assert.Equal(t, int32(len(tasks)), progress.increments.Load())
	assert.True(t, progress.completed.Load())

	described := progress.describedNames()
	assert.Len(t, described, len(tasks))
	assert.Contains(t, described, checkpointCatalogue()[0].ID)
}

func TestAuditService_CancelledAuditDegradesEveryCheckpoint(t *testing.T) {
	cfg := config.DefaultConfig()
	service := NewAuditService(cfg, NewCheckpointExecutor(&cfg.Performance, nil), nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	response, err := service.Audit(ctx, domain.AuditRequest{Schema: testutil.Chain("A", "B", "C")})
	require.NoError(t, err)

	require.NotEmpty(t, response.Checkpoints)
	for _, cp := range response.Checkpoints {
		assert.True(t, cp.Degraded, cp.ID)
		assert.Equal(t, errCheckpointNotRun.Error(), cp.Error, cp.ID)
	}
	require.NotEmpty(t, response.Warnings)
	assert.Contains(t, response.Warnings[0], "checkpoint execution incomplete")
	assert.Len(t, response.Dimensions, 4)
}

func TestExecutionError_Message(t *testing.T) {
	assert.Equal(t, "no errors", (&ExecutionError{}).Error())

	one := &ExecutionError{Failures: []TaskError{{TaskName: "a", Err: errors.New("x")}}}
	assert.Equal(t, "[a] x", one.Error())

	sentinel := errors.New("y")
	two := &ExecutionError{Failures: []TaskError{
		{TaskName: "a", Err: errors.New("x")},
		{TaskName: "b", Err: sentinel},
	}}
	assert.Equal(t, "2 tasks failed: [a] x; [b] y", two.Error())
	assert.True(t, errors.Is(two, sentinel))
}

// recordingProgress counts calls from concurrent tasks
type recordingProgress struct {
	started    atomic.Int32
	increments atomic.Int32
	completed  atomic.Bool

	mu        sync.Mutex
	described []string
}

func (p *recordingProgress) StartTask(string, int) domain.TaskProgress {
	p.started.Add(1)
	return p
}
func (p *recordingProgress) IsInteractive() bool { return false }
func (p *recordingProgress) Close()              {}
func (p *recordingProgress) Increment(n int)     { p.increments.Add(int32(n)) }
func (p *recordingProgress) Complete()           { p.completed.Store(true) }
func (p *recordingProgress) Describe(name string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.described = append(p.described, name)
}

func (p *recordingProgress) describedNames() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.described...)
}
