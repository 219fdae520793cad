package pipeline

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/nao1215/emailscout/internal/model"
)

// mockStep is a test helper that implements the Step interface.
type mockStep struct {
	name      string
	doFunc    func(ctx context.Context, job *Job) error
	callCount int
}

// Do implements Step.Do.
func (m *mockStep) Do(ctx context.Context, job *Job) error {
	m.callCount++
	if m.doFunc != nil {
		return m.doFunc(ctx, job)
	}
	return nil
}

// Name implements Step.Name.
func (m *mockStep) Name() string {
	return m.name
}

// TestPipelineNew tests the Pipeline constructor.
func TestPipelineNew(t *testing.T) {
	t.Parallel()

	p := New()
	if p == nil {
		t.Fatal("expected non-nil pipeline")
	}
	if len(p.StepNames()) != 0 {
		t.Errorf("expected 0 steps, got %v", p.StepNames())
	}
	if p.logger == nil {
		t.Error("expected default logger")
	}
}

// TestPipelineAddSteps tests adding steps to the pipeline.
func TestPipelineAddSteps(t *testing.T) {
	t.Parallel()

	p := New(WithLogger(discardLogger()))
	p.AddSteps(&mockStep{name: "first"})
	p.AddSteps(&mockStep{name: "second"}, &mockStep{name: "third"})

	if diff := cmp.Diff([]string{"first", "second", "third"}, p.StepNames()); diff != "" {
		t.Errorf("StepNames() mismatch (-want +got):\n%s", diff)
	}
}

// TestPipelineExecute tests step sequencing.
func TestPipelineExecute(t *testing.T) {
	t.Parallel()

	t.Run("runs all steps in order", func(t *testing.T) {
		t.Parallel()

		var order []string
		record := func(name string) *mockStep {
			return &mockStep{name: name, doFunc: func(_ context.Context, _ *Job) error {
				order = append(order, name)
				return nil
			}}
		}
		p := New(WithLogger(discardLogger()))
		p.AddSteps(record("a"), record("b"), record("c"))

		job := NewJob(model.CompanyRecord{Index: 1, Name: "Acme GmbH"})
		if err := p.Execute(context.Background(), job); err != nil {
			t.Fatalf("Execute() error = %v", err)
		}
		if diff := cmp.Diff([]string{"a", "b", "c"}, order); diff != "" {
			t.Errorf("execution order mismatch (-want +got):\n%s", diff)
		}
		if diff := cmp.Diff([]string{"a", "b", "c"}, job.Steps); diff != "" {
			t.Errorf("job.Steps mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("stops after a step settles the job", func(t *testing.T) {
		t.Parallel()

		settle := &mockStep{name: "settle", doFunc: func(_ context.Context, job *Job) error {
			job.settle(model.NoEmail, model.StatusEmptyLine, model.StatusEmptyLine)
			return nil
		}}
		after := &mockStep{name: "after"}
		p := New(WithLogger(discardLogger()))
		p.AddSteps(settle, after)

		job := NewJob(model.CompanyRecord{Index: 1})
		if err := p.Execute(context.Background(), job); err != nil {
			t.Fatalf("Execute() error = %v", err)
		}
		if after.callCount != 0 {
			t.Errorf("step after a settled job ran %d times", after.callCount)
		}
	})

	t.Run("returns the first step error", func(t *testing.T) {
		t.Parallel()

		wantErr := errors.New("lookup failed")
		failing := &mockStep{name: "failing", doFunc: func(context.Context, *Job) error { return wantErr }}
		after := &mockStep{name: "after"}
		p := New(WithLogger(discardLogger()))
		p.AddSteps(failing, after)

		err := p.Execute(context.Background(), NewJob(model.CompanyRecord{Name: "Acme"}))
		if !errors.Is(err, wantErr) {
			t.Errorf("Execute() error = %v, want %v", err, wantErr)
		}
		if after.callCount != 0 {
			t.Error("steps after a failure should not run")
		}
	})

	t.Run("respects cancellation", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		step := &mockStep{name: "never"}
		p := New(WithLogger(discardLogger()))
		p.AddSteps(step)

		err := p.Execute(ctx, NewJob(model.CompanyRecord{Name: "Acme"}))
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Execute() error = %v, want context.Canceled", err)
		}
		if step.callCount != 0 {
			t.Error("no step should run after cancellation")
		}
	})
}
