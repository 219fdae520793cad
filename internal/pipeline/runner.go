package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/nao1215/emailscout/internal/checkpoint"
	"github.com/nao1215/emailscout/internal/ledger"
	"github.com/nao1215/emailscout/internal/metrics"
	"github.com/nao1215/emailscout/internal/model"
)

// DefaultDelay is the pause after each company.
const DefaultDelay = 2 * time.Second

// Checkpointer persists the name of the last committed company.
// *checkpoint.File implements it.
type Checkpointer interface {
	Load() (string, error)
	Save(company string) error
}

// Event describes one committed input line.
type Event struct {
	// Position is the 1-based position of the line in the list.
	Position int

	// Total is the number of lines in the list.
	Total int

	// Row is the ledger outcome for the line.
	Row model.LedgerRow

	// Skipped is true when the line went to the skip report.
	Skipped bool
}

// Summary reports what a run did.
type Summary struct {
	// Total is the number of input lines.
	Total int

	// StartIndex is the 0-based index processing started at.
	StartIndex int

	// ResumeMissing is true when the checkpoint named a company absent from
	// the list and the run started from the beginning.
	ResumeMissing bool

	// Committed counts lines handled in this run.
	Committed int

	// Statuses counts handled lines by ledger status.
	Statuses map[string]int

	// Skipped lists the skip report entries in input order.
	Skipped []model.SkipEntry

	// ExistingDuplicates names companies the ledger already held more than
	// once when the run started.
	ExistingDuplicates []string

	// Interrupted is true when the run was cancelled before the end of the
	// list.
	Interrupted bool

	StartedAt  time.Time
	FinishedAt time.Time
}

// Found returns the number of companies with a discovered address.
func (s *Summary) Found() int {
	return s.Statuses[model.StatusEmailFound]
}

// Runner processes a company list one company at a time.
type Runner struct {
	ledger     ledger.Ledger
	checkpoint Checkpointer
	pipeline   *Pipeline
	delay      time.Duration
	logger     *slog.Logger
	metrics    *metrics.Metrics
	progress   func(Event)

	// pending holds blank line rows not yet written to the ledger.
	pending []model.LedgerRow

	// sleep waits between companies; replaced in tests.
	sleep func(ctx context.Context, d time.Duration) error
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithDelay sets the pause after each company. Zero disables it.
func WithDelay(d time.Duration) RunnerOption {
	return func(r *Runner) {
		if d >= 0 {
			r.delay = d
		}
	}
}

// WithRunnerLogger sets the logger for the runner and its pipeline.
func WithRunnerLogger(logger *slog.Logger) RunnerOption {
	return func(r *Runner) {
		r.logger = logger
	}
}

// WithMetrics records company outcomes on m.
func WithMetrics(m *metrics.Metrics) RunnerOption {
	return func(r *Runner) {
		r.metrics = m
	}
}

// WithProgress calls fn after each committed line.
func WithProgress(fn func(Event)) RunnerOption {
	return func(r *Runner) {
		r.progress = fn
	}
}

// NewRunner creates a Runner that records into l, tracks progress in cp
// and discovers addresses with f.
func NewRunner(l ledger.Ledger, cp Checkpointer, f Finder, opts ...RunnerOption) *Runner {
	r := &Runner{
		ledger:     l,
		checkpoint: cp,
		delay:      DefaultDelay,
		sleep:      sleepContext,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = slog.Default()
	}

	r.pipeline = New(WithLogger(r.logger))
	r.pipeline.AddSteps(
		NewEmptyLineStep(),
		NewDedupStep(l),
		NewValidateNameStep(),
		NewDiscoverStep(f),
	)
	r.logger.Debug("runner ready", "steps", r.pipeline.StepNames(), "delay", r.delay)
	return r
}

// Run processes records from the checkpoint onwards.
//
// Every line handled gets exactly one ledger row (unless the company already
// had one) and moves the checkpoint (unless it was blank) before the next
// line starts. Rows of blank lines are written together with the next line
// that moves the checkpoint, or at the end of the list, so a resumed run
// never records them twice. Failures of individual companies are recorded
// and never stop the run; cancellation stops it between companies and is
// reported through Summary.Interrupted with a nil error.
func (r *Runner) Run(ctx context.Context, records []model.CompanyRecord) (*Summary, error) {
	summary := &Summary{
		Total:     len(records),
		Statuses:  make(map[string]int),
		StartedAt: time.Now(),
	}
	defer func() { summary.FinishedAt = time.Now() }()

	dups, err := r.ledger.Duplicates(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to check ledger for duplicates: %w", err)
	}
	if len(dups) > 0 {
		summary.ExistingDuplicates = dups
		r.logger.Warn("ledger already contains duplicate companies", "companies", dups)
	}

	start, err := r.resumeIndex(records)
	if err != nil {
		return nil, err
	}
	if start < 0 {
		summary.ResumeMissing = true
		start = 0
	}
	summary.StartIndex = start
	r.pending = nil

	for i := start; i < len(records); i++ {
		if ctx.Err() != nil {
			summary.Interrupted = true
			break
		}

		job, err := r.process(ctx, records[i])
		if err != nil {
			summary.Interrupted = true
			break
		}
		r.commit(ctx, job, summary)

		if r.progress != nil {
			r.progress(Event{
				Position: i + 1,
				Total:    len(records),
				Row:      job.Row(),
				Skipped:  job.SkipReason != "",
			})
		}

		if r.delay > 0 {
			if err := r.sleep(ctx, r.delay); err != nil {
				// Cancelling the pause after the last line loses nothing.
				summary.Interrupted = i < len(records)-1
				break
			}
		}
	}

	if summary.Interrupted {
		if len(r.pending) > 0 {
			r.logger.Info("blank lines after the checkpoint are recorded on resume", "lines", len(r.pending))
		}
		r.pending = nil
	} else if err := r.flushPending(ctx); err != nil {
		r.logger.Error("failed to write ledger rows for blank lines", "error", err)
	}

	r.logger.Info("run finished",
		"committed", summary.Committed,
		"found", summary.Found(),
		"skipped", len(summary.Skipped),
		"interrupted", summary.Interrupted,
	)
	return summary, nil
}

// resumeIndex returns the index to start at, or -1 when the checkpoint
// names a company that is not in records.
func (r *Runner) resumeIndex(records []model.CompanyRecord) (int, error) {
	last, err := r.checkpoint.Load()
	if err != nil {
		return 0, fmt.Errorf("failed to load checkpoint: %w", err)
	}
	if last == "" {
		return 0, nil
	}

	names := make([]string, len(records))
	for i, rec := range records {
		names[i] = rec.Name
	}
	idx, ok := checkpoint.ResumeIndex(names, last)
	if !ok {
		r.logger.Warn("Last processed company not found in list. Starting from beginning.",
			"checkpoint", last,
		)
		return -1, nil
	}
	r.logger.Info("resuming after checkpoint", "checkpoint", last, "index", idx)
	return idx, nil
}

// process runs the pipeline for one record. Any failure other than
// cancellation, panics included, becomes a critical error outcome.
func (r *Runner) process(ctx context.Context, rec model.CompanyRecord) (job *Job, err error) {
	job = NewJob(rec)

	defer func() {
		if p := recover(); p != nil {
			r.logger.Error("company processing panicked", "company", rec.Name, "panic", p)
			status := model.CriticalErrorStatus(fmt.Sprint(p))
			job.settle(model.NoEmail, status, status)
			err = nil
		}
	}()

	if err := r.pipeline.Execute(ctx, job); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil && errors.Is(err, ctxErr) {
			return nil, err
		}
		status := model.CriticalErrorStatus(err.Error())
		job.settle(model.NoEmail, status, status)
	}
	return job, nil
}

// commit writes the ledger row and then the checkpoint.
// A failed ledger write leaves the checkpoint where it was so the company
// is retried on the next run.
func (r *Runner) commit(ctx context.Context, job *Job, summary *Summary) {
	if job.DeferLedger {
		r.pending = append(r.pending, job.Row())
	} else if err := r.record(ctx, job); err != nil {
		r.logger.Error("failed to write ledger row", "company", job.Record.Name, "error", err)
		status := model.CriticalErrorStatus(err.Error())
		job.Status = status
		job.SkipReason = status
		job.SkipCheckpoint = true
	}

	if !job.SkipCheckpoint {
		if err := r.checkpoint.Save(job.Record.Name); err != nil {
			r.logger.Warn("failed to save checkpoint", "company", job.Record.Name, "error", err)
		}
	}

	summary.Committed++
	summary.Statuses[job.Status]++
	if job.SkipReason != "" {
		summary.Skipped = append(summary.Skipped, job.SkipEntry())
	}
	r.metrics.CompanyProcessed(job.Status)

	r.logger.Info("company processed",
		"index", job.Record.Index,
		"company", job.Record.Name,
		"status", job.Status,
		"email", job.Email,
	)
}

// record writes the pending blank line rows followed by the job's own row.
func (r *Runner) record(ctx context.Context, job *Job) error {
	if err := r.flushPending(ctx); err != nil {
		return err
	}
	if job.SkipLedger {
		return nil
	}
	// The row is written even when ctx was cancelled mid-company.
	return r.ledger.Append(context.WithoutCancel(ctx), job.Row())
}

// flushPending appends the deferred blank line rows in input order.
func (r *Runner) flushPending(ctx context.Context) error {
	for len(r.pending) > 0 {
		if err := r.ledger.Append(context.WithoutCancel(ctx), r.pending[0]); err != nil {
			return err
		}
		r.pending = r.pending[1:]
	}
	return nil
}

// sleepContext waits for d or until ctx is done.
func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
