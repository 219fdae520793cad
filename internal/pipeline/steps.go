package pipeline

import (
	"context"
	"errors"
	"fmt"

	"github.com/nao1215/emailscout/internal/discovery"
	"github.com/nao1215/emailscout/internal/model"
)

// Finder discovers the contact address of a company.
// *discovery.Discoverer implements it.
type Finder interface {
	Discover(ctx context.Context, company string) (discovery.Result, error)
}

// Lookup reports whether a company already has a ledger row.
type Lookup interface {
	Contains(ctx context.Context, company string) (bool, error)
}

// EmptyLineStep settles blank input lines.
// They get a ledger row and a skip report entry but never move the
// checkpoint, since a blank name cannot be found again on resume. Their row
// is deferred so that an interrupted run does not record it twice.
type EmptyLineStep struct{}

// NewEmptyLineStep creates an EmptyLineStep.
func NewEmptyLineStep() *EmptyLineStep {
	return &EmptyLineStep{}
}

// Name implements Step.
func (s *EmptyLineStep) Name() string { return "empty-line" }

// Do implements Step.
func (s *EmptyLineStep) Do(_ context.Context, job *Job) error {
	if !job.Record.IsEmpty() {
		return nil
	}
	job.settle(model.NoEmail, model.StatusEmptyLine, model.StatusEmptyLine)
	job.SkipCheckpoint = true
	job.DeferLedger = true
	return nil
}

// DedupStep settles companies that already have a ledger row.
type DedupStep struct {
	ledger Lookup
}

// NewDedupStep creates a DedupStep backed by l.
func NewDedupStep(l Lookup) *DedupStep {
	return &DedupStep{ledger: l}
}

// Name implements Step.
func (s *DedupStep) Name() string { return "dedup" }

// Do implements Step.
func (s *DedupStep) Do(ctx context.Context, job *Job) error {
	found, err := s.ledger.Contains(ctx, job.Record.Name)
	if err != nil {
		return fmt.Errorf("ledger lookup failed: %w", err)
	}
	if found {
		job.settle(model.NoEmail, model.StatusAlreadyProcessed, model.StatusAlreadyProcessed)
		job.SkipLedger = true
	}
	return nil
}

// ValidateNameStep settles names too short to search for and sets the
// search name of the rest.
type ValidateNameStep struct{}

// NewValidateNameStep creates a ValidateNameStep.
func NewValidateNameStep() *ValidateNameStep {
	return &ValidateNameStep{}
}

// Name implements Step.
func (s *ValidateNameStep) Name() string { return "validate-name" }

// Do implements Step.
func (s *ValidateNameStep) Do(_ context.Context, job *Job) error {
	if err := model.ValidateName(job.Record.Name); err != nil {
		job.settle(model.NoEmail, model.StatusInvalidName, model.StatusInvalidName)
		return nil
	}
	job.Clean = model.SearchName(job.Record.Name)
	return nil
}

// DiscoverStep runs email discovery for the company.
// Discovery failures, panics included, are recorded as the search error
// status; only cancellation is returned.
type DiscoverStep struct {
	finder Finder
}

// NewDiscoverStep creates a DiscoverStep using f.
func NewDiscoverStep(f Finder) *DiscoverStep {
	return &DiscoverStep{finder: f}
}

// Name implements Step.
func (s *DiscoverStep) Name() string { return "discover" }

// Do implements Step.
func (s *DiscoverStep) Do(ctx context.Context, job *Job) error {
	res, err := s.discover(ctx, job.Record.Name)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil && errors.Is(err, ctxErr) {
			return err
		}
		status := model.SearchErrorStatus(err)
		job.settle(model.NoEmail, status, status)
		return nil
	}

	job.Result = res
	if res.Found {
		job.settle(res.Email, model.StatusEmailFound, "")
		return nil
	}
	job.settle(model.NoEmail, model.StatusEmailNotFound, "")
	return nil
}

func (s *DiscoverStep) discover(ctx context.Context, company string) (res discovery.Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return s.finder.Discover(ctx, company)
}
