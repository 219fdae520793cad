package pipeline

import (
	"github.com/nao1215/emailscout/internal/discovery"
	"github.com/nao1215/emailscout/internal/model"
)

// Job carries one input line through the pipeline.
type Job struct {
	// Record is the input line being processed.
	Record model.CompanyRecord

	// Clean is the normalized company name, set once the name is validated.
	Clean string

	// Email is the discovered address or model.NoEmail.
	Email string

	// Status is the ledger status.
	Status string

	// SkipReason, when set, puts the job on the skip report.
	SkipReason string

	// Result holds discovery details when discovery ran.
	Result discovery.Result

	// SkipLedger suppresses the ledger row; the company already has one.
	SkipLedger bool

	// SkipCheckpoint leaves the checkpoint untouched.
	SkipCheckpoint bool

	// DeferLedger holds the ledger row back until the next line that moves
	// the checkpoint is recorded.
	DeferLedger bool

	// Done stops the remaining steps.
	Done bool

	// Steps lists the steps that ran, in order.
	Steps []string
}

// NewJob returns a job for rec with no outcome yet.
func NewJob(rec model.CompanyRecord) *Job {
	return &Job{Record: rec, Email: model.NoEmail}
}

// Row returns the ledger row for the job.
func (j *Job) Row() model.LedgerRow {
	return model.LedgerRow{
		Company:       j.Record.Name,
		Email:         j.Email,
		Status:        j.Status,
		TargetCountry: j.Record.TargetCountry,
	}
}

// SkipEntry returns the skip report entry for the job.
func (j *Job) SkipEntry() model.SkipEntry {
	return model.SkipEntry{
		Index:   j.Record.Index,
		Company: j.Record.Name,
		Reason:  j.SkipReason,
	}
}

// settle records a final outcome and stops the remaining steps.
func (j *Job) settle(email, status, skipReason string) {
	j.Email = email
	j.Status = status
	j.SkipReason = skipReason
	j.Done = true
}
