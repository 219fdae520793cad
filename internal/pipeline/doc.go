// Package pipeline runs the company list through email discovery.
//
// Each input line becomes a Job that passes through a fixed sequence of
// steps: empty-line detection, ledger deduplication, name validation and
// discovery. A step that settles the outcome marks the job done and the
// remaining steps are not executed. The Runner commits every job to the
// ledger and the checkpoint before moving to the next company, so an
// interrupted run resumes after the last committed company.
//
// Companies are processed strictly one at a time with a fixed delay between
// them to stay under search engine rate limits.
package pipeline
