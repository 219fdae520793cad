// Package report writes the files a run leaves behind besides the ledger.
//
// The skip report lists every input line that was skipped, invalid or
// failed, as tab-separated values. Ledger statistics can be written as
// plain text for the terminal, JSON for other tools, or Markdown; a
// Markdown run report describes a single run.
//
// Writers implement the Writer interface, allowing them to be used
// interchangeably.
package report
