// Package model defines the core data structures used throughout emailscout.
//
// This package contains the following main types:
//   - CompanyRecord: One line of the input company list
//   - EmailCandidate: A validated address plus the strategy that found it
//   - LedgerRow: One persisted result row
//   - SkipEntry: One entry of the skip report
//
// Design decision: We separate models into their own package to avoid circular
// dependencies. The discovery, ledger, pipeline and report packages all need
// these types, so centralizing them prevents import cycles.
package model
