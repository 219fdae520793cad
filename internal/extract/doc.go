// Package extract finds and validates email addresses in fetched pages.
//
// Two strategies are applied to every page, in order:
//   - Structural extraction reads mailto: links and elements whose class or
//     id marks them as contact information (contact, email, impressum).
//   - Pattern extraction scans the page's visible text with three
//     expressions: plain addresses, mailto:-prefixed addresses, and the
//     "name [at] domain.tld" obfuscation.
//
// Every address from either strategy passes through Validate before it is
// returned, so callers only ever see lower-cased addresses with exactly one
// '@', a dotted domain, and no placeholder domain.
package extract
