// Package main provides the entry point for the emailscout CLI.
//
// emailscout works through a list of company names, searches the web for
// each company's contact page and records the first plausible contact
// address in a result ledger. Runs can be interrupted and resumed.
//
// Usage:
//
//	emailscout run --input germany.txt
//	emailscout summary
//
// See --help for all available options.
package main

// main is the entry point for emailscout.
func main() {
	Execute()
}
