// Package fintidy cleans, de-duplicates and categorizes personal finance
// transactions exported from Fidelity Full View.
//
// The package is the domain library behind the ft command line tool: it
// imports transaction CSV exports, fingerprints every row so the same
// transaction is recognized across overlapping exports, keeps the cleaned
// result in a human-readable JSONL ledger, and aggregates spending per
// category and per period.
package fintidy
