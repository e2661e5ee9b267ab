// Package captable provides a complete set of functions and types for
// computing a startup's capitalization table from its corporate-finance
// history. It is designed to be local-first, auditable, and deterministic:
// the event ledger is the single source of truth and every ownership figure
// is recomputed from it.
//
// The core functionalities include:
//   - Ledger Management: Recording corporate-finance events (incorporation,
//     SAFE issuances, priced rounds, option pool changes, option grants and
//     exercises) in an immutable, chronological record.
//   - Event Replay: A stateless engine that folds the ledger into cap-table
//     state, one immutable snapshot per event.
//   - Financial Mechanics: Exact-decimal share allocation, SAFE conversion
//     (valuation caps, discounts, post-money fixed-point pricing), vesting
//     schedules, and exit waterfalls with liquidation preferences.
//   - Views: Legal and fully diluted cap tables, and the ownership evolution
//     across the whole event history.
//   - Data Persistence: Handling the encoding and decoding of the event
//     ledger to and from a human-readable, version-controllable JSONL format.
//
// This package serves as the foundational logic for the `cpt` command-line
// tool, ensuring that all operations are consistent and based on a single
// source of truth.
package captable
