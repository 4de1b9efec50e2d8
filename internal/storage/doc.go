// Package storage archives session outcomes across runs so reporting and
// analytics can look further back than a single session's ledger.
//
// It currently supports:
//   - Append-only outcome history (one row per attempted action)
//   - Recent-history reads for the report command
package storage
