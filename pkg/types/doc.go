// Package types defines the Ledger aggregate, its entity types, the
// configuration record, and the standard error values for the habitlog
// storage system.
//
// The Ledger is the unit of persistence: every backend reads and writes it
// whole, never as a delta.
package types
