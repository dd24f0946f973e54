// Package analytics computes streaks, windowed completion rates, and
// reporting rollups over a Ledger. Every function is pure: it reads the
// Ledger, never mutates it, and takes "today" explicitly.
//
// Streaks and rates are not clipped to a habit's creation date; days before
// a habit existed count as missed days.
package analytics
