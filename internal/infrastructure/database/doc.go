// Package database provides the SQLite connection used by the audit trail.
//
// It wraps database/sql with:
//   - Directory creation and restrictive file permissions on open
//   - WAL mode and busy-timeout pragmas from config
//   - Embedded SQL migrations applied in version order
//   - Health checks for readiness probes
//
// The item documents themselves are NOT stored here; they live as one JSON
// file per item (see the item package). SQLite holds only operational
// metadata: the audit log of mutations and sweep deletions.
package database
