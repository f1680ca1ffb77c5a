// Package retention implements the daily purge of aged item files.
//
// The sweeper wakes at local midnight in a fixed, configured timezone (not
// the host zone), scans every item file, and deletes those whose
// modification age exceeds the retention threshold from both the repository
// and the in-memory store. The first sweep is scheduled for the next
// midnight after process start; the sweeper never runs immediately.
//
// Each run re-computes the next midnight after it finishes, so a slow sweep
// delays the next one rather than stacking runs. Per-file failures are
// logged and do not abort the sweep or its rescheduling.
//
// The sweeper runs concurrently with request handling and does not
// coordinate with in-flight writers; a delete-during-write race is an
// accepted boundary of the design.
package retention
