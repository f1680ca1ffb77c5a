// Package item implements the storage model for jsonvault documents.
//
// An item is an opaque JSON value identified by a generated UUID. Items live
// in two places at once:
//
//   - Store: an in-memory map, the primary read source. It starts empty on
//     every process start and is never hydrated from disk.
//   - Repository: one pretty-printed <id>.json file per item on disk, the
//     fallback read source and the only state that survives a restart.
//
// Writes go through memory first, then disk, with no atomicity across the
// two. This window is an accepted property of the design; callers must not
// assume both stores agree at any instant. See the api package for how the
// two sources are combined per operation.
//
// Thread Safety:
//   - Store is safe for concurrent use from multiple goroutines.
//   - Repository methods on distinct IDs are independent; the filesystem
//     provides whatever ordering exists for concurrent access to one ID.
package item
