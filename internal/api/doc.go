// Package api provides the HTTP REST API for jsonvault.
//
// It exposes the item CRUD surface, the audit trail, and a health endpoint,
// mapping each operation onto the in-memory store and the file repository
// according to the write-through consistency rules described in the item
// package.
//
// The server follows the same lifecycle pattern as the other components:
//
//	server, err := api.New(deps)
//	server.Start(ctx)
//	defer server.Close()
//
// Thread Safety: All methods are safe for concurrent use from multiple goroutines.
package api
