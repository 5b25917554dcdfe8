// Package store provides a SQLite-backed registry of validated facility
// configuration snapshots.
//
// Each snapshot persists a graph's canonical-JSON document together with a
// content hash. Saving is idempotent per document content: saving the same
// configuration twice returns the existing snapshot.
//
// # Database Configuration
//
//   - WAL mode: concurrent reads during writes
//   - synchronous=NORMAL: balance durability/performance
//   - busy_timeout=5000: wait for locks up to 5 seconds
//   - foreign_keys=ON
//
// SQLite supports a single writer, so the connection pool is limited to one
// connection.
package store
