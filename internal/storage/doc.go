// Package storage provides the expectation storage used by the stub registry.
//
// Key types:
//
//   - Item: what can be stored; it has an ID and clones itself
//   - MemoryStore: thread-safe method-keyed, insertion-ordered collection
//   - Snapshot: a deep copy of a store's contents that can be restored later
//
// Items are grouped by lowercased HTTP method. Within a method, List returns
// items in the order they were added; lookups never reorder them. Snapshots
// clone every item so mutations made after the snapshot was taken do not
// leak into a later Restore.
package storage
