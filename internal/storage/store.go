package storage

// Item is a value that can be kept in a MemoryStore.
type Item[T any] interface {
	// ID returns the unique identifier of the item.
	ID() string

	// Clone returns a deep copy of the item.
	Clone() T
}
