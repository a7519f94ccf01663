package storage

import "errors"

// Common client storage errors
var (
	// ErrProductNotFound indicates that no product with the given local_id exists
	ErrProductNotFound = errors.New("product not found")

	// ErrSessionNotFound indicates that no session (bearer credential) is stored
	ErrSessionNotFound = errors.New("session not found")

	// ErrStorageClosed indicates that storage is closed
	ErrStorageClosed = errors.New("storage is closed")

	// ErrStorageLocked indicates that another process holds the database file
	ErrStorageLocked = errors.New("storage is locked by another process")

	// ErrStoreNotLoaded indicates a save attempt before the document was loaded
	ErrStoreNotLoaded = errors.New("local store is not loaded")
)
