package store

import (
	"fmt"
)

// Collection names a record collection.
type Collection string

// Collections.
const (
	CollectionActive Collection = "active"
	CollectionSold   Collection = "sold"
)

// ValidationError reports malformed or out-of-range input. Persisted state is
// never modified when it is returned.
type ValidationError struct {
	Op     string
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%s: %s", e.Op, e.Reason)
	}
	return fmt.Sprintf("%s: %s %s", e.Op, e.Field, e.Reason)
}

// NotFoundError reports that an id is absent from the collection an
// operation expected it in.
type NotFoundError struct {
	Op         string
	Collection Collection
	ID         int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s: %s item %d not found", e.Op, e.Collection, e.ID)
}

// StorageError reports a failure of the database itself. Transitions that
// fail with a StorageError are rolled back.
type StorageError struct {
	Op  string
	ID  int64
	Err error
}

func (e *StorageError) Error() string {
	if e.ID == 0 {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s %d: %v", e.Op, e.ID, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}
