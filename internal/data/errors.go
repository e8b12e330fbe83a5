package data

import "errors"

// Sentinel errors returned by the in-memory stores.
var (
	// ErrTaskNotFound is returned when a task id is not present in the registry.
	ErrTaskNotFound = errors.New("task not found")
	// ErrTaskExists is returned when a non-terminal task already occupies an id.
	ErrTaskExists = errors.New("task already exists")
)
