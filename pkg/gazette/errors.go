package gazette

import (
	"errors"
	"fmt"
)

// Terminal failures surfaced before any extraction work. The HTTP layer
// maps these to client errors.
var (
	ErrNoUpload = errors.New("no gazette text to scan")
	ErrNoUser   = errors.New("no acting user")
)

// PersistError marks a failure writing the Gazette or ScanLog after
// extraction and matching succeeded. Record mutations committed before it
// are not rolled back.
type PersistError struct {
	Entity string
	Err    error
}

func (e *PersistError) Error() string {
	return fmt.Sprintf("persisting %s: %v", e.Entity, e.Err)
}

func (e *PersistError) Unwrap() error { return e.Err }
