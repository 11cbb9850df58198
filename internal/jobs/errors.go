// Package jobs implements the tailoring workflow: job persistence, the
// orchestrating state machine and its error taxonomy.
package jobs

import "fmt"

// ErrInvalidInput indicates a malformed submission. It is returned
// synchronously, before any job record is created.
type ErrInvalidInput struct {
	Reason string
}

func (e *ErrInvalidInput) Error() string {
	return fmt.Sprintf("invalid input: %s", e.Reason)
}

// ErrNotFound indicates a missing job, record or posting, or an ownership
// mismatch. Ownership mismatches deliberately look identical to missing
// resources so existence never leaks across owners.
type ErrNotFound struct {
	Kind string // "job", "record", "posting", "artifact"
	ID   string
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Kind, e.ID)
}

// ErrCollaborator indicates a failure in an external collaborator during
// the background workflow. It is captured on the job, never propagated to
// the submitting caller.
type ErrCollaborator struct {
	Stage string // "fetch", "tailor", "score", "persist"
	Err   error
}

func (e *ErrCollaborator) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Stage, e.Err)
}

func (e *ErrCollaborator) Unwrap() error {
	return e.Err
}
