package models

import (
	"errors"
	"fmt"
)

var (
	// ErrConfiguration marks missing credentials or settings detected at construction.
	ErrConfiguration = errors.New("configuration error")
	// ErrCollaborator marks failures of an external ASR, diarization or generation call.
	ErrCollaborator = errors.New("collaborator error")
	// ErrFilesystem marks scratch or storage read/write failures.
	ErrFilesystem = errors.New("filesystem error")
)

// CollaboratorError wraps a failure returned by an external service.
type CollaboratorError struct {
	Collaborator string
	Err          error
}

// NewCollaboratorError wraps err; returns nil when err is nil.
func NewCollaboratorError(collaborator string, err error) error {
	if err == nil {
		return nil
	}
	return &CollaboratorError{Collaborator: collaborator, Err: err}
}

func (e *CollaboratorError) Error() string {
	return fmt.Sprintf("%s: %v", e.Collaborator, e.Err)
}

func (e *CollaboratorError) Unwrap() error {
	return e.Err
}

// Is lets errors.Is(err, ErrCollaborator) match any CollaboratorError.
func (e *CollaboratorError) Is(target error) bool {
	return target == ErrCollaborator
}
