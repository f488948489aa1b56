package manifest

import (
	"errors"
	"fmt"
)

var (
	// ErrAmbiguousProject is matched by AmbiguousProjectError
	ErrAmbiguousProject = errors.New("ambiguous project")
	// ErrProjectNotFound is returned when an identifier names no project
	ErrProjectNotFound = errors.New("project not found")
)

// AmbiguousProjectError is returned by Project when no identifier is given
// and the container holds more than one project.
type AmbiguousProjectError struct {
	Dir string   // container directory
	IDs []string // identifiers of the candidate projects
}

func (e *AmbiguousProjectError) Error() string {
	return fmt.Sprintf("container %s has %d projects %v; specify a project identifier", e.Dir, len(e.IDs), e.IDs)
}

func (e *AmbiguousProjectError) Unwrap() error {
	return ErrAmbiguousProject
}
