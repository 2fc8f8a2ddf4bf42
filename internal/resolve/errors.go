package resolve

import (
	"errors"
	"fmt"
)

// Stage sentinels. Every failure returned by this package matches exactly
// one of them through errors.Is.
var (
	ErrAuth             = errors.New("key or token incorrect")
	ErrBoardResolution  = errors.New("board resolution failed")
	ErrColumnResolution = errors.New("column resolution failed")
	ErrLabelResolution  = errors.New("label resolution failed")
	ErrCardCreation     = errors.New("card creation failed")
	ErrComment          = errors.New("adding comment failed")
)

// errNoID reports a create call that answered without an identifier.
var errNoID = errors.New("service returned no id")

// StageError ties an underlying failure to the pipeline stage it stopped.
type StageError struct {
	Stage error
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%v: %v", e.Stage, e.Err)
}

// Unwrap exposes both the stage sentinel and the cause.
func (e *StageError) Unwrap() []error {
	return []error{e.Stage, e.Err}
}

func stageError(stage, err error) error {
	return &StageError{Stage: stage, Err: err}
}
