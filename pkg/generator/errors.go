package generator

import (
	"errors"
	"fmt"
)

// ErrAborted signals the user aborted a question (e.g. Ctrl+C).
var ErrAborted = errors.New("generator: aborted")

// StepError names the step a run failed in.
type StepError struct {
	Step string
	Err  error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("%s: %v", e.Step, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}

func stepError(step string, err error) error {
	return &StepError{Step: step, Err: err}
}
