package bootstrap

import (
	"errors"
	"fmt"
)

// Host error kinds
var (
	ErrConfigurationInvalid  = errors.New("host configuration invalid")
	ErrSystemCreationFailed  = errors.New("actor system creation failed")
	ErrInstallationFailed    = errors.New("actor installation failed")
	ErrTerminationWaitFailed = errors.New("termination wait failed")
	ErrAlreadyStarted        = errors.New("host already started")
)

var errAlreadyRun = errors.New("run may be called once per host")

// HostError reports a failed Host operation. Both Kind and the
// collaborator's Err match with errors.Is.
type HostError struct {
	Op     string
	System string
	Kind   error
	Err    error
}

func (e *HostError) Error() string {
	if e.System != "" {
		return fmt.Sprintf("%s failed for system %s: %v: %v", e.Op, e.System, e.Kind, e.Err)
	}
	return fmt.Sprintf("%s failed: %v: %v", e.Op, e.Kind, e.Err)
}

func (e *HostError) Unwrap() []error {
	return []error{e.Kind, e.Err}
}

func configError(msg string) error {
	return &HostError{
		Op:   "configure",
		Kind: ErrConfigurationInvalid,
		Err:  errors.New(msg),
	}
}
