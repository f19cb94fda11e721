package replybot

import (
	"fmt"

	"github.com/pkg/errors"
)

// ConfigurationError reports a malformed rule at registration time.
type ConfigurationError struct {
	Kind    MatchKind
	Pattern string
	Reason  string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid %s rule %q: %s", e.Kind, e.Pattern, e.Reason)
}

// DispatchError reports a failed reply or callback. It is logged, never returned from HandleMessage.
type DispatchError struct {
	Action  ActionKind
	Pattern string
	Err     error
}

func (e *DispatchError) Error() string {
	return fmt.Sprintf("dispatch %s for %q: %v", e.Action, e.Pattern, e.Err)
}

func (e *DispatchError) Cause() error {
	return e.Err
}

func (e *DispatchError) Unwrap() error {
	return e.Err
}

// DeletionError reports a failed scheduled deletion of a triggering message.
type DeletionError struct {
	Pattern string
	Err     error
}

func (e *DeletionError) Error() string {
	return fmt.Sprintf("delete message matched by %q: %v", e.Pattern, e.Err)
}

func (e *DeletionError) Cause() error {
	return e.Err
}

func (e *DeletionError) Unwrap() error {
	return e.Err
}

// IsConfigurationError reports whether err wraps a ConfigurationError.
func IsConfigurationError(err error) bool {
	var cfgErr *ConfigurationError
	return errors.As(err, &cfgErr)
}

// recovered converts a recovered panic value into an error.
func recovered(v interface{}) error {
	if err, ok := v.(error); ok {
		return errors.Wrap(err, "panic")
	}
	return errors.Errorf("panic: %v", v)
}
