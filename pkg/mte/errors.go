package mte

import (
	"errors"
	"fmt"
)

// ErrUnknownTemplate is returned when a template reference names a template
// that is not registered.
var ErrUnknownTemplate = errors.New("mte: unknown template")

// BindingConfigurationError reports a binding that cannot be evaluated
// against its context under the strict policy.
type BindingConfigurationError struct {
	// Expression is the expression kind (Binding, MultiBinding, Style, ...).
	Expression string

	// Property is the offending property path, possibly empty.
	Property string

	// Reason describes the misconfiguration.
	Reason string
}

func (e *BindingConfigurationError) Error() string {
	if e.Property == "" {
		return fmt.Sprintf("mte: %s binding error: %s", e.Expression, e.Reason)
	}
	return fmt.Sprintf("mte: %s binding error: %s (property: %s)", e.Expression, e.Reason, e.Property)
}

// Code returns the registry code for this error kind.
func (e *BindingConfigurationError) Code() string { return "E001" }

// ContextResolutionError reports a context expression that cannot derive a
// child context under the strict policy.
type ContextResolutionError struct {
	Property string
	Reason   string
}

func (e *ContextResolutionError) Error() string {
	return fmt.Sprintf("mte: Context resolution error: %s (property: %s)", e.Reason, e.Property)
}

// Code returns the registry code for this error kind.
func (e *ContextResolutionError) Code() string { return "E002" }

// IsBindingConfiguration reports whether err contains a
// *BindingConfigurationError.
func IsBindingConfiguration(err error) bool {
	var target *BindingConfigurationError
	return errors.As(err, &target)
}

// IsContextResolution reports whether err contains a
// *ContextResolutionError.
func IsContextResolution(err error) bool {
	var target *ContextResolutionError
	return errors.As(err, &target)
}
