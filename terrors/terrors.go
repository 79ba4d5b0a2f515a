/*
Package terrors defines the typed error taxonomy training, ingestion and
the CLI surface: ConfigError for bad flags/rule files, DataError for
malformed input data, InvariantViolation for states the core algorithm
should never reach, and NumericalFailure for a candidate split's
optimizer failing to converge. Each wraps an underlying cause with
github.com/cockroachdb/errors so errors.Is/errors.As keep working across
the wrap.
*/
package terrors

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

// ConfigError reports a malformed flag, rule file or model file.
type ConfigError struct {
	msg   string
	cause error
}

func NewConfigError(msg string) *ConfigError { return &ConfigError{msg: msg} }

func WrapConfigError(cause error, msg string) *ConfigError {
	return &ConfigError{msg: msg, cause: errors.Wrap(cause, msg)}
}

func (e *ConfigError) Error() string {
	if e.cause != nil {
		return e.cause.Error()
	}
	return "config error: " + e.msg
}

func (e *ConfigError) Unwrap() error { return e.cause }

// DataError reports malformed or inconsistent training/inference data.
type DataError struct {
	msg   string
	cause error
}

func NewDataError(msg string) *DataError { return &DataError{msg: msg} }

func WrapDataError(cause error, msg string) *DataError {
	return &DataError{msg: msg, cause: errors.Wrap(cause, msg)}
}

func (e *DataError) Error() string {
	if e.cause != nil {
		return e.cause.Error()
	}
	return "data error: " + e.msg
}

func (e *DataError) Unwrap() error { return e.cause }

// InvariantViolation reports a state the algorithm's own invariants rule
// out; it signals a bug rather than a bad input.
type InvariantViolation struct {
	msg string
}

func NewInvariantViolation(format string, args ...interface{}) *InvariantViolation {
	return &InvariantViolation{msg: fmt.Sprintf(format, args...)}
}

func (e *InvariantViolation) Error() string { return "invariant violation: " + e.msg }

// NumericalFailure reports that a candidate split's constrained
// optimization failed to converge within the iteration/evaluation
// budget. Callers treat the candidate as infeasible rather than
// propagating the error.
type NumericalFailure struct {
	msg   string
	cause error
}

func NewNumericalFailure(msg string, cause error) *NumericalFailure {
	return &NumericalFailure{msg: msg, cause: errors.Wrap(cause, msg)}
}

func (e *NumericalFailure) Error() string {
	if e.cause != nil {
		return e.cause.Error()
	}
	return "numerical failure: " + e.msg
}

func (e *NumericalFailure) Unwrap() error { return e.cause }
