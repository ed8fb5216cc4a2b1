// Package errs holds the error types shared by the table sync, notification and file share utilities.
//
// Callers test for them with errors.As. Nothing in this module recovers from them locally: they
// abort the current unit of work and bubble up to the job orchestrator.
package errs

import "fmt"

// ConfigurationError denotes bad or missing configuration, e.g. an unknown connection name,
// a connection without a secret or a table spec that fails validation.
type ConfigurationError struct {
	Op  string
	Msg string
}

func (e ConfigurationError) Error() string {
	if e.Op == "" {
		return fmt.Sprintf("configuration error: %v", e.Msg)
	}
	return fmt.Sprintf("configuration error in %v: %v", e.Op, e.Msg)
}

// NewConfigurationError formats a ConfigurationError for operation op.
func NewConfigurationError(op string, format string, args ...interface{}) ConfigurationError {
	return ConfigurationError{Op: op, Msg: fmt.Sprintf(format, args...)}
}

// UnsupportedDialectError is returned when a SQL dialect has no implementation for the requested operation.
type UnsupportedDialectError struct {
	Dialect string
	Op      string
}

func (e UnsupportedDialectError) Error() string {
	return fmt.Sprintf("unsupported dialect %q for %v", e.Dialect, e.Op)
}

// ExternalServiceError wraps a failure returned by an external collaborator
// such as S3, Secrets Manager, Glue, SES, a database, a webhook or a file share.
type ExternalServiceError struct {
	Service string
	Op      string
	Err     error
}

func (e *ExternalServiceError) Error() string {
	return fmt.Sprintf("%v %v failed: %v", e.Service, e.Op, e.Err)
}

func (e *ExternalServiceError) Unwrap() error {
	return e.Err
}

// External wraps err in an ExternalServiceError. A nil err gives nil.
func External(service string, op string, err error) error {
	if err == nil {
		return nil
	}
	return &ExternalServiceError{Service: service, Op: op, Err: err}
}
