package errs

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for classification with errors.Is.
var (
	ErrValueIsRequired   = errors.New("value is required")
	ErrValueIsInvalid    = errors.New("value is invalid")
	ErrObjectNotFound    = errors.New("object not found")
	ErrDuplicateValue    = errors.New("duplicate value")
	ErrConcurrentUpdate  = errors.New("concurrent update")
	ErrAuditAppendFailed = errors.New("audit append failed")
	ErrIOFailure         = errors.New("io failure")
)

// sanitize strips newlines from values before they are embedded in error
// messages, keeping log lines single-line.
func sanitize(v any) string {
	return strings.ReplaceAll(fmt.Sprintf("%s", v), "\n", " ")
}

// ValueIsRequiredError indicates that a required value was not supplied.
type ValueIsRequiredError struct {
	ParamName string
	Cause     error
}

// NewValueIsRequiredError creates a ValueIsRequiredError for the named parameter.
func NewValueIsRequiredError(paramName string) *ValueIsRequiredError {
	return &ValueIsRequiredError{ParamName: paramName}
}

// NewValueIsRequiredErrorWithCause creates a ValueIsRequiredError wrapping an underlying cause.
func NewValueIsRequiredErrorWithCause(paramName string, cause error) *ValueIsRequiredError {
	return &ValueIsRequiredError{ParamName: paramName, Cause: cause}
}

func (e *ValueIsRequiredError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %s)", ErrValueIsRequired, e.ParamName, sanitize(e.Cause))
	}
	return fmt.Sprintf("%s: %s", ErrValueIsRequired, e.ParamName)
}

func (e *ValueIsRequiredError) Unwrap() error {
	return ErrValueIsRequired
}

// ValueIsInvalidError indicates that a supplied value failed validation.
type ValueIsInvalidError struct {
	ParamName string
	Cause     error
}

// NewValueIsInvalidError creates a ValueIsInvalidError for the named parameter.
func NewValueIsInvalidError(paramName string) *ValueIsInvalidError {
	return &ValueIsInvalidError{ParamName: paramName}
}

// NewValueIsInvalidErrorWithCause creates a ValueIsInvalidError wrapping an underlying cause.
func NewValueIsInvalidErrorWithCause(paramName string, cause error) *ValueIsInvalidError {
	return &ValueIsInvalidError{ParamName: paramName, Cause: cause}
}

func (e *ValueIsInvalidError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %s)", ErrValueIsInvalid, e.ParamName, sanitize(e.Cause))
	}
	return fmt.Sprintf("%s: %s", ErrValueIsInvalid, e.ParamName)
}

func (e *ValueIsInvalidError) Unwrap() error {
	return ErrValueIsInvalid
}

// ObjectNotFoundError indicates that a lookup by identifier found nothing.
type ObjectNotFoundError struct {
	ParamName string
	ID        any
	Cause     error
}

// NewObjectNotFoundError creates an ObjectNotFoundError for the named parameter and identifier.
func NewObjectNotFoundError(paramName string, id any) *ObjectNotFoundError {
	return &ObjectNotFoundError{ParamName: paramName, ID: id}
}

// NewObjectNotFoundErrorWithCause creates an ObjectNotFoundError wrapping an underlying cause.
func NewObjectNotFoundErrorWithCause(paramName string, id any, cause error) *ObjectNotFoundError {
	return &ObjectNotFoundError{ParamName: paramName, ID: id, Cause: cause}
}

func (e *ObjectNotFoundError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: param is: %s, ID is: %s (cause: %s)",
			ErrObjectNotFound, e.ParamName, sanitize(e.ID), sanitize(e.Cause))
	}
	return fmt.Sprintf("%s: %s", ErrObjectNotFound, sanitize(e.ID))
}

func (e *ObjectNotFoundError) Unwrap() error {
	return ErrObjectNotFound
}

// DuplicateValueError indicates that a value violated a uniqueness constraint,
// such as a tracking number that already exists in the store.
type DuplicateValueError struct {
	ParamName string
	Value     string
	Cause     error
}

// NewDuplicateValueError creates a DuplicateValueError for the named parameter and value.
func NewDuplicateValueError(paramName, value string) *DuplicateValueError {
	return &DuplicateValueError{ParamName: paramName, Value: value}
}

// NewDuplicateValueErrorWithCause creates a DuplicateValueError wrapping an underlying cause.
func NewDuplicateValueErrorWithCause(paramName, value string, cause error) *DuplicateValueError {
	return &DuplicateValueError{ParamName: paramName, Value: value, Cause: cause}
}

func (e *DuplicateValueError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s %s (cause: %s)", ErrDuplicateValue, e.ParamName, sanitize(e.Value), sanitize(e.Cause))
	}
	return fmt.Sprintf("%s: %s %s", ErrDuplicateValue, e.ParamName, sanitize(e.Value))
}

func (e *DuplicateValueError) Unwrap() error {
	return ErrDuplicateValue
}

// ConcurrentUpdateError indicates that an optimistic-concurrency check failed:
// the record changed between read and write and the update was not applied.
type ConcurrentUpdateError struct {
	ParamName string
	ID        any
	Cause     error
}

// NewConcurrentUpdateError creates a ConcurrentUpdateError for the named parameter and identifier.
func NewConcurrentUpdateError(paramName string, id any) *ConcurrentUpdateError {
	return &ConcurrentUpdateError{ParamName: paramName, ID: id}
}

// NewConcurrentUpdateErrorWithCause creates a ConcurrentUpdateError wrapping an underlying cause.
func NewConcurrentUpdateErrorWithCause(paramName string, id any, cause error) *ConcurrentUpdateError {
	return &ConcurrentUpdateError{ParamName: paramName, ID: id, Cause: cause}
}

func (e *ConcurrentUpdateError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: param is: %s, ID is: %s (cause: %s)",
			ErrConcurrentUpdate, e.ParamName, sanitize(e.ID), sanitize(e.Cause))
	}
	return fmt.Sprintf("%s: %s", ErrConcurrentUpdate, sanitize(e.ID))
}

func (e *ConcurrentUpdateError) Unwrap() error {
	return ErrConcurrentUpdate
}

// AuditAppendError indicates that the primary store write committed but the
// matching audit ledger append failed. Callers must treat this as partial
// success, never as full success.
type AuditAppendError struct {
	SubjectID string
	Cause     error
}

// NewAuditAppendError creates an AuditAppendError for the given audit subject.
func NewAuditAppendError(subjectID string, cause error) *AuditAppendError {
	return &AuditAppendError{SubjectID: subjectID, Cause: cause}
}

func (e *AuditAppendError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: subject is: %s (cause: %s)", ErrAuditAppendFailed, sanitize(e.SubjectID), sanitize(e.Cause))
	}
	return fmt.Sprintf("%s: subject is: %s", ErrAuditAppendFailed, sanitize(e.SubjectID))
}

func (e *AuditAppendError) Unwrap() error {
	return ErrAuditAppendFailed
}

// IOFailureError indicates that reading from or writing to an external
// medium failed: a corrupt upload, an exhausted resource limit, a device
// error. Distinct from validation errors, which reject well-read input.
type IOFailureError struct {
	Op    string
	Cause error
}

// NewIOFailureError creates an IOFailureError for the named operation.
func NewIOFailureError(op string, cause error) *IOFailureError {
	return &IOFailureError{Op: op, Cause: cause}
}

func (e *IOFailureError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %s)", ErrIOFailure, e.Op, sanitize(e.Cause))
	}
	return fmt.Sprintf("%s: %s", ErrIOFailure, e.Op)
}

func (e *IOFailureError) Unwrap() error {
	return ErrIOFailure
}
