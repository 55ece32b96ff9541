// Package failure defines the error taxonomy shared by the server-side
// managers, the REST resources and the REST client.
package failure

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrInjectedFault marks store faults injected by tests. Managers log faults
// wrapping it at debug level instead of info.
var ErrInjectedFault = errors.New("injected fault")

// ObjectNotFoundError reports that an external identifier does not resolve
// to a persisted entity.
type ObjectNotFoundError struct {
	UUID string
}

// NewObjectNotFound creates an ObjectNotFoundError for uuid.
func NewObjectNotFound(uuid string) *ObjectNotFoundError {
	return &ObjectNotFoundError{UUID: uuid}
}

func (e *ObjectNotFoundError) Error() string {
	if e.UUID == "" {
		return "object not found"
	}
	return fmt.Sprintf("object not found: %s", e.UUID)
}

// PersistenceError wraps a fault reported by the store during an otherwise
// valid operation.
type PersistenceError struct {
	Op   string
	UUID string
	Err  error
}

// NewPersistence wraps err with the operation description and, when known,
// the external identifier.
func NewPersistence(op string, err error, uuid string) *PersistenceError {
	return &PersistenceError{Op: op, UUID: uuid, Err: err}
}

func (e *PersistenceError) Error() string {
	if e.UUID != "" {
		return fmt.Sprintf("%s (%s): %v", e.Op, e.UUID, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// VersionConflictError reports that the caller's version does not match the
// stored version of the entity.
type VersionConflictError struct {
	UUID     string
	Expected int
	Actual   int
}

func (e *VersionConflictError) Error() string {
	return fmt.Sprintf("version conflict on %s: expected %d, stored %d", e.UUID, e.Expected, e.Actual)
}

// RestClientFailureError is returned by the REST client when the server
// answers with a status that is neither success nor a recognised not-found.
type RestClientFailureError struct {
	Status int
}

// NewRestClientFailure creates a RestClientFailureError for status.
func NewRestClientFailure(status int) *RestClientFailureError {
	return &RestClientFailureError{Status: status}
}

func (e *RestClientFailureError) Error() string {
	return fmt.Sprintf("rest client failure: %d %s", e.Status, http.StatusText(e.Status))
}

// IsObjectNotFound reports whether err is or wraps an ObjectNotFoundError.
func IsObjectNotFound(err error) bool {
	var target *ObjectNotFoundError
	return errors.As(err, &target)
}

// IsPersistence reports whether err is or wraps a PersistenceError.
func IsPersistence(err error) bool {
	var target *PersistenceError
	return errors.As(err, &target)
}

// IsVersionConflict reports whether err is or wraps a VersionConflictError.
func IsVersionConflict(err error) bool {
	var target *VersionConflictError
	return errors.As(err, &target)
}

// StatusOf returns the HTTP status carried by a RestClientFailureError, or 0.
func StatusOf(err error) int {
	var target *RestClientFailureError
	if errors.As(err, &target) {
		return target.Status
	}
	return 0
}
