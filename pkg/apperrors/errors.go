// Package apperrors defines the error taxonomy the API maps onto HTTP
// status codes: validation problems, missing records, policy rejections
// from the assignment gate, and write races on the shift binding.
package apperrors

import (
	"errors"
	"fmt"
)

// ValidationError reports missing or malformed caller input. Never retried.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

// Validationf builds a ValidationError from a format string.
func Validationf(format string, args ...any) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// NotFoundError reports a referenced record that does not exist or is
// outside the caller's tenant.
type NotFoundError struct {
	Resource string
	ID       uint
}

func (e *NotFoundError) Error() string {
	if e.ID != 0 {
		return fmt.Sprintf("%s %d not found", e.Resource, e.ID)
	}
	return e.Resource + " not found"
}

// NotFound builds a NotFoundError for a resource/id pair.
func NotFound(resource string, id uint) error {
	return &NotFoundError{Resource: resource, ID: id}
}

// AssignmentBlockedError is a policy rejection, not a system fault: the
// candidate failed the confidence/conflict gate and force was not set.
type AssignmentBlockedError struct {
	ShiftID    uint
	EmployeeID uint
	Msg        string
}

func (e *AssignmentBlockedError) Error() string {
	return fmt.Sprintf("assignment blocked for shift %d: %s (retry with force, or pick another candidate)", e.ShiftID, e.Msg)
}

// ErrShiftTaken is returned when a conditional assignment update finds the
// shift's binding changed between read and write.
var ErrShiftTaken = errors.New("shift assignment changed concurrently, reload suggestions and retry")

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsNotFound reports whether err is a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// IsBlocked reports whether err is an AssignmentBlockedError.
func IsBlocked(err error) bool {
	var ab *AssignmentBlockedError
	return errors.As(err, &ab)
}
