package vesting

import (
	"errors"
	"fmt"
)

// Sentinel errors for every rejection the registry can make. All are
// synchronous and reported before any state change; none are retried
// internally.
var (
	ErrNonPositiveVestingAmount = errors.New("NonPositiveVestingAmount")
	ErrCannotBeZero             = errors.New("CannotBeZero")
	ErrProgramNotStarted        = errors.New("ProgramNotStarted")
	ErrProgramAlreadyStarted    = errors.New("ProgramAlreadyStarted")
	ErrCapExceeded              = errors.New("CapExceeded")
	ErrUnauthorized             = errors.New("Unauthorized")
	ErrScheduleNotFound         = errors.New("ScheduleNotFound")
	ErrIndexOutOfBounds         = errors.New("IndexOutOfBounds")
	ErrScheduleRevoked          = errors.New("ScheduleRevoked")
	ErrAlreadyRevoked           = errors.New("AlreadyRevoked")
	ErrNotRevocable             = errors.New("NotRevocable")
	ErrFundAlreadyStarted       = errors.New("AlreadyStarted")
	ErrInsufficientVested       = errors.New("InsufficientVested")
	ErrServicePaused            = errors.New("ServicePaused")
	ErrDuplicateScheduleID      = errors.New("DuplicateScheduleID")
	ErrInvalidUserAddress       = errors.New("InvalidUserAddress")
)

func ErrInvalidCategory(name string) error {
	return fmt.Errorf("InvalidCategory: %s", name)
}

func ErrInvalidAmount(entity, value string) error {
	return fmt.Errorf("InvalidAmount for %s with value %s", entity, value)
}

// CustomError carries an HTTP-style status code for storage and internal
// faults that are not part of the validation taxonomy.
type CustomError struct {
	Code    int
	Message string
	Err     error
}

func (e *CustomError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%d] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%d] %s", e.Code, e.Message)
}

func (e *CustomError) Unwrap() error {
	return e.Err
}

func NewCustomError(code int, message string, err error) *CustomError {
	return &CustomError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}
