package services

import (
	"DentistAPI/repositories"
	"errors"
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// ErrorKind classifies a ServiceError for the HTTP layer.
type ErrorKind int

const (
	KindInternal ErrorKind = iota
	KindValidation
	KindAuth
	KindNotFound
	KindConflict
	KindPrivilege
)

// Error codes name the exact failure.
const (
	CodeInvalidPhoneFormat    = "InvalidPhoneFormat"
	CodeNotRegisteredByAdmin  = "NotRegisteredByAdmin"
	CodeAlreadySignedUp       = "AlreadySignedUp"
	CodeWeakPassword          = "WeakPassword"
	CodeNotRegistered         = "NotRegistered"
	CodeSignupPending         = "SignupPending"
	CodeWrongCredentials      = "WrongCredentials"
	CodeInsufficientPrivilege = "InsufficientPrivilege"
	CodeNoOpChange            = "NoOpChange"
	CodeDuplicatePhoneNumber  = "DuplicatePhoneNumber"
	CodeInvalidInput          = "InvalidInput"
	CodeNotFound              = "NotFound"
	CodeDuplicateEntry        = "DuplicateEntry"
	CodeReferencedByRecord    = "ReferencedByRecord"
	CodeInternal              = "Internal"
)

// ServiceError is the only error type services return to handlers.
type ServiceError struct {
	Kind    ErrorKind
	Code    string
	Message string
	Err     error
}

func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}

func newError(kind ErrorKind, code, message string) *ServiceError {
	return &ServiceError{Kind: kind, Code: code, Message: message}
}

func validationError(code string, err error) *ServiceError {
	return &ServiceError{Kind: KindValidation, Code: code, Message: err.Error(), Err: err}
}

func invalidInput(message string) *ServiceError {
	return newError(KindValidation, CodeInvalidInput, message)
}

// requestError wraps a failed request validation. Field errors stay reachable
// through Unwrap so the HTTP layer can report them.
func requestError(err error) *ServiceError {
	var internal validation.InternalError
	if errors.As(err, &internal) {
		return internalError(err)
	}
	return &ServiceError{Kind: KindValidation, Code: CodeInvalidInput, Message: "Invalid request body", Err: err}
}

// validate runs the request's own rules.
func validate(req validation.Validatable) error {
	if err := req.Validate(); err != nil {
		return requestError(err)
	}
	return nil
}

func notFound(message string) *ServiceError {
	return newError(KindNotFound, CodeNotFound, message)
}

func conflict(code, message string) *ServiceError {
	return newError(KindConflict, code, message)
}

func internalError(err error) *ServiceError {
	return &ServiceError{Kind: KindInternal, Code: CodeInternal, Message: "Something went wrong, try again later", Err: err}
}

// storeError maps a repository failure for the named entity kind.
func storeError(err error, kind string) *ServiceError {
	switch {
	case errors.Is(err, repositories.ErrNotFound):
		return notFound(kind + " does not exist")
	case errors.Is(err, repositories.ErrMissingReference):
		return &ServiceError{Kind: KindNotFound, Code: CodeNotFound, Message: kind + " refers to a record that does not exist", Err: err}
	case errors.Is(err, repositories.ErrDuplicate):
		return &ServiceError{Kind: KindConflict, Code: CodeDuplicateEntry, Message: kind + " already exists", Err: err}
	case errors.Is(err, repositories.ErrReferenced):
		return &ServiceError{Kind: KindConflict, Code: CodeReferencedByRecord, Message: kind + " is referenced by a patient record", Err: err}
	}
	return internalError(err)
}

// IsCode reports whether err is a ServiceError with the given code.
func IsCode(err error, code string) bool {
	var serr *ServiceError
	return errors.As(err, &serr) && serr.Code == code
}
