package domain

import "errors"

const (
	CodeValidation = "validation"
	CodeAuth       = "auth"
	CodeNotFound   = "not_found"
	CodeDuplicate  = "duplicate"
	CodeUpstream   = "upstream"
)

// Sentinels for store-level conditions that handlers branch on.
var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("record already exists")
)

type DomainError struct {
	Code    string
	Message string
	Err     error
}

func (e *DomainError) Error() string {
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

func NewValidation(message string) *DomainError {
	return &DomainError{Code: CodeValidation, Message: message}
}

func NewAuth(message string) *DomainError {
	return &DomainError{Code: CodeAuth, Message: message}
}

func NewNotFound(message string) *DomainError {
	return &DomainError{Code: CodeNotFound, Message: message, Err: ErrNotFound}
}

func NewDuplicate(message string) *DomainError {
	return &DomainError{Code: CodeDuplicate, Message: message, Err: ErrDuplicate}
}

func NewUpstream(message string, err error) *DomainError {
	return &DomainError{Code: CodeUpstream, Message: message, Err: err}
}

// Code extracts the taxonomy code from err, defaulting to upstream for
// anything that is not a DomainError.
func Code(err error) string {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Code
	}
	return CodeUpstream
}
