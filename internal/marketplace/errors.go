package marketplace

import "errors"

var (
	ErrDuplicateIdentity  = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("wrong password or username")
	ErrUnauthenticated    = errors.New("not authenticated")
	ErrNotFound           = errors.New("resource not found")
	ErrInvalidInput       = errors.New("invalid input")
	ErrForbidden          = errors.New("forbidden")
	ErrInvalidState       = errors.New("invalid state transition")
)

// Error codes travel over HTTP so the remote client can rebuild the sentinel.
const (
	CodeDuplicateIdentity  = "duplicate_identity"
	CodeInvalidCredentials = "invalid_credentials"
	CodeUnauthenticated    = "unauthenticated"
	CodeNotFound           = "not_found"
	CodeInvalidInput       = "invalid_input"
	CodeForbidden          = "forbidden"
	CodeInvalidState       = "invalid_state"
	CodeInternal           = "internal_error"
)

var codes = []struct {
	code string
	err  error
}{
	{CodeDuplicateIdentity, ErrDuplicateIdentity},
	{CodeInvalidCredentials, ErrInvalidCredentials},
	{CodeUnauthenticated, ErrUnauthenticated},
	{CodeNotFound, ErrNotFound},
	{CodeInvalidInput, ErrInvalidInput},
	{CodeForbidden, ErrForbidden},
	{CodeInvalidState, ErrInvalidState},
}

// ErrorCode classifies err into one of the Code constants.
func ErrorCode(err error) string {
	for _, c := range codes {
		if errors.Is(err, c.err) {
			return c.code
		}
	}
	return CodeInternal
}

// ErrorForCode is the inverse of ErrorCode; unknown codes yield nil.
func ErrorForCode(code string) error {
	for _, c := range codes {
		if c.code == code {
			return c.err
		}
	}
	return nil
}
