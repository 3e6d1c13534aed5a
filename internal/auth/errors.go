package auth

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for backend error codes. Match with errors.Is.
var (
	ErrEmailNotFound   = errors.New("no account exists for this email")
	ErrInvalidPassword = errors.New("the email or password is incorrect")
	ErrEmailExists     = errors.New("an account already exists for this email")
	ErrWeakPassword    = errors.New("the password is too weak")
	ErrInvalidEmail    = errors.New("the email address is not valid")
	ErrUserDisabled    = errors.New("this account has been disabled")
	ErrTooManyAttempts = errors.New("too many attempts, try again later")
	ErrMissingAPIKey   = errors.New("the API key is missing or invalid")
	ErrInvalidIDToken  = errors.New("the session is no longer valid")
	ErrMissingPassword = errors.New("a password is required")
	ErrMissingEmail    = errors.New("an email is required")
	ErrInvalidOobCode  = errors.New("the reset code is invalid or expired")
)

// codeErrors maps backend error codes to sentinel errors
var codeErrors = map[string]error{
	CodeEmailNotFound:           ErrEmailNotFound,
	CodeInvalidPassword:         ErrInvalidPassword,
	CodeInvalidLoginCredentials: ErrInvalidPassword,
	CodeEmailExists:             ErrEmailExists,
	CodeWeakPassword:            ErrWeakPassword,
	CodeInvalidEmail:            ErrInvalidEmail,
	CodeUserDisabled:            ErrUserDisabled,
	CodeTooManyAttempts:         ErrTooManyAttempts,
	CodeMissingAPIKey:           ErrMissingAPIKey,
	CodeInvalidAPIKey:           ErrMissingAPIKey,
	CodeInvalidIDToken:          ErrInvalidIDToken,
	CodeMissingPassword:         ErrMissingPassword,
	CodeMissingEmail:            ErrMissingEmail,
	CodeInvalidOobCode:          ErrInvalidOobCode,
	CodeExpiredOobCode:          ErrInvalidOobCode,
}

// Backend error codes, as carried in error.message
const (
	CodeEmailNotFound           = "EMAIL_NOT_FOUND"
	CodeInvalidPassword         = "INVALID_PASSWORD"
	CodeInvalidLoginCredentials = "INVALID_LOGIN_CREDENTIALS"
	CodeEmailExists             = "EMAIL_EXISTS"
	CodeWeakPassword            = "WEAK_PASSWORD"
	CodeInvalidEmail            = "INVALID_EMAIL"
	CodeUserDisabled            = "USER_DISABLED"
	CodeTooManyAttempts         = "TOO_MANY_ATTEMPTS_TRY_LATER"
	CodeMissingAPIKey           = "MISSING_API_KEY"
	CodeInvalidAPIKey           = "API_KEY_INVALID"
	CodeInvalidIDToken          = "INVALID_ID_TOKEN"
	CodeMissingPassword         = "MISSING_PASSWORD"
	CodeMissingEmail            = "MISSING_EMAIL"
	CodeInvalidOobCode          = "INVALID_OOB_CODE"
	CodeExpiredOobCode          = "EXPIRED_OOB_CODE"
	CodeInvalidRequestType      = "INVALID_REQ_TYPE"
)

// APIError is an error response from the auth backend
type APIError struct {
	Status  int    // HTTP status
	Code    string // e.g. EMAIL_NOT_FOUND
	Message string // detail after "CODE : ", if any
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("auth backend: %s (%d): %s", e.Code, e.Status, e.Message)
	}
	return fmt.Sprintf("auth backend: %s (%d)", e.Code, e.Status)
}

// Unwrap returns the sentinel error for the code, if known.
func (e *APIError) Unwrap() error {
	return codeErrors[e.Code]
}

// newAPIError splits a backend message like "WEAK_PASSWORD : Password
// should be at least 6 characters" into code and detail.
func newAPIError(status int, message string) *APIError {
	code, detail, _ := strings.Cut(message, " : ")
	return &APIError{
		Status:  status,
		Code:    strings.TrimSpace(code),
		Message: strings.TrimSpace(detail),
	}
}

// Message returns the single line shown to the user for err.
func Message(err error) string {
	if err == nil {
		return ""
	}
	for _, sentinel := range codeErrors {
		if errors.Is(err, sentinel) {
			return capitalize(sentinel.Error())
		}
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return fmt.Sprintf("Request failed (%s)", apiErr.Code)
	}
	return "Could not reach the authentication service"
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
