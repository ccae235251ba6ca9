package auth

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Kind classifies every failure the request pipeline can produce.
type Kind int

const (
	KindUnknown Kind = iota
	KindAuthentication
	KindAuthorization
	KindValidation
	KindLogin
	KindNotFound
	KindAlreadyExists
)

// Status returns the HTTP status code for the kind
func (k Kind) Status() int {
	switch k {
	case KindAuthentication:
		return http.StatusUnauthorized
	case KindAuthorization:
		return http.StatusForbidden
	case KindValidation, KindLogin:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindAlreadyExists:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// Name is the error name written to the envelope
func (k Kind) Name() string {
	switch k {
	case KindAuthentication:
		return "AuthenticationError"
	case KindAuthorization:
		return "AuthorizationError"
	case KindValidation:
		return "ValidationError"
	case KindLogin:
		return "LoginError"
	case KindNotFound:
		return "NotFoundError"
	case KindAlreadyExists:
		return "AlreadyExistsError"
	default:
		return "InternalServerError"
	}
}

// DefaultMessage is used when an error of this kind carries no message
func (k Kind) DefaultMessage() string {
	switch k {
	case KindAuthentication:
		return "Authentication Error"
	case KindAuthorization:
		return "Authorization Error"
	case KindValidation:
		return "Invalid data format"
	case KindLogin:
		return "Wrong Credentials"
	case KindNotFound:
		return "Not Found"
	case KindAlreadyExists:
		return "Already Exists"
	default:
		return "Internal Server Error"
	}
}

func (k Kind) String() string {
	return k.Name()
}

// FieldIssue describes a single invalid field in a request payload
type FieldIssue struct {
	Field string `json:"field"`
	Issue string `json:"issue"`
}

func (f FieldIssue) String() string {
	return f.Field + ": " + f.Issue
}

// Error is the typed failure raised by pipeline stages and domain handlers.
type Error struct {
	Kind    Kind
	Message string
	Fields  []FieldIssue
	Cause   error
	// generic errors match any other error of the same kind in errors.Is
	generic bool
}

func (e *Error) Error() string {
	msg := e.message()
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind.Name(), msg, e.Cause)
	}
	return e.Kind.Name() + ": " + msg
}

// Unwrap returns the underlying cause, if any
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target is this error or a generic sentinel of the same kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok || t == nil {
		return false
	}
	if e == t {
		return true
	}
	return t.generic && t.Kind == e.Kind
}

// WithCause returns a copy of the error wrapping cause.
// The cause is never sent to clients.
func (e *Error) WithCause(cause error) *Error {
	clone := *e
	clone.generic = false
	clone.Cause = cause
	return &clone
}

func (e *Error) message() string {
	if e.Kind == KindValidation && len(e.Fields) > 0 {
		return flattenIssues(e.Fields)
	}
	if e.Message != "" {
		return e.Message
	}
	return e.Kind.DefaultMessage()
}

var (
	// ErrAuthentication matches any authentication failure
	ErrAuthentication = &Error{Kind: KindAuthentication, generic: true}
	// ErrAuthorization matches any authorization failure
	ErrAuthorization = &Error{Kind: KindAuthorization, generic: true}
	// ErrValidation matches any validation failure
	ErrValidation = &Error{Kind: KindValidation, generic: true}
	// ErrNotFound matches any not found failure
	ErrNotFound = &Error{Kind: KindNotFound, generic: true}
	// ErrAlreadyExists matches any conflict failure
	ErrAlreadyExists = &Error{Kind: KindAlreadyExists, generic: true}

	// ErrInvalidToken is returned for any token that fails verification:
	// bad signature, malformed, expired or missing claims all look the same.
	ErrInvalidToken = &Error{Kind: KindAuthentication, Message: "Authentication Error"}

	// ErrWrongCredentials is returned by the credential verifier for both
	// unknown accounts and wrong passwords.
	ErrWrongCredentials = &Error{Kind: KindAuthentication, Message: "Wrong Credentials"}

	// ErrLoginFailed is how the login endpoint reports a failed attempt
	ErrLoginFailed = &Error{Kind: KindLogin, Message: "Wrong Credentials"}

	// ErrMissingSigningKey prevents the token service from being built
	ErrMissingSigningKey = errors.New("auth: signing key is required")

	// ErrNoEmptyString is returned when hashing an empty password
	ErrNoEmptyString = errors.New("auth: password must not be empty")
)

// NewError creates an error of the given kind
func NewError(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Validation creates a validation error carrying every offending field
func Validation(issues ...FieldIssue) *Error {
	fields := make([]FieldIssue, len(issues))
	copy(fields, issues)
	return &Error{Kind: KindValidation, Fields: fields}
}

// NotFound creates a NotFoundError with a formatted message
func NotFound(format string, args ...any) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

// AlreadyExists creates an AlreadyExistsError with a formatted message
func AlreadyExists(format string, args ...any) *Error {
	return &Error{Kind: KindAlreadyExists, Message: fmt.Sprintf(format, args...)}
}

// KindOf returns the kind of the first *Error in err's chain
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

func flattenIssues(issues []FieldIssue) string {
	parts := make([]string, 0, len(issues))
	for _, issue := range issues {
		parts = append(parts, issue.String())
	}
	return strings.Join(parts, "; ")
}
