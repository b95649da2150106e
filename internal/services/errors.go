package services

import (
	"errors"
	"sort"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation"
)

// Kind classifies a failure so the HTTP boundary can pick a status code
// without inspecting error strings.
type Kind int

const (
	KindUnexpected Kind = iota
	KindClientInput
	KindUnauthenticated
	KindNotFound
	KindConflict
	KindValidation
	KindUnavailable
)

type kindError struct {
	kind Kind
	msg  string
}

func (e *kindError) Error() string { return e.msg }

func newError(kind Kind, msg string) error {
	return &kindError{kind: kind, msg: msg}
}

var (
	// Sign-in
	ErrMissingIDToken      = newError(KindClientInput, "identity token is required")
	ErrVerifierUnavailable = newError(KindUnavailable, "identity verifier is not configured")
	ErrAssertionInvalid    = newError(KindUnauthenticated, "identity assertion is invalid")
	ErrIncompletePayload   = newError(KindUnauthenticated, "identity assertion is missing required claims")
	ErrEmailUnverified     = newError(KindUnauthenticated, "identity email is not verified")

	// User resolution
	ErrValidationFailed  = newError(KindValidation, "validation failed")
	ErrDuplicateIdentity = newError(KindConflict, "duplicate identity")
	ErrUnknownUser       = newError(KindUnauthenticated, "user not found")

	// Token codec
	ErrSigningUnavailable = newError(KindUnavailable, "token signing secret is not configured")
	ErrInvalidSubject     = newError(KindUnexpected, "token subject must be a persisted user id")
	ErrTokenExpired       = newError(KindUnauthenticated, "token expired")
	ErrTokenMalformed     = newError(KindUnauthenticated, "token malformed")
	ErrMissingClaim       = newError(KindUnauthenticated, "token missing user_id claim")

	// Request authentication
	ErrMissingCredential = newError(KindUnauthenticated, "missing authorization token")
	ErrAccountInactive   = newError(KindUnauthenticated, "account inactive")

	// Resources
	ErrNotFound = newError(KindNotFound, "record not found")
)

// KindOf returns the kind of the first classified error in err's chain.
func KindOf(err error) Kind {
	var ke *kindError
	if errors.As(err, &ke) {
		return ke.kind
	}
	return KindUnexpected
}

// ValidationError carries per-field messages produced by ozzo-validation.
type ValidationError struct {
	Fields validation.Errors
}

func (e *ValidationError) Error() string {
	return "validation failed: " + e.Fields.Error()
}

func (e *ValidationError) Unwrap() error { return ErrValidationFailed }

// Messages renders the field errors as sorted, human readable sentences,
// e.g. "Phone number cannot be blank".
func (e *ValidationError) Messages() []string {
	out := make([]string, 0, len(e.Fields))
	for field, err := range e.Fields {
		if err == nil {
			continue
		}
		out = append(out, humanize(field)+" "+err.Error())
	}
	sort.Strings(out)
	return out
}

// asValidationError converts ozzo field errors into a ValidationError and
// passes any other error through untouched.
func asValidationError(err error) error {
	if err == nil {
		return nil
	}
	var fields validation.Errors
	if errors.As(err, &fields) {
		return &ValidationError{Fields: fields}
	}
	return err
}

func humanize(field string) string {
	s := strings.ReplaceAll(field, "_", " ")
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
