package errno

import (
	"errors"
	"net/http"
)

// Kind classifies an expected failure so the HTTP layer can pick a status code.
type Kind uint8

const (
	Internal Kind = iota
	Validation
	NotFound
	Authorization
	Authentication
	Conflict
	Credentials
)

func (k Kind) String() string {
	switch k {
	case Validation:
		return "validation"
	case NotFound:
		return "not_found"
	case Authorization:
		return "authorization"
	case Authentication:
		return "authentication"
	case Conflict:
		return "conflict"
	case Credentials:
		return "credentials"
	default:
		return "internal"
	}
}

// Status is the HTTP status code a failure of this kind is reported with.
func (k Kind) Status() int {
	switch k {
	case Validation, Conflict, Credentials:
		return http.StatusBadRequest
	case NotFound:
		return http.StatusNotFound
	case Authorization:
		return http.StatusForbidden
	case Authentication:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// Error is a failure whose message is safe to return to a client.
type Error struct {
	Kind Kind
	Msg  string
}

func New(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Msg: msg}
}

func (e *Error) Error() string {
	return e.Msg
}

// KindOf reports the kind of the first *Error in err's chain, or Internal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Internal
}

// As returns the *Error in err's chain, if any.
func As(err error) (*Error, bool) {
	var e *Error
	ok := errors.As(err, &e)
	return e, ok
}

var (
	ErrInvalidToken = New(Authentication, "invalid token")

	ErrMissingSignupFields = New(Validation, "channelName, email and password are required")
	ErrMissingLogo         = New(Validation, "Logo image is required")
	ErrEmailTaken          = New(Conflict, "Email already registered")
	ErrEmailNotRegistered  = New(NotFound, "Email not registered")
	ErrInvalidPassword     = New(Credentials, "Invalid password")
	ErrAccountNotFound     = New(NotFound, "User not found")
	ErrSubscribeSelf       = New(Validation, "Cannot subscribe to your own channel")
	ErrAlreadySubscribed   = New(Conflict, "Already subscribed")
	ErrNotSubscribed       = New(Conflict, "Not subscribed")

	ErrMissingMedia     = New(Validation, "Video and thumbnail files are required")
	ErrVideoNotFound    = New(NotFound, "Video not found")
	ErrVideoForbidden   = New(Authorization, "You don't have permission to modify this video")
	ErrAlreadyLiked     = New(Conflict, "Already liked")
	ErrAlreadyDisliked  = New(Conflict, "Already disliked")
	ErrCommentNotFound  = New(NotFound, "Comment not found")
	ErrCommentForbidden = New(Authorization, "Unauthorized")
	ErrEmptyComment     = New(Validation, "Comment text is required")
)
