package apperrors

import (
  "errors"
  "fmt"
  "net/http"
)

// Kind classifies an error for the HTTP boundary.
type Kind int

const (
  KindValidation Kind = iota
  KindDuplicateUser
  KindNotFound
  KindProvider
  KindConfiguration
  KindPersistence
)

// Error carries a user-facing message, a classification and an optional
// wrapped cause. Handlers map Kind to an HTTP status and decide whether the
// cause detail is safe to expose.
type Error struct {
  Kind    Kind
  Message string
  Err     error
}

func (e *Error) Error() string {
  if e.Err != nil {
    return fmt.Sprintf("%s: %v", e.Message, e.Err)
  }
  return e.Message
}

func (e *Error) Unwrap() error {
  return e.Err
}

func Validation(msg string) *Error {
  return &Error{Kind: KindValidation, Message: msg}
}

func DuplicateUser(msg string) *Error {
  return &Error{Kind: KindDuplicateUser, Message: msg}
}

func NotFound(msg string) *Error {
  return &Error{Kind: KindNotFound, Message: msg}
}

func Provider(msg string, cause error) *Error {
  return &Error{Kind: KindProvider, Message: msg, Err: cause}
}

func Configuration(msg string) *Error {
  return &Error{Kind: KindConfiguration, Message: msg}
}

func Persistence(msg string, cause error) *Error {
  return &Error{Kind: KindPersistence, Message: msg, Err: cause}
}

// IsKind reports whether err (or anything it wraps) is an *Error of kind k.
func IsKind(err error, k Kind) bool {
  var ae *Error
  if errors.As(err, &ae) {
    return ae.Kind == k
  }
  return false
}

// HTTPStatus maps an error to the status code the API layer should answer
// with. Anything unclassified is an internal error.
func HTTPStatus(err error) int {
  var ae *Error
  if !errors.As(err, &ae) {
    return http.StatusInternalServerError
  }
  switch ae.Kind {
  case KindValidation, KindDuplicateUser:
    return http.StatusBadRequest
  case KindNotFound:
    return http.StatusNotFound
  default:
    return http.StatusInternalServerError
  }
}

// PublicMessage returns the message safe to show a client for err.
func PublicMessage(err error) string {
  var ae *Error
  if errors.As(err, &ae) {
    return ae.Message
  }
  return "internal server error"
}
