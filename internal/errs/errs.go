// Package errs defines the closed set of API error kinds and the one table
// that maps them to HTTP status codes.
//
// Handlers return *Error values (or plain errors, which classify as Generic);
// transports call Status and Body to render them. Nothing else in the module
// writes error status codes.
package errs

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an error for the client.
type Kind int

const (
	// Generic is any error that was not classified.
	Generic Kind = iota
	// NotFound means the addressed wishlist or route does not exist.
	NotFound
	// BadRequest means the request payload failed validation.
	BadRequest
	// MissingID means a request body lacked the required id field.
	MissingID
	// Serialization means the request body was not valid JSON for the operation.
	Serialization
	// BackingStore means the persistence layer failed.
	BackingStore
	// MethodNotAllowed means no route accepts the request method.
	MethodNotAllowed
	// TooManyRequests means the caller was rate limited.
	TooManyRequests
)

var kindNames = map[Kind]string{
	Generic:          "Generic",
	NotFound:         "NotFound",
	BadRequest:       "BadRequest",
	MissingID:        "MissingId",
	Serialization:    "Serialization",
	BackingStore:     "BackingStoreError",
	MethodNotAllowed: "MethodNotAllowed",
	TooManyRequests:  "TooManyRequests",
}

// statusByKind is the only place status codes for errors are decided.
var statusByKind = map[Kind]int{
	Generic:          http.StatusInternalServerError,
	NotFound:         http.StatusNotFound,
	BadRequest:       http.StatusBadRequest,
	MissingID:        http.StatusBadRequest,
	Serialization:    http.StatusBadRequest,
	BackingStore:     http.StatusInternalServerError,
	MethodNotAllowed: http.StatusMethodNotAllowed,
	TooManyRequests:  http.StatusTooManyRequests,
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Status returns the HTTP status code for the kind.
func (k Kind) Status() int {
	if status, ok := statusByKind[k]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// Error is a classified API error.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New returns an error of the given kind.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap returns an error of the given kind carrying cause.
func Wrap(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Err: cause}
}

// NewNotFound reports a missing wishlist or route.
func NewNotFound(message string) *Error {
	return New(NotFound, message)
}

// NewBadRequest reports a payload that parsed but failed validation.
func NewBadRequest(message string) *Error {
	return New(BadRequest, message)
}

// NewMissingID reports a body without an id.
func NewMissingID() *Error {
	return New(MissingID, "missing id in request body")
}

// NewSerialization reports a body that could not be decoded.
func NewSerialization(cause error) *Error {
	return Wrap(Serialization, "invalid request body", cause)
}

// NewBackingStore reports a persistence failure.
func NewBackingStore(cause error) *Error {
	return Wrap(BackingStore, "backing store failure", cause)
}

// NewMethodNotAllowed reports a method no route accepts.
func NewMethodNotAllowed(method string) *Error {
	return New(MethodNotAllowed, fmt.Sprintf("method %s not allowed", method))
}

// KindOf classifies err. Errors that are not *Error are Generic.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Generic
}

// Status returns the HTTP status code for err.
func Status(err error) int {
	return KindOf(err).Status()
}

// PublicMessage returns the message safe to show a client. Server-side
// failures never expose their cause.
func PublicMessage(err error) string {
	status := Status(err)
	if status >= http.StatusInternalServerError {
		return http.StatusText(http.StatusInternalServerError)
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return http.StatusText(status)
}

// Body is the JSON error payload.
type Body struct {
	Error string `json:"error"`
}

// Render returns the status code and JSON body for err.
func Render(err error) (int, []byte) {
	body, marshalErr := json.Marshal(Body{Error: PublicMessage(err)})
	if marshalErr != nil {
		body = []byte(`{"error":"Internal Server Error"}`)
	}
	return Status(err), body
}
