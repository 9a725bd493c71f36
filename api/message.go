package api

import (
	"encoding/json"
	"net/http"

	"github.com/morgaesis/wishapp/internal/errs"
)

const contentTypeJSON = "application/json"

// Request is a transport-independent inbound request.
type Request struct {
	Method string
	Path   string
	Body   []byte

	// RequestID correlates log lines; transports set it when they have one.
	RequestID string
}

// Response is a transport-independent outbound response.
type Response struct {
	StatusCode int
	Headers    map[string]string
	Body       []byte
}

// JSON builds a response with v encoded as its body.
func JSON(status int, v any) (Response, error) {
	body, err := json.Marshal(v)
	if err != nil {
		return Response{}, errs.Wrap(errs.Generic, "encode response", err)
	}
	return Response{
		StatusCode: status,
		Headers:    map[string]string{"Content-Type": contentTypeJSON},
		Body:       body,
	}, nil
}

// NoContent builds an empty 204 response.
func NoContent() Response {
	return Response{StatusCode: http.StatusNoContent}
}

// ErrorResponse renders err through the error taxonomy.
func ErrorResponse(err error) Response {
	status, body := errs.Render(err)
	return Response{
		StatusCode: status,
		Headers:    map[string]string{"Content-Type": contentTypeJSON},
		Body:       body,
	}
}
