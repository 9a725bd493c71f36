// Package lambdaapi runs the wishlist API behind AWS API Gateway.
//
// One handler accepts both REST API (payload 1.0) and HTTP API or Function
// URL (payload 2.0) events; the payload version field selects the shape.
package lambdaapi

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambdacontext"

	"github.com/morgaesis/wishapp/api"
	"github.com/morgaesis/wishapp/internal/errs"
)

const payloadV2 = "2.0"

// Handler adapts gateway events to an api.Router.
type Handler struct {
	router *api.Router
	logger *slog.Logger
}

// NewHandler creates a gateway handler.
func NewHandler(router *api.Router, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{router: router, logger: logger}
}

type payloadVersion struct {
	Version string `json:"version"`
}

// Invoke handles one gateway event. Pass it to lambda.Start.
func (h *Handler) Invoke(ctx context.Context, payload json.RawMessage) (json.RawMessage, error) {
	var v payloadVersion
	if err := json.Unmarshal(payload, &v); err != nil {
		return nil, fmt.Errorf("decode gateway event: %w", err)
	}

	if v.Version == payloadV2 {
		var event events.APIGatewayV2HTTPRequest
		if err := json.Unmarshal(payload, &event); err != nil {
			return nil, fmt.Errorf("decode v2 gateway event: %w", err)
		}
		return json.Marshal(h.HandleV2(ctx, event))
	}

	var event events.APIGatewayProxyRequest
	if err := json.Unmarshal(payload, &event); err != nil {
		return nil, fmt.Errorf("decode v1 gateway event: %w", err)
	}
	return json.Marshal(h.HandleV1(ctx, event))
}

// HandleV1 serves a REST API proxy event.
func (h *Handler) HandleV1(ctx context.Context, event events.APIGatewayProxyRequest) events.APIGatewayProxyResponse {
	resp := h.serve(ctx, event.HTTPMethod, event.Path, event.Body, event.IsBase64Encoded,
		requestID(ctx, event.RequestContext.RequestID))
	return events.APIGatewayProxyResponse{
		StatusCode: resp.StatusCode,
		Headers:    resp.Headers,
		Body:       string(resp.Body),
	}
}

// HandleV2 serves an HTTP API or Function URL event.
func (h *Handler) HandleV2(ctx context.Context, event events.APIGatewayV2HTTPRequest) events.APIGatewayV2HTTPResponse {
	method := event.RequestContext.HTTP.Method
	path := event.RawPath
	if path == "" {
		path = event.RequestContext.HTTP.Path
	}
	resp := h.serve(ctx, method, path, event.Body, event.IsBase64Encoded,
		requestID(ctx, event.RequestContext.RequestID))
	return events.APIGatewayV2HTTPResponse{
		StatusCode: resp.StatusCode,
		Headers:    resp.Headers,
		Body:       string(resp.Body),
	}
}

func (h *Handler) serve(ctx context.Context, method, path, body string, isBase64 bool, reqID string) api.Response {
	raw := []byte(body)
	if isBase64 {
		decoded, err := base64.StdEncoding.DecodeString(body)
		if err != nil {
			h.logger.Debug("undecodable base64 body", "requestID", reqID, "error", err)
			return api.ErrorResponse(errs.NewSerialization(err))
		}
		raw = decoded
	}

	return h.router.Serve(ctx, api.Request{
		Method:    method,
		Path:      path,
		Body:      raw,
		RequestID: reqID,
	})
}

// requestID prefers the gateway's id and falls back to the invocation's.
func requestID(ctx context.Context, gatewayID string) string {
	if gatewayID != "" {
		return gatewayID
	}
	if lc, ok := lambdacontext.FromContext(ctx); ok {
		return lc.AwsRequestID
	}
	return ""
}
