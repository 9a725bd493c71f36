// Package stream turns DynamoDB Streams records from the wishlist table into
// typed change notifications.
package stream

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aws/aws-lambda-go/events"

	"github.com/morgaesis/wishapp/wishlist"
)

// ChangeType is the kind of table mutation.
type ChangeType string

const (
	Insert ChangeType = "INSERT"
	Modify ChangeType = "MODIFY"
	Remove ChangeType = "REMOVE"
)

// Change is one decoded stream record. Old is nil for inserts and New is nil
// for removals, or whenever the stream view type omits that image.
type Change struct {
	Type    ChangeType
	ID      string
	EventID string
	Old     *wishlist.Wishlist
	New     *wishlist.Wishlist
}

// Sink receives changes in stream order. A returned error stops the batch at
// that record so Lambda retries from there.
type Sink interface {
	Handle(ctx context.Context, c Change) error
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(ctx context.Context, c Change) error

// Handle calls f.
func (f SinkFunc) Handle(ctx context.Context, c Change) error {
	return f(ctx, c)
}

// LogSink writes each change as a structured log line.
type LogSink struct {
	Logger *slog.Logger
}

// Handle logs c.
func (s LogSink) Handle(ctx context.Context, c Change) error {
	logger := s.Logger
	if logger == nil {
		logger = slog.Default()
	}
	attrs := []any{
		"type", string(c.Type),
		"wishlistID", c.ID,
		"eventID", c.EventID,
	}
	if c.Old != nil {
		attrs = append(attrs, "oldItemCount", len(c.Old.Items))
	}
	if c.New != nil {
		attrs = append(attrs, "owner", c.New.Owner, "newItemCount", len(c.New.Items))
	}
	logger.InfoContext(ctx, "wishlist changed", attrs...)
	return nil
}

// Handler processes DynamoDB stream events for the wishlist table.
type Handler struct {
	sink   Sink
	logger *slog.Logger
}

// NewHandler creates a stream handler. A nil sink logs changes.
func NewHandler(sink Sink, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	if sink == nil {
		sink = LogSink{Logger: logger}
	}
	return &Handler{
		sink:   sink,
		logger: logger,
	}
}

// HandleEvent delivers every record in the batch to the sink. Records whose
// images cannot be decoded are logged and skipped. When the sink fails, the
// failed record is reported as a batch item failure and the rest of the batch
// is left for the retry.
//
// This function is designed to be used as an AWS Lambda handler with
// ReportBatchItemFailures enabled on the event source mapping.
func (h *Handler) HandleEvent(ctx context.Context, event events.DynamoDBEvent) (events.DynamoDBEventResponse, error) {
	var resp events.DynamoDBEventResponse
	for _, record := range event.Records {
		change, err := h.decode(record)
		if err != nil {
			h.logger.Warn("skipping undecodable stream record",
				"eventID", record.EventID,
				"eventName", record.EventName,
				"error", err,
			)
			continue
		}

		if err := h.sink.Handle(ctx, change); err != nil {
			h.logger.Error("failed to handle change",
				"eventID", record.EventID,
				"wishlistID", change.ID,
				"error", err,
			)
			resp.BatchItemFailures = append(resp.BatchItemFailures, events.DynamoDBBatchItemFailure{
				ItemIdentifier: record.Change.SequenceNumber,
			})
			return resp, nil
		}
	}
	return resp, nil
}

func (h *Handler) decode(record events.DynamoDBEventRecord) (Change, error) {
	change := Change{
		Type:    ChangeType(record.EventName),
		EventID: record.EventID,
	}
	switch change.Type {
	case Insert, Modify, Remove:
	default:
		return Change{}, fmt.Errorf("unknown event name %q", record.EventName)
	}

	old, err := decodeImage(record.Change.OldImage)
	if err != nil {
		return Change{}, fmt.Errorf("old image: %w", err)
	}
	updated, err := decodeImage(record.Change.NewImage)
	if err != nil {
		return Change{}, fmt.Errorf("new image: %w", err)
	}
	change.Old = old
	change.New = updated

	if v, ok := record.Change.Keys[wishlist.AttrID]; ok && v.DataType() == events.DataTypeString {
		change.ID = v.String()
	}
	switch {
	case change.ID != "":
	case updated != nil:
		change.ID = updated.ID
	case old != nil:
		change.ID = old.ID
	default:
		return Change{}, fmt.Errorf("record has no %s key", wishlist.AttrID)
	}
	return change, nil
}

func decodeImage(image map[string]events.DynamoDBAttributeValue) (*wishlist.Wishlist, error) {
	if len(image) == 0 {
		return nil, nil
	}
	item, err := ConvertImage(image)
	if err != nil {
		return nil, err
	}
	w, err := wishlist.FromAttributes(item)
	if err != nil {
		return nil, err
	}
	return &w, nil
}
