package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/smithy-go"

	"github.com/morgaesis/wishapp/wishlist"
)

// existsCondition guards Replace and Delete.
const existsCondition = "attribute_exists(#id)"

// Dynamo stores wishlists in a DynamoDB table keyed by id.
type Dynamo struct {
	client DynamoDBClient
	config Config
	logger *slog.Logger
}

// NewDynamo creates a Dynamo store.
func NewDynamo(client DynamoDBClient, config Config, logger *slog.Logger) *Dynamo {
	config.validate()
	if logger == nil {
		logger = slog.Default()
	}
	return &Dynamo{
		client: client,
		config: config,
		logger: logger,
	}
}

// TableName returns the table this store reads and writes.
func (s *Dynamo) TableName() string {
	return s.config.TableName
}

// Get retrieves a wishlist with a strongly consistent read.
func (s *Dynamo) Get(ctx context.Context, id string) (wishlist.Wishlist, error) {
	result, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(s.config.TableName),
		Key:            wishlist.Key(id),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return wishlist.Wishlist{}, s.storeError("get", id, err)
	}
	if result.Item == nil {
		return wishlist.Wishlist{}, ErrNotFound
	}

	w, err := wishlist.FromAttributes(result.Item)
	if err != nil {
		return wishlist.Wishlist{}, fmt.Errorf("decode wishlist %s: %w", id, err)
	}
	return w, nil
}

// Put writes the whole record unconditionally.
func (s *Dynamo) Put(ctx context.Context, w wishlist.Wishlist) error {
	_, err := s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.config.TableName),
		Item:      wishlist.ToAttributes(w),
	})
	if err != nil {
		return s.storeError("put", w.ID, err)
	}
	return nil
}

// Replace overwrites an existing record. The existence check is evaluated by
// DynamoDB as part of the write.
func (s *Dynamo) Replace(ctx context.Context, w wishlist.Wishlist) error {
	_, err := s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:                aws.String(s.config.TableName),
		Item:                     wishlist.ToAttributes(w),
		ConditionExpression:      aws.String(existsCondition),
		ExpressionAttributeNames: map[string]string{"#id": wishlist.AttrID},
	})
	if err != nil {
		var condErr *types.ConditionalCheckFailedException
		if errors.As(err, &condErr) {
			return ErrNotFound
		}
		return s.storeError("replace", w.ID, err)
	}
	return nil
}

// Delete removes an existing record.
func (s *Dynamo) Delete(ctx context.Context, id string) error {
	_, err := s.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName:                aws.String(s.config.TableName),
		Key:                      wishlist.Key(id),
		ConditionExpression:      aws.String(existsCondition),
		ExpressionAttributeNames: map[string]string{"#id": wishlist.AttrID},
	})
	if err != nil {
		var condErr *types.ConditionalCheckFailedException
		if errors.As(err, &condErr) {
			return ErrNotFound
		}
		return s.storeError("delete", id, err)
	}
	return nil
}

// Scan reads the whole table, following pagination to the end.
// Items that do not decode as wishlists are logged and skipped.
func (s *Dynamo) Scan(ctx context.Context) ([]wishlist.Wishlist, error) {
	wishlists := []wishlist.Wishlist{}

	paginator := dynamodb.NewScanPaginator(s.client, &dynamodb.ScanInput{
		TableName: aws.String(s.config.TableName),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, s.storeError("scan", "", err)
		}
		for _, item := range page.Items {
			w, err := wishlist.FromAttributes(item)
			if err != nil {
				s.logger.Warn("skipping undecodable item",
					"table", s.config.TableName,
					"error", err,
				)
				continue
			}
			wishlists = append(wishlists, w)
		}
	}

	return wishlists, nil
}

// storeError wraps a DynamoDB failure with the operation and, when the service
// returned one, its error code.
func (s *Dynamo) storeError(op, id string, err error) error {
	subject := "wishlist " + id
	if id == "" {
		subject = "table " + s.config.TableName
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		s.logger.Debug("dynamodb request failed",
			"op", op,
			"wishlistID", id,
			"code", apiErr.ErrorCode(),
		)
		return fmt.Errorf("%s %s: %s: %w", op, subject, apiErr.ErrorCode(), err)
	}
	return fmt.Errorf("%s %s: %w", op, subject, err)
}
