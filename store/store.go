package store

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"

	"github.com/morgaesis/wishapp/wishlist"
)

//go:generate mockgen -destination=../api/mock_store_test.go -package=api github.com/morgaesis/wishapp/store Store

// Store is the persistence contract the API handlers depend on.
type Store interface {
	// Get returns the wishlist with the given id, or ErrNotFound.
	Get(ctx context.Context, id string) (wishlist.Wishlist, error)

	// Put writes w, replacing any existing record with the same id.
	Put(ctx context.Context, w wishlist.Wishlist) error

	// Replace writes w only if a record with w.ID already exists.
	// Returns ErrNotFound otherwise, without writing.
	Replace(ctx context.Context, w wishlist.Wishlist) error

	// Delete removes the record with the given id.
	// Returns ErrNotFound if there was none.
	Delete(ctx context.Context, id string) error

	// Scan returns every stored wishlist. Order is unspecified.
	Scan(ctx context.Context) ([]wishlist.Wishlist, error)
}

// DynamoDBClient is the subset of the DynamoDB API used by this package.
// Tests substitute a fake; production code passes *dynamodb.Client.
type DynamoDBClient interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
	Scan(ctx context.Context, params *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
	CreateTable(ctx context.Context, params *dynamodb.CreateTableInput, optFns ...func(*dynamodb.Options)) (*dynamodb.CreateTableOutput, error)
	DescribeTable(ctx context.Context, params *dynamodb.DescribeTableInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DescribeTableOutput, error)
}

var (
	_ DynamoDBClient = (*dynamodb.Client)(nil)
	_ Store          = (*Dynamo)(nil)
	_ Store          = (*Memory)(nil)
)
