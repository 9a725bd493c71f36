// Package store persists wishlists.
//
// Two implementations satisfy [Store]:
//
//   - [Dynamo] talks to a DynamoDB table through the AWS SDK. It keeps no local
//     state and adds no locking; consistency is whatever DynamoDB gives per key.
//   - [Memory] keeps records in process. It is meant for tests and local runs.
//
// # Conditional writes
//
// Replace and Delete only succeed when the record already exists. On DynamoDB
// this is an attribute_exists(id) condition evaluated by the service, so a
// record deleted between a caller's Get and its Replace is not brought back.
//
// # Configuration
//
// Use [DefaultConfig] against AWS, or point Endpoint at DynamoDB Local:
//
//	cfg := store.DefaultConfig()
//	cfg.Endpoint = "http://localhost:8000"
//	client, err := store.NewClient(ctx, cfg)
//
// # Errors
//
//   - [ErrNotFound] - no wishlist with that id
//
// Any other error means the backing store itself failed.
package store
