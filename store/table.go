package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/morgaesis/wishapp/wishlist"
)

// tableWaitTimeout bounds how long EnsureTable waits for ACTIVE.
const tableWaitTimeout = 2 * time.Minute

// EnsureTable creates the wishlist table if it does not exist and waits until
// it is active. It is meant for local runs and tests; deployed tables are
// provisioned elsewhere.
func (s *Dynamo) EnsureTable(ctx context.Context) error {
	_, err := s.client.CreateTable(ctx, &dynamodb.CreateTableInput{
		TableName: aws.String(s.config.TableName),
		AttributeDefinitions: []types.AttributeDefinition{
			{AttributeName: aws.String(wishlist.AttrID), AttributeType: types.ScalarAttributeTypeS},
		},
		KeySchema: []types.KeySchemaElement{
			{AttributeName: aws.String(wishlist.AttrID), KeyType: types.KeyTypeHash},
		},
		BillingMode: types.BillingModePayPerRequest,
		StreamSpecification: &types.StreamSpecification{
			StreamEnabled:  aws.Bool(true),
			StreamViewType: types.StreamViewTypeNewAndOldImages,
		},
	})
	if err != nil {
		var inUse *types.ResourceInUseException
		if !errors.As(err, &inUse) {
			return fmt.Errorf("create table %s: %w", s.config.TableName, err)
		}
		s.logger.Debug("table already exists", "table", s.config.TableName)
	} else {
		s.logger.Info("created table", "table", s.config.TableName)
	}

	waiter := dynamodb.NewTableExistsWaiter(s.client)
	if err := waiter.Wait(ctx, &dynamodb.DescribeTableInput{
		TableName: aws.String(s.config.TableName),
	}, tableWaitTimeout); err != nil {
		return fmt.Errorf("wait for table %s: %w", s.config.TableName, err)
	}
	return nil
}
