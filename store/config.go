package store

// DefaultTableName is the table used when Config.TableName is empty.
const DefaultTableName = "wishlist_table"

// localRegion is assumed for a custom endpoint with no region configured.
const localRegion = "us-east-1"

// Config holds configuration for the DynamoDB-backed store.
type Config struct {
	// TableName is the name of the wishlist table.
	// Default: "wishlist_table"
	TableName string

	// Endpoint overrides the DynamoDB endpoint, e.g. "http://localhost:8000"
	// for DynamoDB Local. Empty means the regional AWS endpoint.
	Endpoint string

	// Region is the AWS region. Empty defers to the SDK's default chain,
	// or "us-east-1" when Endpoint is set.
	Region string
}

// DefaultConfig returns the configuration used against real AWS.
func DefaultConfig() Config {
	return Config{
		TableName: DefaultTableName,
	}
}

// validate fills in defaults for unset values.
func (c *Config) validate() {
	if c.TableName == "" {
		c.TableName = DefaultTableName
	}
	if c.Endpoint != "" && c.Region == "" {
		c.Region = localRegion
	}
}
