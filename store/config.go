package store

// Config holds configuration for the Store.
type Config struct {
	// TableName is the single table holding every entity type.
	// Default: "CommunityApp"
	TableName string

	// PartitionKey is the table partition key attribute.
	// Default: "PK"
	PartitionKey string

	// SortKey is the table sort key attribute.
	// Default: "SK"
	SortKey string

	// EntityTypeAttr is the discriminator attribute present on every record.
	// Default: "entityType"
	EntityTypeAttr string

	// TTLAttr is the expiry attribute. Records whose TTL is in the past are
	// treated as deleted and never returned.
	// Default: "ttl"
	TTLAttr string
}

// DefaultConfig returns the layout of the community table.
func DefaultConfig() Config {
	return Config{
		TableName:      "CommunityApp",
		PartitionKey:   "PK",
		SortKey:        "SK",
		EntityTypeAttr: "entityType",
		TTLAttr:        "ttl",
	}
}

// validate fills empty values with defaults.
func (c *Config) validate() {
	d := DefaultConfig()
	if c.TableName == "" {
		c.TableName = d.TableName
	}
	if c.PartitionKey == "" {
		c.PartitionKey = d.PartitionKey
	}
	if c.SortKey == "" {
		c.SortKey = d.SortKey
	}
	if c.EntityTypeAttr == "" {
		c.EntityTypeAttr = d.EntityTypeAttr
	}
	if c.TTLAttr == "" {
		c.TTLAttr = d.TTLAttr
	}
}

// hiddenAttrs returns the table attributes that are never part of an entity.
func (c Config) hiddenAttrs() []string {
	return []string{c.PartitionKey, c.SortKey, c.TTLAttr}
}
