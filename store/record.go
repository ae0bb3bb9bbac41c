package store

import (
	"slices"
	"strings"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// Record is one item of the single table.
type Record struct {
	// PartitionKey and SortKey identify the record; the pair is unique.
	PartitionKey string
	SortKey      string

	// EntityType is the discriminator ("USER", "EVENT", "EMAIL").
	EntityType string

	// Attributes holds the decoded item. Numbers decode to float64,
	// strings to string.
	Attributes map[string]any

	// Raw is the item as returned by DynamoDB.
	Raw map[string]types.AttributeValue

	// hidden names the table key and TTL attributes of the store the record
	// was read from. Records built elsewhere use the default layout.
	hidden []string
}

var defaultHidden = DefaultConfig().hiddenAttrs()

// Public returns the entity attributes without table key, TTL and index key
// attributes.
func (r Record) Public() map[string]any {
	hidden := r.hidden
	if hidden == nil {
		hidden = defaultHidden
	}

	out := make(map[string]any, len(r.Attributes))
	for k, v := range r.Attributes {
		if strings.HasPrefix(k, "GSI_") || slices.Contains(hidden, k) {
			continue
		}
		out[k] = v
	}
	return out
}

// decodeRecord converts a DynamoDB item to a Record.
func (s *Store) decodeRecord(raw map[string]types.AttributeValue) (Record, error) {
	rec := Record{Raw: raw, hidden: s.hidden}

	if err := attributevalue.UnmarshalMap(raw, &rec.Attributes); err != nil {
		return Record{}, err
	}

	if v, ok := raw[s.config.PartitionKey].(*types.AttributeValueMemberS); ok {
		rec.PartitionKey = v.Value
	}
	if v, ok := raw[s.config.SortKey].(*types.AttributeValueMemberS); ok {
		rec.SortKey = v.Value
	}
	if v, ok := raw[s.config.EntityTypeAttr].(*types.AttributeValueMemberS); ok {
		rec.EntityType = v.Value
	}

	return rec, nil
}
