package store

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// API is the subset of the DynamoDB client used by Store.
type API interface {
	Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
	Scan(ctx context.Context, params *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
}

// KV is the key-value store abstraction the query engine reads through.
// Each call performs exactly one bounded store round-trip.
type KV interface {
	// Query reads one page of an index partition.
	Query(ctx context.Context, req QueryRequest) (Batch, error)

	// Scan reads one page of the whole table restricted to one entity type.
	Scan(ctx context.Context, req ScanRequest) (Batch, error)

	// ResumeAfter returns a cursor positioned immediately after rec.
	// keyAttrs names the index key attributes that must be part of the
	// start key in addition to the table key.
	ResumeAfter(rec Record, keyAttrs ...string) (Cursor, error)
}

// SortOp is a key condition operator on an index sort key.
type SortOp string

const (
	SortEQ      SortOp = "="
	SortBetween SortOp = "BETWEEN"
	SortGE      SortOp = ">="
	SortLE      SortOp = "<="
)

// SortCondition restricts the sort key of a query. Lower is used by
// SortEQ, SortGE and SortBetween; Upper by SortLE and SortBetween.
type SortCondition struct {
	Attr  string `json:"attr"`
	Op    SortOp `json:"op"`
	Lower string `json:"lower,omitempty"`
	Upper string `json:"upper,omitempty"`
}

// QueryRequest describes one index query.
type QueryRequest struct {
	IndexName        string
	PartitionKeyAttr string
	PartitionValue   string
	Sort             *SortCondition

	// EntityType, when set, is pushed as a filter on the discriminator.
	EntityType string

	Cursor  Cursor
	Limit   int32
	Reverse bool
}

// ScanRequest describes one table scan.
type ScanRequest struct {
	EntityType string
	Cursor     Cursor
	Limit      int32
}

// Batch is the result of one store call.
type Batch struct {
	Items []Record

	// Cursor resumes after the last evaluated key; empty when HasMore is false.
	Cursor  Cursor
	HasMore bool

	// Scanned is the number of items the store evaluated, before filters.
	Scanned int
}

// Store reads and writes the single table through DynamoDB.
type Store struct {
	client API
	config Config
	hidden []string
}

var _ KV = (*Store)(nil)

// New creates a new Store instance.
func New(client API, config Config) *Store {
	config.validate()
	return &Store{
		client: client,
		config: config,
		hidden: config.hiddenAttrs(),
	}
}

// Config returns the table layout the store was built with.
func (s *Store) Config() Config {
	return s.config
}

// Query performs one index query with TTL and entity-type filtering.
func (s *Store) Query(ctx context.Context, req QueryRequest) (Batch, error) {
	if req.PartitionKeyAttr == "" || req.PartitionValue == "" {
		return Batch{}, fmt.Errorf("%w: partition key and value are required", ErrInvalidQuery)
	}

	startKey, err := decodeKey(req.Cursor)
	if err != nil {
		return Batch{}, err
	}

	keyCond := "#pk = :pk"
	exprNames := map[string]string{"#pk": req.PartitionKeyAttr}
	exprValues := map[string]types.AttributeValue{
		":pk": &types.AttributeValueMemberS{Value: req.PartitionValue},
	}

	if req.Sort != nil {
		cond, err := sortKeyCondition(req.Sort)
		if err != nil {
			return Batch{}, err
		}
		keyCond += " AND " + cond
		exprNames["#sk"] = req.Sort.Attr
		if req.Sort.Lower != "" {
			exprValues[":lo"] = &types.AttributeValueMemberS{Value: req.Sort.Lower}
		}
		if req.Sort.Upper != "" {
			exprValues[":hi"] = &types.AttributeValueMemberS{Value: req.Sort.Upper}
		}
	}

	filterExpr, filterNames, filterValues := s.filter(req.EntityType)

	input := &dynamodb.QueryInput{
		TableName:                 aws.String(s.config.TableName),
		KeyConditionExpression:    aws.String(keyCond),
		FilterExpression:          aws.String(filterExpr),
		ExpressionAttributeNames:  mergeExprNames(exprNames, filterNames),
		ExpressionAttributeValues: mergeExprValues(exprValues, filterValues),
		ExclusiveStartKey:         startKey,
		ScanIndexForward:          aws.Bool(!req.Reverse),
	}
	if req.IndexName != "" {
		input.IndexName = aws.String(req.IndexName)
	}
	if req.Limit > 0 {
		input.Limit = aws.Int32(req.Limit)
	}

	out, err := s.client.Query(ctx, input)
	if err != nil {
		return Batch{}, fmt.Errorf("query %s: %w", req.IndexName, classify(err))
	}

	return s.batch(out.Items, out.LastEvaluatedKey, out.ScannedCount)
}

// Scan performs one table scan restricted to req.EntityType.
func (s *Store) Scan(ctx context.Context, req ScanRequest) (Batch, error) {
	startKey, err := decodeKey(req.Cursor)
	if err != nil {
		return Batch{}, err
	}

	filterExpr, filterNames, filterValues := s.filter(req.EntityType)

	input := &dynamodb.ScanInput{
		TableName:                 aws.String(s.config.TableName),
		FilterExpression:          aws.String(filterExpr),
		ExpressionAttributeNames:  filterNames,
		ExpressionAttributeValues: filterValues,
		ExclusiveStartKey:         startKey,
	}
	if req.Limit > 0 {
		input.Limit = aws.Int32(req.Limit)
	}

	out, err := s.client.Scan(ctx, input)
	if err != nil {
		return Batch{}, fmt.Errorf("scan %s: %w", s.config.TableName, classify(err))
	}

	return s.batch(out.Items, out.LastEvaluatedKey, out.ScannedCount)
}

// Put writes one item, replacing any item with the same key.
func (s *Store) Put(ctx context.Context, item map[string]types.AttributeValue) error {
	for _, attr := range []string{s.config.PartitionKey, s.config.SortKey} {
		if _, ok := item[attr]; !ok {
			return fmt.Errorf("%w: item is missing key attribute %s", ErrInvalidQuery, attr)
		}
	}

	_, err := s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.config.TableName),
		Item:      item,
	})
	if err != nil {
		return fmt.Errorf("put item: %w", classify(err))
	}
	return nil
}

// ResumeAfter builds the start key of rec from its table key and keyAttrs.
func (s *Store) ResumeAfter(rec Record, keyAttrs ...string) (Cursor, error) {
	attrs := append([]string{s.config.PartitionKey, s.config.SortKey}, keyAttrs...)
	key := make(map[string]types.AttributeValue, len(attrs))
	for _, attr := range attrs {
		if attr == "" {
			continue
		}
		v, ok := rec.Raw[attr]
		if !ok {
			return nil, fmt.Errorf("%w: record has no key attribute %s", ErrInvalidCursor, attr)
		}
		key[attr] = v
	}
	return encodeKey(key)
}

// filter returns the entity-type and TTL filter shared by queries and scans.
func (s *Store) filter(entityType string) (string, map[string]string, map[string]types.AttributeValue) {
	expr := TTLFilterExpr()
	names := ttlFilterNames(s.config.TTLAttr)
	values := ttlFilterValues()

	if entityType != "" {
		expr = "#et = :et AND " + expr
		names["#et"] = s.config.EntityTypeAttr
		values[":et"] = &types.AttributeValueMemberS{Value: entityType}
	}

	return expr, names, values
}

func (s *Store) batch(raw []map[string]types.AttributeValue, lastKey map[string]types.AttributeValue, scanned int32) (Batch, error) {
	b := Batch{
		Items:   make([]Record, 0, len(raw)),
		Scanned: int(scanned),
	}

	for _, item := range raw {
		if IsExpired(item, s.config.TTLAttr) {
			continue
		}
		rec, err := s.decodeRecord(item)
		if err != nil {
			return Batch{}, fmt.Errorf("decode item: %w", err)
		}
		b.Items = append(b.Items, rec)
	}

	if b.Scanned < len(raw) {
		b.Scanned = len(raw)
	}

	cursor, err := encodeKey(lastKey)
	if err != nil {
		return Batch{}, err
	}
	b.Cursor = cursor
	b.HasMore = len(cursor) > 0

	return b, nil
}

func sortKeyCondition(c *SortCondition) (string, error) {
	if c.Attr == "" {
		return "", fmt.Errorf("%w: sort condition without attribute", ErrInvalidQuery)
	}
	switch c.Op {
	case SortEQ:
		return "#sk = :lo", nil
	case SortBetween:
		return "#sk BETWEEN :lo AND :hi", nil
	case SortGE:
		return "#sk >= :lo", nil
	case SortLE:
		return "#sk <= :hi", nil
	default:
		return "", fmt.Errorf("%w: unknown sort operator %q", ErrInvalidQuery, c.Op)
	}
}
