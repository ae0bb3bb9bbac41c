package store

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/smithy-go"
)

// --- classify ---

func TestClassify_Nil(t *testing.T) {
	if err := classify(nil); err != nil {
		t.Errorf("expected nil, got %v", err)
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{"provisioned throughput", &types.ProvisionedThroughputExceededException{Message: aws.String("x")}, ErrThrottled},
		{"request limit", &types.RequestLimitExceeded{Message: aws.String("x")}, ErrThrottled},
		{"internal server error", &types.InternalServerError{Message: aws.String("x")}, ErrUnavailable},
		{"throttling code", &smithy.GenericAPIError{Code: "ThrottlingException"}, ErrThrottled},
		{"service unavailable code", &smithy.GenericAPIError{Code: "ServiceUnavailable"}, ErrUnavailable},
		{"request timeout code", &smithy.GenericAPIError{Code: "RequestTimeout"}, ErrUnavailable},
		{"validation code", &smithy.GenericAPIError{Code: "ValidationException"}, ErrInvalidQuery},
		{"missing table", &types.ResourceNotFoundException{Message: aws.String("x")}, ErrInvalidQuery},
		{"wrapped throttle", fmt.Errorf("operation error: %w", &types.ProvisionedThroughputExceededException{}), ErrThrottled},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := classify(tt.err)
			if !errors.Is(got, tt.want) {
				t.Errorf("classify() = %v, want %v", got, tt.want)
			}
			if !errors.Is(got, tt.err) && !errors.As(got, new(smithy.APIError)) {
				t.Errorf("expected original error to stay in the chain, got %v", got)
			}
		})
	}
}

func TestClassify_PassesThroughContextErrors(t *testing.T) {
	for _, err := range []error{context.Canceled, context.DeadlineExceeded} {
		if got := classify(err); got != err {
			t.Errorf("expected %v unchanged, got %v", err, got)
		}
	}
}

func TestClassify_UnknownErrorIsFatal(t *testing.T) {
	err := errors.New("boom")
	got := classify(err)
	if got != err {
		t.Errorf("expected unknown error unchanged, got %v", got)
	}
	if IsTransient(got) {
		t.Error("unknown errors must not be retried")
	}
}

// --- cursor codec ---

func TestEncodeKey_Empty(t *testing.T) {
	c, err := encodeKey(nil)
	if err != nil || c != nil {
		t.Errorf("expected nil cursor, got %q, %v", c, err)
	}
}

func TestCursorRoundTrip(t *testing.T) {
	key := map[string]types.AttributeValue{
		"PK":  &types.AttributeValueMemberS{Value: "USER#1"},
		"n":   &types.AttributeValueMemberN{Value: "42"},
		"bin": &types.AttributeValueMemberB{Value: []byte{0, 1, 2}},
	}

	c, err := encodeKey(key)
	if err != nil {
		t.Fatalf("encodeKey: %v", err)
	}
	got, err := decodeKey(c)
	if err != nil {
		t.Fatalf("decodeKey: %v", err)
	}

	if got["PK"].(*types.AttributeValueMemberS).Value != "USER#1" {
		t.Errorf("PK mismatch: %v", got["PK"])
	}
	if got["n"].(*types.AttributeValueMemberN).Value != "42" {
		t.Errorf("n mismatch: %v", got["n"])
	}
	if b := got["bin"].(*types.AttributeValueMemberB).Value; len(b) != 3 || b[2] != 2 {
		t.Errorf("bin mismatch: %v", b)
	}
}

func TestEncodeKey_UnsupportedType(t *testing.T) {
	_, err := encodeKey(map[string]types.AttributeValue{
		"flag": &types.AttributeValueMemberBOOL{Value: true},
	})
	if !errors.Is(err, ErrInvalidCursor) {
		t.Errorf("expected ErrInvalidCursor, got %v", err)
	}
}

func TestDecodeKey_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		cursor string
	}{
		{"not json", "nope"},
		{"empty object", "{}"},
		{"two types", `{"PK":{"S":"a","N":"1"}}`},
		{"unknown type", `{"PK":{"BOOL":"true"}}`},
		{"bad binary", `{"PK":{"B":"***"}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := decodeKey(Cursor(tt.cursor)); !errors.Is(err, ErrInvalidCursor) {
				t.Errorf("expected ErrInvalidCursor, got %v", err)
			}
		})
	}
}

// --- decodeRecord ---

func TestDecodeRecord(t *testing.T) {
	s := New(nil, DefaultConfig())
	raw := map[string]types.AttributeValue{
		"PK":         &types.AttributeValueMemberS{Value: "EMAIL#e1"},
		"SK":         &types.AttributeValueMemberS{Value: "ANALYTICS"},
		"entityType": &types.AttributeValueMemberS{Value: "EMAIL"},
		"status":     &types.AttributeValueMemberS{Value: "sent"},
		"opens":      &types.AttributeValueMemberN{Value: "2"},
	}

	rec, err := s.decodeRecord(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.PartitionKey != "EMAIL#e1" || rec.SortKey != "ANALYTICS" || rec.EntityType != "EMAIL" {
		t.Errorf("unexpected keys: %+v", rec)
	}
	if rec.Attributes["status"] != "sent" {
		t.Errorf("expected status sent, got %v", rec.Attributes["status"])
	}
	if rec.Attributes["opens"] != float64(2) {
		t.Errorf("expected opens 2, got %v", rec.Attributes["opens"])
	}
	if len(rec.Raw) != len(raw) {
		t.Error("expected raw item to be preserved")
	}
}

func TestDecodeRecord_CustomKeyNames(t *testing.T) {
	s := New(nil, Config{PartitionKey: "pk", SortKey: "sk", EntityTypeAttr: "kind"})
	rec, err := s.decodeRecord(map[string]types.AttributeValue{
		"pk":   &types.AttributeValueMemberS{Value: "a"},
		"sk":   &types.AttributeValueMemberS{Value: "b"},
		"kind": &types.AttributeValueMemberS{Value: "USER"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.PartitionKey != "a" || rec.SortKey != "b" || rec.EntityType != "USER" {
		t.Errorf("unexpected keys: %+v", rec)
	}
}

func TestDecodeRecord_PublicHidesConfiguredKeys(t *testing.T) {
	s := New(nil, Config{PartitionKey: "pk", SortKey: "sk", TTLAttr: "expiresAt"})
	rec, err := s.decodeRecord(map[string]types.AttributeValue{
		"pk":               &types.AttributeValueMemberS{Value: "USER#1"},
		"sk":               &types.AttributeValueMemberS{Value: "PROFILE"},
		"expiresAt":        &types.AttributeValueMemberN{Value: "4102444800"},
		"GSI_ByCompany_PK": &types.AttributeValueMemberS{Value: "COMPANY#Acme"},
		"entityType":       &types.AttributeValueMemberS{Value: "USER"},
		"company":          &types.AttributeValueMemberS{Value: "Acme"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	pub := rec.Public()
	for _, attr := range []string{"pk", "sk", "expiresAt", "GSI_ByCompany_PK"} {
		if _, ok := pub[attr]; ok {
			t.Errorf("expected %s to be hidden, got %v", attr, pub)
		}
	}
	if pub["company"] != "Acme" || pub["entityType"] != "USER" {
		t.Errorf("expected entity attributes to remain, got %v", pub)
	}
}

// --- expressions ---

func TestSortKeyCondition_MissingAttr(t *testing.T) {
	if _, err := sortKeyCondition(&SortCondition{Op: SortEQ}); !errors.Is(err, ErrInvalidQuery) {
		t.Errorf("expected ErrInvalidQuery, got %v", err)
	}
}

func TestFilter_MergesTTL(t *testing.T) {
	s := New(nil, Config{TTLAttr: "expiresAt"})

	expr, names, values := s.filter("USER")
	if expr != "#et = :et AND "+TTLFilterExpr() {
		t.Errorf("unexpected filter %q", expr)
	}
	if names["#ttl"] != "expiresAt" {
		t.Errorf("expected custom TTL attribute, got %q", names["#ttl"])
	}
	if _, ok := values[":now"]; !ok {
		t.Error("expected :now value")
	}
}

func TestMergeExprNames(t *testing.T) {
	got := mergeExprNames(map[string]string{"#a": "a"}, map[string]string{"#b": "b", "#a": "override"})
	if len(got) != 2 || got["#a"] != "override" {
		t.Errorf("unexpected merge result %v", got)
	}
}

// --- config ---

func TestConfigValidate_Defaults(t *testing.T) {
	cfg := Config{}
	cfg.validate()

	if cfg != DefaultConfig() {
		t.Errorf("expected defaults, got %+v", cfg)
	}
}

func TestConfigValidate_PreservesCustomValues(t *testing.T) {
	cfg := Config{TableName: "t", PartitionKey: "pk", SortKey: "sk", EntityTypeAttr: "kind", TTLAttr: "exp"}
	want := cfg
	cfg.validate()

	if cfg != want {
		t.Errorf("expected %+v, got %+v", want, cfg)
	}
}
