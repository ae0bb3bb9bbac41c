package store

import (
	"encoding/base64"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// Cursor is an opaque store position: the encoded exclusive start key of the
// next call. An empty Cursor means "from the beginning".
type Cursor []byte

// encodeKey encodes a LastEvaluatedKey. Key attributes are always S, N or B.
func encodeKey(key map[string]types.AttributeValue) (Cursor, error) {
	if len(key) == 0 {
		return nil, nil
	}

	out := make(map[string]map[string]string, len(key))
	for k, v := range key {
		switch av := v.(type) {
		case *types.AttributeValueMemberS:
			out[k] = map[string]string{"S": av.Value}
		case *types.AttributeValueMemberN:
			out[k] = map[string]string{"N": av.Value}
		case *types.AttributeValueMemberB:
			out[k] = map[string]string{"B": base64.StdEncoding.EncodeToString(av.Value)}
		default:
			return nil, fmt.Errorf("%w: key attribute %s has unsupported type %T", ErrInvalidCursor, k, v)
		}
	}

	data, err := json.Marshal(out)
	if err != nil {
		return nil, fmt.Errorf("marshal cursor: %w", err)
	}
	return data, nil
}

// decodeKey converts a cursor back into an ExclusiveStartKey.
func decodeKey(c Cursor) (map[string]types.AttributeValue, error) {
	if len(c) == 0 {
		return nil, nil
	}

	var in map[string]map[string]string
	if err := json.Unmarshal(c, &in); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidCursor, err)
	}
	if len(in) == 0 {
		return nil, fmt.Errorf("%w: empty key", ErrInvalidCursor)
	}

	key := make(map[string]types.AttributeValue, len(in))
	for k, typed := range in {
		if len(typed) != 1 {
			return nil, fmt.Errorf("%w: attribute %s must have exactly one type", ErrInvalidCursor, k)
		}
		for t, v := range typed {
			switch t {
			case "S":
				key[k] = &types.AttributeValueMemberS{Value: v}
			case "N":
				key[k] = &types.AttributeValueMemberN{Value: v}
			case "B":
				b, err := base64.StdEncoding.DecodeString(v)
				if err != nil {
					return nil, fmt.Errorf("%w: attribute %s: %w", ErrInvalidCursor, k, err)
				}
				key[k] = &types.AttributeValueMemberB{Value: b}
			default:
				return nil, fmt.Errorf("%w: attribute %s has unsupported type %q", ErrInvalidCursor, k, t)
			}
		}
	}

	return key, nil
}
