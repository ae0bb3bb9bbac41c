package store

import (
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// IsExpired checks if an item has a TTL in the past (is marked for deletion).
// DynamoDB removes expired items lazily, so reads must still filter them.
func IsExpired(item map[string]types.AttributeValue, ttlAttr string) bool {
	ttlAttrValue, exists := item[ttlAttr]
	if !exists {
		return false // No TTL = active
	}
	ttlNum, ok := ttlAttrValue.(*types.AttributeValueMemberN)
	if !ok {
		return false
	}
	ttl, err := strconv.ParseInt(ttlNum.Value, 10, 64)
	if err != nil {
		return false
	}
	return ttl <= time.Now().Unix()
}

// TTLFilterExpr returns the filter expression to exclude expired items.
func TTLFilterExpr() string {
	return "(attribute_not_exists(#ttl) OR #ttl > :now)"
}

// ttlFilterNames returns expression attribute names for the TTL filter.
func ttlFilterNames(ttlAttr string) map[string]string {
	return map[string]string{"#ttl": ttlAttr}
}

// ttlFilterValues returns expression attribute values for the TTL filter.
func ttlFilterValues() map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		":now": &types.AttributeValueMemberN{
			Value: strconv.FormatInt(time.Now().Unix(), 10),
		},
	}
}

// mergeExprNames merges multiple expression attribute name maps.
func mergeExprNames(maps ...map[string]string) map[string]string {
	result := make(map[string]string)
	for _, m := range maps {
		for k, v := range m {
			result[k] = v
		}
	}
	return result
}

// mergeExprValues merges multiple expression attribute value maps.
func mergeExprValues(maps ...map[string]types.AttributeValue) map[string]types.AttributeValue {
	result := make(map[string]types.AttributeValue)
	for _, m := range maps {
		for k, v := range m {
			result[k] = v
		}
	}
	return result
}
