package query_test

import (
	"encoding/base64"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jacentio/lattice/query"
	"github.com/jacentio/lattice/store"
)

func indexStrategy() query.Strategy {
	return query.Strategy{
		Kind:             query.IndexQuery,
		EntityType:       "USER",
		Index:            "GSI_UsersByHostedCount",
		PartitionKeyAttr: "GSI_UsersByHostedCount_PK",
		PartitionValue:   "USER_PROFILE",
		SortKeyAttr:      "GSI_UsersByHostedCount_SK",
		Sort: &store.SortCondition{
			Attr:  "GSI_UsersByHostedCount_SK",
			Op:    store.SortBetween,
			Lower: "HOSTED_COUNT#0000000002",
			Upper: "HOSTED_COUNT#0000000005~",
		},
		Reverse: true,
		Pushed:  []string{"entityType", "hostedEventCount"},
	}
}

func TestContinuationToken_RoundTrip(t *testing.T) {
	tok := query.ContinuationToken{
		Version:     query.TokenVersion,
		Strategy:    indexStrategy(),
		Cursor:      store.Cursor(`{"PK":{"S":"USER#1"}}`),
		Fingerprint: "abc",
	}

	s, err := tok.Encode()
	require.NoError(t, err)
	assert.False(t, strings.ContainsAny(s, "+/="), "token must be URL safe")

	got, err := query.DecodeToken(s)
	require.NoError(t, err)
	assert.Equal(t, tok, got)
}

func TestContinuationToken_Exhausted(t *testing.T) {
	tok := query.ContinuationToken{
		Version:   query.TokenVersion,
		Strategy:  query.Strategy{Kind: query.FullScan, EntityType: "EMAIL", Pushed: []string{"entityType"}},
		Exhausted: true,
	}

	s, err := tok.Encode()
	require.NoError(t, err)

	got, err := query.DecodeToken(s)
	require.NoError(t, err)
	assert.True(t, got.Exhausted)
	assert.Empty(t, got.Cursor)
}

func TestDecodeToken_Invalid(t *testing.T) {
	raw := func(s string) string { return base64.RawURLEncoding.EncodeToString([]byte(s)) }

	tests := []struct {
		name  string
		token string
	}{
		{"not base64", "%%%"},
		{"padded base64", base64.URLEncoding.EncodeToString([]byte(`{"v":1}`))},
		{"not json", raw("hello")},
		{"unknown version", raw(`{"v":2,"s":{"kind":"scan","entity":"USER"},"c":"eA=="}`)},
		{"missing version", raw(`{"s":{"kind":"scan","entity":"USER"},"c":"eA=="}`)},
		{"unknown strategy", raw(`{"v":1,"s":{"kind":"join","entity":"USER"},"c":"eA=="}`)},
		{"incomplete index", raw(`{"v":1,"s":{"kind":"index","entity":"USER"},"c":"eA=="}`)},
		{"missing entity", raw(`{"v":1,"s":{"kind":"scan"},"c":"eA=="}`)},
		{"missing cursor", raw(`{"v":1,"s":{"kind":"scan","entity":"USER"}}`)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := query.DecodeToken(tt.token)
			require.ErrorIs(t, err, query.ErrInvalidContinuationToken)
			assert.True(t, query.IsValidation(err))
		})
	}
}
