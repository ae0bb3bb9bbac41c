package query

import (
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jacentio/lattice/store"
)

// TokenVersion is the continuation token format version. Tokens of any
// other version are rejected.
const TokenVersion = 1

// ContinuationToken is the decoded form of the opaque token handed to callers.
type ContinuationToken struct {
	Version   int          `json:"v"`
	Strategy  Strategy     `json:"s"`
	Cursor    store.Cursor `json:"c,omitempty"`
	Exhausted bool         `json:"x,omitempty"`

	// Fingerprint binds the token to the predicates and order it was issued for.
	Fingerprint string `json:"f"`
}

// Encode serializes t as unpadded base64url JSON.
func (t ContinuationToken) Encode() (string, error) {
	data, err := json.Marshal(t)
	if err != nil {
		return "", fmt.Errorf("marshal continuation token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(data), nil
}

// DecodeToken parses an opaque token.
func DecodeToken(s string) (ContinuationToken, error) {
	data, err := base64.RawURLEncoding.DecodeString(s)
	if err != nil {
		return ContinuationToken{}, fmt.Errorf("%w: %w", ErrInvalidContinuationToken, err)
	}

	var t ContinuationToken
	if err := json.Unmarshal(data, &t); err != nil {
		return ContinuationToken{}, fmt.Errorf("%w: %w", ErrInvalidContinuationToken, err)
	}
	if t.Version != TokenVersion {
		return ContinuationToken{}, fmt.Errorf("%w: unsupported version %d", ErrInvalidContinuationToken, t.Version)
	}
	switch t.Strategy.Kind {
	case FullScan:
	case IndexQuery:
		if t.Strategy.Index == "" || t.Strategy.PartitionKeyAttr == "" || t.Strategy.PartitionValue == "" {
			return ContinuationToken{}, fmt.Errorf("%w: incomplete index strategy", ErrInvalidContinuationToken)
		}
	default:
		return ContinuationToken{}, fmt.Errorf("%w: unknown strategy %q", ErrInvalidContinuationToken, t.Strategy.Kind)
	}
	if t.Strategy.EntityType == "" {
		return ContinuationToken{}, fmt.Errorf("%w: missing entity type", ErrInvalidContinuationToken)
	}
	if !t.Exhausted && len(t.Cursor) == 0 {
		return ContinuationToken{}, fmt.Errorf("%w: missing cursor", ErrInvalidContinuationToken)
	}

	return t, nil
}

// fingerprint hashes the parts of a request that must not change between
// pages of one pagination sequence. The page size may change.
func fingerprint(entityType string, preds Predicates, order Order) string {
	var b strings.Builder
	b.WriteString(entityType)
	b.WriteByte('|')
	b.WriteString(string(order))
	for _, attr := range preds.Attrs() {
		b.WriteByte('|')
		b.WriteString(attr)
		b.WriteString(preds[attr].String())
	}
	sum := sha256.Sum256([]byte(b.String()))
	return hex.EncodeToString(sum[:16])
}
