package seed_test

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jacentio/lattice/internal/seed"
)

type recordingPutter struct {
	items  []map[string]types.AttributeValue
	failAt int
}

func (p *recordingPutter) Put(_ context.Context, item map[string]types.AttributeValue) error {
	if p.failAt > 0 && len(p.items) == p.failAt {
		return errors.New("put failed")
	}
	p.items = append(p.items, item)
	return nil
}

func TestGenerate_Deterministic(t *testing.T) {
	n := seed.Counts{Users: 20, Events: 10, Emails: 50}

	a := seed.Generate(7, n)
	b := seed.Generate(7, n)
	c := seed.Generate(8, n)

	assert.Equal(t, a, b)
	assert.NotEqual(t, a.Users[0].ID, c.Users[0].ID)
	assert.Len(t, a.Users, 20)
	assert.Len(t, a.Events, 10)
	assert.Len(t, a.Emails, 50)
}

func TestGenerate_References(t *testing.T) {
	ds := seed.Generate(1, seed.Counts{Users: 5, Events: 5, Emails: 5})

	users := map[string]bool{}
	for _, u := range ds.Users {
		users[u.ID] = true
	}
	for _, e := range ds.Events {
		assert.True(t, users[e.Owner], "event owner must be a generated user")
		assert.True(t, e.StartAt.After(seed.Epoch) || e.StartAt.Equal(seed.Epoch))
	}
	for _, m := range ds.Emails {
		assert.True(t, users[m.UserID])
	}
}

func TestDataset_Items(t *testing.T) {
	ds := seed.Generate(3, seed.Counts{Users: 4, Events: 3, Emails: 2})

	items, err := ds.Items()
	require.NoError(t, err)
	require.Len(t, items, 9)

	counts := map[string]int{}
	for _, item := range items {
		et, ok := item["entityType"].(*types.AttributeValueMemberS)
		require.True(t, ok)
		counts[et.Value]++
	}
	assert.Equal(t, map[string]int{"USER": 4, "EVENT": 3, "EMAIL": 2}, counts)
}

func TestWriter_Write(t *testing.T) {
	items, err := seed.Generate(5, seed.Counts{Users: 3, Emails: 2}).Items()
	require.NoError(t, err)

	p := &recordingPutter{}
	n, err := seed.NewWriter(p, 0, nil).Write(context.Background(), items)
	require.NoError(t, err)
	assert.Equal(t, 5, n)
	assert.Equal(t, items, p.items)
}

func TestWriter_StopsOnError(t *testing.T) {
	items, err := seed.Generate(5, seed.Counts{Users: 4}).Items()
	require.NoError(t, err)

	p := &recordingPutter{failAt: 2}
	n, err := seed.NewWriter(p, 0, nil).Write(context.Background(), items)
	require.Error(t, err)
	assert.Equal(t, 2, n)
}

func TestWriter_Cancelled(t *testing.T) {
	items, err := seed.Generate(5, seed.Counts{Users: 2}).Items()
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	n, err := seed.NewWriter(&recordingPutter{}, 10, nil).Write(ctx, items)
	require.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, n)
}
