package controller

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type widget struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Price int    `json:"price"`
}

func seeded(t *testing.T) *MemoryDB[widget] {
	t.Helper()
	db := NewMemoryDB[widget]()

	_, err := db.Insert(context.Background(), []widget{
		{ID: "w1", Name: "anvil", Price: 10},
		{ID: "w2", Name: "hammer", Price: 25},
		{ID: "w3", Name: "anvil", Price: 40},
	}, QueryOptions{Collection: "widgets"})
	require.NoError(t, err)
	return db
}

func TestQueryWithoutCondition(t *testing.T) {
	db := seeded(t)

	res, err := db.Query(context.Background(), QueryOptions{Collection: "widgets"})
	require.NoError(t, err)
	assert.Equal(t, 3, res.Count())
}

func TestQueryEquality(t *testing.T) {
	db := seeded(t)

	res, err := db.Query(context.Background(), QueryOptions{
		Collection: "widgets",
		Where:      &Condition{Field: "name", Operator: "=", Value: "anvil"},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, res.Count())
}

func TestQueryNumericComparison(t *testing.T) {
	db := seeded(t)

	res, err := db.Query(context.Background(), QueryOptions{
		Collection: "widgets",
		Where:      &Condition{Field: "price", Operator: ">=", Value: 25},
	})
	require.NoError(t, err)
	require.Equal(t, 2, res.Count())
	for _, w := range res.Rows() {
		assert.GreaterOrEqual(t, w.Price, 25)
	}
}

func TestQueryUnknownCollectionIsEmpty(t *testing.T) {
	db := seeded(t)

	res, err := db.Query(context.Background(), QueryOptions{Collection: "gadgets"})
	require.NoError(t, err)
	assert.Zero(t, res.Count())
}

func TestUpdateReplacesMatches(t *testing.T) {
	db := seeded(t)

	res, err := db.Update(context.Background(), widget{ID: "w2", Name: "mallet", Price: 30}, QueryOptions{
		Collection: "widgets",
		Where:      &Condition{Field: "id", Operator: "=", Value: "w2"},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Count())

	after, err := db.Query(context.Background(), QueryOptions{
		Collection: "widgets",
		Where:      &Condition{Field: "id", Operator: "=", Value: "w2"},
	})
	require.NoError(t, err)
	require.Equal(t, 1, after.Count())
	assert.Equal(t, "mallet", after.Rows()[0].Name)
}

func TestUpdateRequiresCondition(t *testing.T) {
	db := seeded(t)

	_, err := db.Update(context.Background(), widget{}, QueryOptions{Collection: "widgets"})
	assert.Error(t, err)
}

func TestDeleteRemovesMatches(t *testing.T) {
	db := seeded(t)

	removed, err := db.Delete(context.Background(), QueryOptions{
		Collection: "widgets",
		Where:      &Condition{Field: "name", Operator: "=", Value: "anvil"},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, removed.Count())

	rest, err := db.Query(context.Background(), QueryOptions{Collection: "widgets"})
	require.NoError(t, err)
	assert.Equal(t, 1, rest.Count())
}

func TestGroupByUnsupported(t *testing.T) {
	db := seeded(t)

	_, err := db.Query(context.Background(), QueryOptions{
		Collection: "widgets",
		GroupBy:    "name",
	})
	assert.ErrorIs(t, err, ErrUnsupportedOption)
}

func TestUnknownOperator(t *testing.T) {
	db := seeded(t)

	_, err := db.Query(context.Background(), QueryOptions{
		Collection: "widgets",
		Where:      &Condition{Field: "name", Operator: "LIKE", Value: "an%"},
	})
	assert.Error(t, err)
}
