package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erazemk/zbirka/internal/barcode"
	"github.com/erazemk/zbirka/internal/model"
)

func TestAddAndGetItem(t *testing.T) {
	start := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	s, _ := newTestStore(t, WithClock(tickingClock(start)))
	ctx := context.Background()

	item, err := s.AddItem(ctx, card("  Alakazam ", "Near Mint", "4/102", "5.00"))
	require.NoError(t, err)

	assert.Positive(t, item.ID)
	assert.Equal(t, "Alakazam", item.Name)
	assert.Len(t, item.Identifier, barcode.Length)
	assert.True(t, barcode.IsValid(item.Identifier))
	assert.True(t, item.BuyPrice.Equal(price("5")))
	assert.True(t, item.DateAdded.Equal(start.Add(time.Second)))

	got, err := s.GetItem(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, item.ID, got.ID)
	assert.Equal(t, item.Name, got.Name)
	assert.Equal(t, item.Condition, got.Condition)
	assert.Equal(t, item.CatalogNumber, got.CatalogNumber)
	assert.Equal(t, item.Identifier, got.Identifier)
	assert.True(t, got.BuyPrice.Equal(item.BuyPrice))
	assert.True(t, got.DateAdded.Equal(item.DateAdded))
}

func TestAddItemUsesIdentifierSource(t *testing.T) {
	s, _ := newTestStore(t, WithIdentifiers(func() string { return "036000291452" }))

	item, err := s.AddItem(context.Background(), card("Pikachu", "Played", "58/102", "1"))
	require.NoError(t, err)
	assert.Equal(t, "036000291452", item.Identifier)
}

func TestAddItemRejectsInvalidMintedIdentifier(t *testing.T) {
	s, database := newTestStore(t, WithIdentifiers(func() string { return "036000291453" }))

	_, err := s.AddItem(context.Background(), card("Pikachu", "Played", "58/102", "1"))
	requireInvalid(t, err, "identifier")
	assert.Zero(t, count(t, database, "active_items"))
}

func TestAddItemValidation(t *testing.T) {
	s, database := newTestStore(t)
	ctx := context.Background()

	tests := []struct {
		name   string
		fields ItemFields
		field  string
	}{
		{"empty name", card("", "Mint", "1/1", "1"), "name"},
		{"blank name", card("   ", "Mint", "1/1", "1"), "name"},
		{"blank condition", card("Mew", "\t", "1/1", "1"), "condition"},
		{"empty catalog number", card("Mew", "Mint", "", "1"), "catalog_number"},
		{"negative price", card("Mew", "Mint", "1/1", "-0.01"), "buy_price"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.AddItem(ctx, tt.fields)
			requireInvalid(t, err, tt.field)
		})
	}

	assert.Zero(t, count(t, database, "active_items"))
	assert.Zero(t, count(t, database, "record_ids"))
}

func TestAddItemAcceptsZeroPrice(t *testing.T) {
	s, _ := newTestStore(t)

	item, err := s.AddItem(context.Background(), card("Energy", "Mint", "97/102", "0"))
	require.NoError(t, err)
	assert.True(t, item.BuyPrice.IsZero())
}

func TestNegativePriceBelowFloatPrecisionIsRejected(t *testing.T) {
	s, database := newTestStore(t)
	ctx := context.Background()

	_, err := s.AddItem(ctx, card("Mew", "Mint", "8/8", "-1e-400"))
	requireInvalid(t, err, "buy_price")
	assert.Zero(t, count(t, database, "active_items"))

	item, err := s.AddItem(ctx, card("Mew", "Mint", "8/8", "1"))
	require.NoError(t, err)

	_, err = s.EditItem(ctx, item.ID, card("Mew", "Mint", "8/8", "-0.1e-330"))
	requireInvalid(t, err, "buy_price")

	got, err := s.GetItem(ctx, item.ID)
	require.NoError(t, err)
	assert.True(t, got.BuyPrice.Equal(price("1")))
}

func TestGetItemNotFound(t *testing.T) {
	s, _ := newTestStore(t)

	_, err := s.GetItem(context.Background(), 99)
	requireNotFound(t, err, CollectionActive, 99)
}

func TestListActiveOrdering(t *testing.T) {
	s, _ := newTestStore(t, WithClock(tickingClock(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))))
	ctx := context.Background()

	first, _ := s.AddItem(ctx, card("Bulbasaur", "Mint", "44/102", "1"))
	second, _ := s.AddItem(ctx, card("Charmander", "Mint", "46/102", "1"))
	third, _ := s.AddItem(ctx, card("Squirtle", "Mint", "63/102", "1"))

	byInsertion, err := s.ListActive(ctx, model.OrderInsertion)
	require.NoError(t, err)
	assert.Equal(t, []int64{first.ID, second.ID, third.ID}, ids(byInsertion))

	byRecency, err := s.ListActive(ctx, model.OrderRecency)
	require.NoError(t, err)
	assert.Equal(t, []int64{third.ID, second.ID, first.ID}, ids(byRecency))
}

func TestListActiveUnknownOrder(t *testing.T) {
	s, _ := newTestStore(t)

	_, err := s.ListActive(context.Background(), model.OrderBy(7))
	requireInvalid(t, err, "order")
}

func TestListActiveEmpty(t *testing.T) {
	s, _ := newTestStore(t)

	items, err := s.ListActive(context.Background(), model.OrderInsertion)
	require.NoError(t, err)
	assert.NotNil(t, items)
	assert.Empty(t, items)
}

func TestEditItem(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	item, _ := s.AddItem(ctx, card("Alakazam", "Near Mint", "4/102", "5.00"))

	edited, err := s.EditItem(ctx, item.ID, card("Alakazam Holo", " Lightly Played ", "1/102", "7.50"))
	require.NoError(t, err)

	assert.Equal(t, item.ID, edited.ID)
	assert.Equal(t, "Alakazam Holo", edited.Name)
	assert.Equal(t, "Lightly Played", edited.Condition)
	assert.Equal(t, "1/102", edited.CatalogNumber)
	assert.True(t, edited.BuyPrice.Equal(price("7.5")))
	assert.Equal(t, item.Identifier, edited.Identifier)
	assert.True(t, edited.DateAdded.Equal(item.DateAdded))
}

func TestEditItemValidationLeavesRecord(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	item, _ := s.AddItem(ctx, card("Alakazam", "Near Mint", "4/102", "5.00"))

	_, err := s.EditItem(ctx, item.ID, card("Alakazam", "", "4/102", "5.00"))
	requireInvalid(t, err, "condition")

	got, err := s.GetItem(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, "Near Mint", got.Condition)
}

func TestEditItemNotFound(t *testing.T) {
	s, _ := newTestStore(t)

	_, err := s.EditItem(context.Background(), 12, card("Mew", "Mint", "8/8", "1"))
	requireNotFound(t, err, CollectionActive, 12)
}

func TestDeleteItem(t *testing.T) {
	s, database := newTestStore(t)
	ctx := context.Background()

	item, _ := s.AddItem(ctx, card("Alakazam", "Near Mint", "4/102", "5.00"))

	require.NoError(t, s.DeleteItem(ctx, item.ID))
	assert.Zero(t, count(t, database, "active_items"))

	// A second delete must be distinguishable from a successful one.
	err := s.DeleteItem(ctx, item.ID)
	requireNotFound(t, err, CollectionActive, item.ID)
}

func TestDeletedIDsAreNotReused(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	_, _ = s.AddItem(ctx, card("Abra", "Mint", "43/102", "1"))
	last, _ := s.AddItem(ctx, card("Kadabra", "Mint", "32/102", "1"))
	require.NoError(t, s.DeleteItem(ctx, last.ID))

	next, err := s.AddItem(ctx, card("Alakazam", "Mint", "1/102", "1"))
	require.NoError(t, err)
	assert.Greater(t, next.ID, last.ID)
}

func ids(items []model.Item) []int64 {
	out := make([]int64, 0, len(items))
	for _, item := range items {
		out = append(out, item.ID)
	}
	return out
}
