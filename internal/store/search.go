package store

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/erazemk/zbirka/internal/model"
)

// SearchActive returns the active items whose name, condition, catalog
// number or identifier contains query, ignoring case. A blank query is the
// same as ListActive.
func (s *Store) SearchActive(ctx context.Context, query string, order model.OrderBy) ([]model.Item, error) {
	items, err := s.ListActive(ctx, order)
	if err != nil {
		return nil, err
	}

	needle := strings.ToLower(strings.TrimSpace(query))
	if needle == "" {
		return items, nil
	}

	matched := []model.Item{}
	for _, item := range items {
		if itemMatches(&item, needle) {
			matched = append(matched, item)
		}
	}
	return matched, nil
}

// SearchSold is SearchActive for the sold collection.
func (s *Store) SearchSold(ctx context.Context, query string) ([]model.SoldItem, error) {
	items, err := s.ListSold(ctx)
	if err != nil {
		return nil, err
	}

	needle := strings.ToLower(strings.TrimSpace(query))
	if needle == "" {
		return items, nil
	}

	matched := []model.SoldItem{}
	for _, sold := range items {
		if itemMatches(&sold.Item, needle) {
			matched = append(matched, sold)
		}
	}
	return matched, nil
}

// itemMatches reports whether needle, already lowercased, occurs in any
// searchable field. Query characters are literal, % and _ included.
func itemMatches(item *model.Item, needle string) bool {
	for _, field := range []string{item.Name, item.Condition, item.CatalogNumber, item.Identifier} {
		if strings.Contains(strings.ToLower(field), needle) {
			return true
		}
	}
	return false
}

// FindByIdentifier returns the active and sold records carrying identifier,
// as read from a scanned label.
func (s *Store) FindByIdentifier(ctx context.Context, identifier string) ([]model.Item, []model.SoldItem, error) {
	const op = "find by identifier"

	identifier = strings.TrimSpace(identifier)
	if err := validateIdentifier(op, identifier); err != nil {
		return nil, nil, err
	}

	active, err := s.queryActive(ctx,
		`SELECT `+activeColumns+` FROM active_items WHERE identifier = ? ORDER BY id`, identifier)
	if err != nil {
		return nil, nil, storageErr(op, 0, err)
	}

	sold, err := s.querySold(ctx,
		`SELECT `+soldColumns+` FROM sold_items WHERE identifier = ? ORDER BY id`, identifier)
	if err != nil {
		return nil, nil, storageErr(op, 0, err)
	}

	return active, sold, nil
}

// Totals summarizes stock cost and sales across both collections.
func (s *Store) Totals(ctx context.Context) (*model.Totals, error) {
	active, err := s.ListActive(ctx, model.OrderInsertion)
	if err != nil {
		return nil, err
	}
	sold, err := s.ListSold(ctx)
	if err != nil {
		return nil, err
	}

	totals := &model.Totals{
		ActiveCount: len(active),
		SoldCount:   len(sold),
		StockCost:   decimal.Zero,
		Revenue:     decimal.Zero,
		SoldCost:    decimal.Zero,
	}
	for _, item := range active {
		totals.StockCost = totals.StockCost.Add(item.BuyPrice)
	}
	for _, item := range sold {
		totals.Revenue = totals.Revenue.Add(item.SellPrice)
		totals.SoldCost = totals.SoldCost.Add(item.BuyPrice)
	}
	return totals, nil
}
