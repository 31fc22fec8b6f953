package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/erazemk/zbirka/internal/model"
)

const activeColumns = `id, name, condition, catalog_number, buy_price, identifier, date_added`

// Fixed queries per ordering; callers never splice text into SQL.
var listActiveQueries = map[model.OrderBy]string{
	model.OrderInsertion: `SELECT ` + activeColumns + ` FROM active_items ORDER BY id`,
	model.OrderRecency:   `SELECT ` + activeColumns + ` FROM active_items ORDER BY date_added DESC, id DESC`,
}

// AddItem creates a new active item with a freshly minted identifier.
func (s *Store) AddItem(ctx context.Context, fields ItemFields) (*model.Item, error) {
	const op = "add item"

	if err := validateItemFields(op, &fields); err != nil {
		return nil, err
	}

	item := &model.Item{
		Name:          fields.Name,
		Condition:     fields.Condition,
		CatalogNumber: fields.CatalogNumber,
		BuyPrice:      fields.BuyPrice,
		Identifier:    s.identify(),
		DateAdded:     s.timestamp(),
	}
	if err := validateIdentifier(op, item.Identifier); err != nil {
		return nil, err
	}

	err := s.withTx(ctx, func(tx *sql.Tx) error {
		id, err := insertActive(ctx, tx, item)
		if err != nil {
			return err
		}
		item.ID = id
		return nil
	})
	if err != nil {
		return nil, storageErr(op, 0, err)
	}

	s.log.Info().Str("op", op).Int64("id", item.ID).Str("identifier", item.Identifier).Msg("item added")
	return item, nil
}

// insertActive mints an id and inserts item into the active collection.
func insertActive(ctx context.Context, tx *sql.Tx, item *model.Item) (int64, error) {
	id, err := mintID(ctx, tx)
	if err != nil {
		return 0, err
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO active_items (id, name, condition, catalog_number, buy_price, identifier, date_added)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		id, item.Name, item.Condition, item.CatalogNumber, item.BuyPrice.String(), item.Identifier, item.DateAdded,
	)
	if err != nil {
		return 0, fmt.Errorf("inserting active item: %w", err)
	}
	return id, nil
}

// GetItem returns an active item by id.
func (s *Store) GetItem(ctx context.Context, id int64) (*model.Item, error) {
	const op = "get item"

	item, err := getActive(ctx, s.db, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &NotFoundError{Op: op, Collection: CollectionActive, ID: id}
	}
	if err != nil {
		return nil, storageErr(op, id, err)
	}
	return item, nil
}

type queryRower interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func getActive(ctx context.Context, q queryRower, id int64) (*model.Item, error) {
	row := q.QueryRowContext(ctx, `SELECT `+activeColumns+` FROM active_items WHERE id = ?`, id)
	return scanItem(row)
}

func scanItem(row scanner) (*model.Item, error) {
	item := &model.Item{}
	if err := row.Scan(&item.ID, &item.Name, &item.Condition, &item.CatalogNumber,
		&item.BuyPrice, &item.Identifier, &item.DateAdded); err != nil {
		return nil, err
	}
	return item, nil
}

// ListActive returns all active items in the requested order.
func (s *Store) ListActive(ctx context.Context, order model.OrderBy) ([]model.Item, error) {
	const op = "list items"

	query, ok := listActiveQueries[order]
	if !ok {
		return nil, &ValidationError{Op: op, Field: "order", Reason: fmt.Sprintf("has unknown value %d", int(order))}
	}

	items, err := s.queryActive(ctx, query)
	if err != nil {
		return nil, storageErr(op, 0, err)
	}
	return items, nil
}

func (s *Store) queryActive(ctx context.Context, query string, args ...any) ([]model.Item, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying active items: %w", err)
	}
	defer rows.Close()

	items := []model.Item{}
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning active item: %w", err)
		}
		items = append(items, *item)
	}
	return items, rows.Err()
}

// EditItem replaces the editable fields of an active item. The id,
// identifier and dateAdded are left untouched.
func (s *Store) EditItem(ctx context.Context, id int64, fields ItemFields) (*model.Item, error) {
	const op = "edit item"

	if err := validateItemFields(op, &fields); err != nil {
		return nil, err
	}

	err := s.withTx(ctx, func(tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx,
			`UPDATE active_items SET name = ?, condition = ?, catalog_number = ?, buy_price = ?
			 WHERE id = ?`,
			fields.Name, fields.Condition, fields.CatalogNumber, fields.BuyPrice.String(), id,
		)
		if err != nil {
			return fmt.Errorf("updating active item: %w", err)
		}
		return expectOne(result, &NotFoundError{Op: op, Collection: CollectionActive, ID: id})
	})
	if err != nil {
		return nil, storageErr(op, id, err)
	}

	s.log.Info().Str("op", op).Int64("id", id).Msg("item edited")
	return s.GetItem(ctx, id)
}

// DeleteItem removes an active item. Deleting an absent item is a NotFoundError.
func (s *Store) DeleteItem(ctx context.Context, id int64) error {
	const op = "delete item"

	result, err := s.db.ExecContext(ctx, `DELETE FROM active_items WHERE id = ?`, id)
	if err != nil {
		return storageErr(op, id, fmt.Errorf("deleting active item: %w", err))
	}
	if err := expectOne(result, &NotFoundError{Op: op, Collection: CollectionActive, ID: id}); err != nil {
		return storageErr(op, id, err)
	}

	s.log.Info().Str("op", op).Int64("id", id).Msg("item deleted")
	return nil
}

// expectOne returns notFound if the statement affected no rows.
func expectOne(result sql.Result, notFound *NotFoundError) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking affected rows: %w", err)
	}
	if n == 0 {
		return notFound
	}
	return nil
}
