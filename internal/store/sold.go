package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/erazemk/zbirka/internal/model"
)

const soldColumns = `id, name, condition, catalog_number, buy_price, identifier, date_added, sell_price, sold_date`

// SellItem moves an active item into the sold collection in one transaction.
// The sold record gets a new id; the identifier and purchase data carry over.
func (s *Store) SellItem(ctx context.Context, id int64, sellPrice decimal.Decimal) (*model.SoldItem, error) {
	const op = "sell item"

	if err := validateSellPrice(op, sellPrice); err != nil {
		return nil, err
	}

	var sold *model.SoldItem
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		item, err := getActive(ctx, tx, id)
		if errors.Is(err, sql.ErrNoRows) {
			return &NotFoundError{Op: op, Collection: CollectionActive, ID: id}
		}
		if err != nil {
			return fmt.Errorf("reading active item: %w", err)
		}

		sold = &model.SoldItem{
			Item:      *item,
			SellPrice: sellPrice,
			SoldDate:  s.timestamp(),
		}

		soldID, err := mintID(ctx, tx)
		if err != nil {
			return err
		}

		_, err = tx.ExecContext(ctx,
			`INSERT INTO sold_items (id, name, condition, catalog_number, buy_price, identifier, date_added, sell_price, sold_date)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			soldID, sold.Name, sold.Condition, sold.CatalogNumber, sold.BuyPrice.String(), sold.Identifier,
			sold.DateAdded, sold.SellPrice.String(), sold.SoldDate,
		)
		if err != nil {
			return fmt.Errorf("inserting sold item: %w", err)
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM active_items WHERE id = ?`, id); err != nil {
			return fmt.Errorf("removing active item: %w", err)
		}

		sold.ID = soldID
		return nil
	})
	if err != nil {
		return nil, storageErr(op, id, err)
	}

	s.log.Info().Str("op", op).Int64("id", id).Int64("sold_id", sold.ID).
		Str("sell_price", sold.SellPrice.String()).Msg("item sold")
	return sold, nil
}

// UndoSale moves a sold item back into the active collection in one
// transaction. The restored item gets a new id and dateAdded; the sale
// price and date are discarded.
func (s *Store) UndoSale(ctx context.Context, id int64) (*model.Item, error) {
	const op = "undo sale"

	var item *model.Item
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		sold, err := getSold(ctx, tx, id)
		if errors.Is(err, sql.ErrNoRows) {
			return &NotFoundError{Op: op, Collection: CollectionSold, ID: id}
		}
		if err != nil {
			return fmt.Errorf("reading sold item: %w", err)
		}

		item = &model.Item{
			Name:          sold.Name,
			Condition:     sold.Condition,
			CatalogNumber: sold.CatalogNumber,
			BuyPrice:      sold.BuyPrice,
			Identifier:    sold.Identifier,
			DateAdded:     s.timestamp(),
		}

		activeID, err := insertActive(ctx, tx, item)
		if err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM sold_items WHERE id = ?`, id); err != nil {
			return fmt.Errorf("removing sold item: %w", err)
		}

		item.ID = activeID
		return nil
	})
	if err != nil {
		return nil, storageErr(op, id, err)
	}

	s.log.Info().Str("op", op).Int64("sold_id", id).Int64("id", item.ID).Msg("sale undone")
	return item, nil
}

// GetSoldItem returns a sold item by id.
func (s *Store) GetSoldItem(ctx context.Context, id int64) (*model.SoldItem, error) {
	const op = "get sold item"

	sold, err := getSold(ctx, s.db, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &NotFoundError{Op: op, Collection: CollectionSold, ID: id}
	}
	if err != nil {
		return nil, storageErr(op, id, err)
	}
	return sold, nil
}

func getSold(ctx context.Context, q queryRower, id int64) (*model.SoldItem, error) {
	row := q.QueryRowContext(ctx, `SELECT `+soldColumns+` FROM sold_items WHERE id = ?`, id)
	return scanSold(row)
}

func scanSold(row scanner) (*model.SoldItem, error) {
	sold := &model.SoldItem{}
	if err := row.Scan(&sold.ID, &sold.Name, &sold.Condition, &sold.CatalogNumber, &sold.BuyPrice,
		&sold.Identifier, &sold.DateAdded, &sold.SellPrice, &sold.SoldDate); err != nil {
		return nil, err
	}
	return sold, nil
}

// ListSold returns all sold items in id order.
func (s *Store) ListSold(ctx context.Context) ([]model.SoldItem, error) {
	items, err := s.querySold(ctx, `SELECT `+soldColumns+` FROM sold_items ORDER BY id`)
	if err != nil {
		return nil, storageErr("list sold items", 0, err)
	}
	return items, nil
}

func (s *Store) querySold(ctx context.Context, query string, args ...any) ([]model.SoldItem, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying sold items: %w", err)
	}
	defer rows.Close()

	items := []model.SoldItem{}
	for rows.Next() {
		sold, err := scanSold(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning sold item: %w", err)
		}
		items = append(items, *sold)
	}
	return items, rows.Err()
}

// EditSoldItem replaces the editable fields of a sold item, including its
// sell price. The id, identifier, dateAdded and soldDate are left untouched.
func (s *Store) EditSoldItem(ctx context.Context, id int64, fields ItemFields, sellPrice decimal.Decimal) (*model.SoldItem, error) {
	const op = "edit sold item"

	if err := validateItemFields(op, &fields); err != nil {
		return nil, err
	}
	if err := validateSellPrice(op, sellPrice); err != nil {
		return nil, err
	}

	err := s.withTx(ctx, func(tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx,
			`UPDATE sold_items SET name = ?, condition = ?, catalog_number = ?, buy_price = ?, sell_price = ?
			 WHERE id = ?`,
			fields.Name, fields.Condition, fields.CatalogNumber, fields.BuyPrice.String(), sellPrice.String(), id,
		)
		if err != nil {
			return fmt.Errorf("updating sold item: %w", err)
		}
		return expectOne(result, &NotFoundError{Op: op, Collection: CollectionSold, ID: id})
	})
	if err != nil {
		return nil, storageErr(op, id, err)
	}

	s.log.Info().Str("op", op).Int64("id", id).Msg("sold item edited")
	return s.GetSoldItem(ctx, id)
}

// DeleteSoldItem removes a sold item. Deleting an absent item is a NotFoundError.
func (s *Store) DeleteSoldItem(ctx context.Context, id int64) error {
	const op = "delete sold item"

	result, err := s.db.ExecContext(ctx, `DELETE FROM sold_items WHERE id = ?`, id)
	if err != nil {
		return storageErr(op, id, fmt.Errorf("deleting sold item: %w", err))
	}
	if err := expectOne(result, &NotFoundError{Op: op, Collection: CollectionSold, ID: id}); err != nil {
		return storageErr(op, id, err)
	}

	s.log.Info().Str("op", op).Int64("id", id).Msg("sold item deleted")
	return nil
}
