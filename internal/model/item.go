package model

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Item is a collectible currently in stock.
type Item struct {
	ID            int64           `json:"id"`
	Name          string          `json:"name"`
	Condition     string          `json:"condition"`
	CatalogNumber string          `json:"catalog_number"`
	BuyPrice      decimal.Decimal `json:"buy_price"`
	Identifier    string          `json:"identifier"`
	DateAdded     time.Time       `json:"date_added"`
}

// SoldItem is an item that went through a sale. It keeps the identifier and
// purchase data of the item it was sold from.
type SoldItem struct {
	Item
	SellPrice decimal.Decimal `json:"sell_price"`
	SoldDate  time.Time       `json:"sold_date"`
}

// Profit returns the sell price minus the buy price.
func (s SoldItem) Profit() decimal.Decimal {
	return s.SellPrice.Sub(s.BuyPrice)
}

// OrderBy selects the ordering of active item listings.
type OrderBy int

// Orderings.
const (
	// OrderInsertion lists items by ascending id.
	OrderInsertion OrderBy = iota
	// OrderRecency lists the most recently added items first.
	OrderRecency
)

func (o OrderBy) String() string {
	switch o {
	case OrderInsertion:
		return "insertion"
	case OrderRecency:
		return "recency"
	default:
		return fmt.Sprintf("OrderBy(%d)", int(o))
	}
}

// ParseOrderBy parses an ordering name. An empty name selects OrderInsertion.
func ParseOrderBy(s string) (OrderBy, error) {
	switch s {
	case "", "insertion":
		return OrderInsertion, nil
	case "recency", "recent":
		return OrderRecency, nil
	default:
		return 0, fmt.Errorf("unknown ordering %q", s)
	}
}

// Totals summarizes both collections.
type Totals struct {
	ActiveCount int             `json:"active_count"`
	SoldCount   int             `json:"sold_count"`
	StockCost   decimal.Decimal `json:"stock_cost"`
	Revenue     decimal.Decimal `json:"revenue"`
	SoldCost    decimal.Decimal `json:"sold_cost"`
}

// Profit returns revenue minus the cost of the sold items.
func (t Totals) Profit() decimal.Decimal {
	return t.Revenue.Sub(t.SoldCost)
}
