package main

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/erazemk/zbirka/internal/model"
)

const dateLayout = "2006-01-02 15:04"

func formatTime(t time.Time) string {
	return t.Local().Format(dateLayout)
}

func printItems(w io.Writer, items []model.Item) error {
	if len(items) == 0 {
		fmt.Fprintln(w, "No items")
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tCONDITION\tNUMBER\tBUY\tIDENTIFIER\tADDED")
	for _, item := range items {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t%s\n",
			item.ID, item.Name, item.Condition, item.CatalogNumber,
			item.BuyPrice.StringFixed(2), item.Identifier, formatTime(item.DateAdded))
	}
	return tw.Flush()
}

func printSoldItems(w io.Writer, items []model.SoldItem) error {
	if len(items) == 0 {
		fmt.Fprintln(w, "No sold items")
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tCONDITION\tNUMBER\tBUY\tSELL\tIDENTIFIER\tSOLD")
	for _, item := range items {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			item.ID, item.Name, item.Condition, item.CatalogNumber,
			item.BuyPrice.StringFixed(2), item.SellPrice.StringFixed(2), item.Identifier, formatTime(item.SoldDate))
	}
	return tw.Flush()
}

func printItem(w io.Writer, item *model.Item) {
	fmt.Fprintf(w, "ID:          %d\n", item.ID)
	fmt.Fprintf(w, "Name:        %s\n", item.Name)
	fmt.Fprintf(w, "Condition:   %s\n", item.Condition)
	fmt.Fprintf(w, "Number:      %s\n", item.CatalogNumber)
	fmt.Fprintf(w, "Buy price:   %s\n", item.BuyPrice.StringFixed(2))
	fmt.Fprintf(w, "Identifier:  %s\n", item.Identifier)
	fmt.Fprintf(w, "Added:       %s\n", formatTime(item.DateAdded))
}

func printSoldItem(w io.Writer, item *model.SoldItem) {
	printItem(w, &item.Item)
	fmt.Fprintf(w, "Sell price:  %s\n", item.SellPrice.StringFixed(2))
	fmt.Fprintf(w, "Profit:      %s\n", item.Profit().StringFixed(2))
	fmt.Fprintf(w, "Sold:        %s\n", formatTime(item.SoldDate))
}

func printTotals(w io.Writer, totals *model.Totals) {
	fmt.Fprintf(w, "In stock:    %d (cost %s)\n", totals.ActiveCount, totals.StockCost.StringFixed(2))
	fmt.Fprintf(w, "Sold:        %d (revenue %s, cost %s)\n", totals.SoldCount,
		totals.Revenue.StringFixed(2), totals.SoldCost.StringFixed(2))
	fmt.Fprintf(w, "Profit:      %s\n", totals.Profit().StringFixed(2))
}
