package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/erazemk/zbirka/internal/label"
	"github.com/erazemk/zbirka/internal/model"
	"github.com/erazemk/zbirka/internal/store"
)

type command func(ctx context.Context, a *app, args []string) error

var commands = map[string]command{
	"add":       cmdAdd,
	"list":      cmdList,
	"sold":      cmdSold,
	"search":    cmdSearch,
	"show":      cmdShow,
	"lookup":    cmdLookup,
	"edit":      cmdEdit,
	"edit-sold": cmdEditSold,
	"sell":      cmdSell,
	"undo":      cmdUndo,
	"delete":    cmdDelete,
	"label":     cmdLabel,
	"stats":     cmdStats,
}

// parseArgs parses fs and returns the positional arguments. Flags may
// appear before or after positional arguments.
func parseArgs(fs *flag.FlagSet, args []string) ([]string, error) {
	fs.SetOutput(io.Discard)
	var positional []string
	for {
		if err := fs.Parse(args); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", errUsage, fs.Name(), err)
		}
		rest := fs.Args()
		if len(rest) == 0 {
			return positional, nil
		}
		if len(args) > len(rest) && args[len(args)-len(rest)-1] == "--" {
			return append(positional, rest...), nil
		}
		positional = append(positional, rest[0])
		args = rest[1:]
	}
}

func newFlagSet(name string) *flag.FlagSet {
	return flag.NewFlagSet(name, flag.ContinueOnError)
}

func parseID(name string, args []string) (int64, error) {
	if len(args) != 1 {
		return 0, fmt.Errorf("%w: %s expects exactly one id", errUsage, name)
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: %s: invalid id %q", errUsage, name, args[0])
	}
	return id, nil
}

func parsePrice(flagName, value string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(value))
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("%w: -%s: invalid price %q", errUsage, flagName, value)
	}
	return d, nil
}

func cmdAdd(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet("add")
	name := fs.String("name", "", "")
	condition := fs.String("condition", "", "")
	number := fs.String("number", "", "")
	buyPrice := fs.String("price", "", "")
	noLabel := fs.Bool("no-label", false, "")

	rest, err := parseArgs(fs, args)
	if err != nil {
		return err
	}
	if len(rest) > 0 {
		return fmt.Errorf("%w: add: unexpected argument %q", errUsage, rest[0])
	}
	if *buyPrice == "" {
		return fmt.Errorf("%w: add requires -price", errUsage)
	}

	price, err := parsePrice("price", *buyPrice)
	if err != nil {
		return err
	}

	item, err := a.store.AddItem(ctx, store.ItemFields{
		Name:          *name,
		Condition:     *condition,
		CatalogNumber: *number,
		BuyPrice:      price,
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Added item %d with identifier %s\n", item.ID, item.Identifier)

	if !*noLabel {
		// The item is stored either way; a missing label can be rendered later.
		path, err := label.Save(a.labelDir, *item, label.DefaultOptions)
		if err != nil {
			a.log.Warn().Err(err).Int64("id", item.ID).Msg("failed to render label")
			return nil
		}
		fmt.Fprintf(a.out, "Label: %s\n", path)
	}
	return nil
}

func cmdList(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet("list")
	recent := fs.Bool("recent", false, "")
	orderName := fs.String("order", "", "")
	rest, err := parseArgs(fs, args)
	if err != nil {
		return err
	}
	if len(rest) > 0 {
		return fmt.Errorf("%w: list: unexpected argument %q", errUsage, rest[0])
	}
	order, err := ordering(*recent, *orderName)
	if err != nil {
		return err
	}

	items, err := a.store.ListActive(ctx, order)
	if err != nil {
		return err
	}
	return printItems(a.out, items)
}

func cmdSold(ctx context.Context, a *app, args []string) error {
	if len(args) > 0 {
		return fmt.Errorf("%w: sold: unexpected argument %q", errUsage, args[0])
	}
	items, err := a.store.ListSold(ctx)
	if err != nil {
		return err
	}
	return printSoldItems(a.out, items)
}

func cmdSearch(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet("search")
	sold := fs.Bool("sold", false, "")
	recent := fs.Bool("recent", false, "")
	orderName := fs.String("order", "", "")
	rest, err := parseArgs(fs, args)
	if err != nil {
		return err
	}
	query := strings.Join(rest, " ")
	order, err := ordering(*recent, *orderName)
	if err != nil {
		return err
	}

	if *sold {
		items, err := a.store.SearchSold(ctx, query)
		if err != nil {
			return err
		}
		return printSoldItems(a.out, items)
	}

	items, err := a.store.SearchActive(ctx, query, order)
	if err != nil {
		return err
	}
	return printItems(a.out, items)
}

func cmdShow(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet("show")
	sold := fs.Bool("sold", false, "")
	rest, err := parseArgs(fs, args)
	if err != nil {
		return err
	}
	id, err := parseID("show", rest)
	if err != nil {
		return err
	}

	if *sold {
		item, err := a.store.GetSoldItem(ctx, id)
		if err != nil {
			return err
		}
		printSoldItem(a.out, item)
		return nil
	}

	item, err := a.store.GetItem(ctx, id)
	if err != nil {
		return err
	}
	printItem(a.out, item)
	return nil
}

func cmdLookup(ctx context.Context, a *app, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("%w: lookup expects exactly one identifier", errUsage)
	}

	active, sold, err := a.store.FindByIdentifier(ctx, args[0])
	if err != nil {
		return err
	}
	if len(active) == 0 && len(sold) == 0 {
		fmt.Fprintf(a.out, "No items with identifier %s\n", strings.TrimSpace(args[0]))
		return nil
	}
	if len(active) > 0 {
		fmt.Fprintln(a.out, "In stock:")
		if err := printItems(a.out, active); err != nil {
			return err
		}
	}
	if len(sold) > 0 {
		fmt.Fprintln(a.out, "Sold:")
		if err := printSoldItems(a.out, sold); err != nil {
			return err
		}
	}
	return nil
}

// editFlags registers the editable item fields on fs.
type editFlags struct {
	name, condition, number, price *string
}

func registerEditFlags(fs *flag.FlagSet) editFlags {
	return editFlags{
		name:      fs.String("name", "", ""),
		condition: fs.String("condition", "", ""),
		number:    fs.String("number", "", ""),
		price:     fs.String("price", "", ""),
	}
}

// apply overwrites the fields of current whose flags were set.
func (ef editFlags) apply(fs *flag.FlagSet, current model.Item) (store.ItemFields, error) {
	fields := store.ItemFields{
		Name:          current.Name,
		Condition:     current.Condition,
		CatalogNumber: current.CatalogNumber,
		BuyPrice:      current.BuyPrice,
	}

	var err error
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "name":
			fields.Name = *ef.name
		case "condition":
			fields.Condition = *ef.condition
		case "number":
			fields.CatalogNumber = *ef.number
		case "price":
			var price decimal.Decimal
			if price, err = parsePrice("price", *ef.price); err == nil {
				fields.BuyPrice = price
			}
		}
	})
	return fields, err
}

func cmdEdit(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet("edit")
	ef := registerEditFlags(fs)
	rest, err := parseArgs(fs, args)
	if err != nil {
		return err
	}
	id, err := parseID("edit", rest)
	if err != nil {
		return err
	}

	current, err := a.store.GetItem(ctx, id)
	if err != nil {
		return err
	}
	fields, err := ef.apply(fs, *current)
	if err != nil {
		return err
	}

	item, err := a.store.EditItem(ctx, id, fields)
	if err != nil {
		return err
	}
	printItem(a.out, item)
	return nil
}

func cmdEditSold(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet("edit-sold")
	ef := registerEditFlags(fs)
	sellPrice := fs.String("sell-price", "", "")
	rest, err := parseArgs(fs, args)
	if err != nil {
		return err
	}
	id, err := parseID("edit-sold", rest)
	if err != nil {
		return err
	}

	current, err := a.store.GetSoldItem(ctx, id)
	if err != nil {
		return err
	}
	fields, err := ef.apply(fs, current.Item)
	if err != nil {
		return err
	}

	price := current.SellPrice
	if *sellPrice != "" {
		if price, err = parsePrice("sell-price", *sellPrice); err != nil {
			return err
		}
	}

	item, err := a.store.EditSoldItem(ctx, id, fields, price)
	if err != nil {
		return err
	}
	printSoldItem(a.out, item)
	return nil
}

func cmdSell(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet("sell")
	sellPrice := fs.String("price", "", "")
	rest, err := parseArgs(fs, args)
	if err != nil {
		return err
	}
	id, err := parseID("sell", rest)
	if err != nil {
		return err
	}
	if *sellPrice == "" {
		return fmt.Errorf("%w: sell requires -price", errUsage)
	}
	price, err := parsePrice("price", *sellPrice)
	if err != nil {
		return err
	}

	sold, err := a.store.SellItem(ctx, id, price)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Sold item %d for %s (sold id %d)\n", id, sold.SellPrice.StringFixed(2), sold.ID)
	return nil
}

func cmdUndo(ctx context.Context, a *app, args []string) error {
	id, err := parseID("undo", args)
	if err != nil {
		return err
	}

	item, err := a.store.UndoSale(ctx, id)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Sale %d undone, item is back in stock as %d\n", id, item.ID)
	return nil
}

func cmdDelete(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet("delete")
	sold := fs.Bool("sold", false, "")
	yes := fs.Bool("yes", false, "")
	rest, err := parseArgs(fs, args)
	if err != nil {
		return err
	}
	id, err := parseID("delete", rest)
	if err != nil {
		return err
	}

	var name string
	if *sold {
		item, err := a.store.GetSoldItem(ctx, id)
		if err != nil {
			return err
		}
		name = item.Name
	} else {
		item, err := a.store.GetItem(ctx, id)
		if err != nil {
			return err
		}
		name = item.Name
	}

	if !*yes && !confirm(a.in, a.out, fmt.Sprintf("Delete item %d (%s)?", id, name)) {
		fmt.Fprintln(a.out, "Nothing deleted")
		return nil
	}

	if *sold {
		err = a.store.DeleteSoldItem(ctx, id)
	} else {
		err = a.store.DeleteItem(ctx, id)
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Deleted item %d\n", id)
	return nil
}

func confirm(in io.Reader, out io.Writer, question string) bool {
	fmt.Fprintf(out, "%s [y/N] ", question)
	answer, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && answer == "" {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true
	}
	return false
}

func cmdLabel(ctx context.Context, a *app, args []string) error {
	id, err := parseID("label", args)
	if err != nil {
		return err
	}

	item, err := a.store.GetItem(ctx, id)
	if err != nil {
		return err
	}

	path, err := label.Save(a.labelDir, *item, label.DefaultOptions)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Label: %s\n", path)
	return nil
}

func cmdStats(ctx context.Context, a *app, args []string) error {
	if len(args) > 0 {
		return fmt.Errorf("%w: stats: unexpected argument %q", errUsage, args[0])
	}

	totals, err := a.store.Totals(ctx)
	if err != nil {
		return err
	}
	printTotals(a.out, totals)
	return nil
}

// ordering resolves the -recent and -order flags; -recent wins.
func ordering(recent bool, name string) (model.OrderBy, error) {
	if recent {
		return model.OrderRecency, nil
	}
	order, err := model.ParseOrderBy(name)
	if err != nil {
		return 0, fmt.Errorf("%w: -order: %v", errUsage, err)
	}
	return order, nil
}
