package label

import (
	"fmt"
	"image/color"

	"github.com/boombuler/barcode"
	"github.com/boombuler/barcode/ean"

	upc "github.com/erazemk/zbirka/internal/barcode"
)

// Modules is the width of a UPC-A symbol in modules, guards included.
const Modules = 95

// Symbol returns the scannable symbol of a UPC-A identifier. UPC-A is
// EAN-13 with a leading zero, which keeps the same bars.
func Symbol(identifier string) (barcode.Barcode, error) {
	if !upc.IsValid(identifier) {
		return nil, fmt.Errorf("invalid identifier %q", identifier)
	}

	bc, err := ean.Encode("0" + identifier)
	if err != nil {
		return nil, fmt.Errorf("encoding identifier %s: %w", identifier, err)
	}
	if w := bc.Bounds().Dx(); w != Modules {
		return nil, fmt.Errorf("encoding identifier %s: got %d modules, want %d", identifier, w, Modules)
	}
	return bc, nil
}

// Encode returns the bar pattern of a UPC-A identifier, one entry per
// module, true for a dark bar.
func Encode(identifier string) ([]bool, error) {
	bc, err := Symbol(identifier)
	if err != nil {
		return nil, err
	}
	return modules(bc), nil
}

func modules(bc barcode.Barcode) []bool {
	bounds := bc.Bounds()
	pattern := make([]bool, bounds.Dx())
	for x := range pattern {
		pattern[x] = isDark(bc.At(bounds.Min.X+x, bounds.Min.Y))
	}
	return pattern
}

func isDark(c color.Color) bool {
	y := color.GrayModel.Convert(c).(color.Gray).Y
	return y < 0x80
}

// isGuard reports whether module m belongs to a guard pattern or to the
// first or last digit, which UPC-A draws extended below the other bars.
func isGuard(m int) bool {
	switch {
	case m < 3+7: // start guard and first digit
		return true
	case m >= 45 && m < 50: // center guard
		return true
	case m >= Modules-3-7: // last digit and end guard
		return true
	}
	return false
}
