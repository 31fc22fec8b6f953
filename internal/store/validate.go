package store

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/erazemk/zbirka/internal/barcode"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	// Prices are compared by their exact sign.
	v.RegisterCustomTypeFunc(func(field reflect.Value) any {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			return int64(d.Sign())
		}
		return nil
	}, decimal.Decimal{})
	return v
}

// ItemFields holds the editable fields of an item.
type ItemFields struct {
	Name          string          `json:"name" validate:"required"`
	Condition     string          `json:"condition" validate:"required"`
	CatalogNumber string          `json:"catalog_number" validate:"required"`
	BuyPrice      decimal.Decimal `json:"buy_price" validate:"gte=0"`
}

func (f *ItemFields) normalize() {
	f.Name = strings.TrimSpace(f.Name)
	f.Condition = strings.TrimSpace(f.Condition)
	f.CatalogNumber = strings.TrimSpace(f.CatalogNumber)
}

type salePrice struct {
	SellPrice decimal.Decimal `json:"sell_price" validate:"gte=0"`
}

// validateStruct runs tag validation and reports the first failing field.
func validateStruct(op string, s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return &ValidationError{Op: op, Reason: err.Error()}
	}

	fe := fieldErrs[0]
	return &ValidationError{Op: op, Field: fe.Field(), Reason: reason(fe)}
}

func reason(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "gte":
		return "must not be negative"
	default:
		return "is invalid"
	}
}

func validateItemFields(op string, f *ItemFields) error {
	f.normalize()
	return validateStruct(op, f)
}

func validateSellPrice(op string, price decimal.Decimal) error {
	return validateStruct(op, &salePrice{SellPrice: price})
}

func validateIdentifier(op, identifier string) error {
	if !barcode.IsValid(identifier) {
		return &ValidationError{Op: op, Field: "identifier", Reason: "is not a valid 12-digit identifier"}
	}
	return nil
}
