// Package validation holds the rules every inventory write goes through,
// whether it arrives over HTTP or from a seed file.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"slices"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"pharmacy/m/domain"
	"pharmacy/m/internal/billing"
)

// Inventory is an inventory record in its submitted text form.
type Inventory struct {
	MedicineName string `json:"medicineName" validate:"required"`
	Category     string `json:"category" validate:"required,category"`
	Price        string `json:"price" validate:"required,price"`
	Quantity     string `json:"quantity" validate:"required,quantity"`
	ExpiryDate   string `json:"expiryDate" validate:"required,datetime=2006-01-02"`
	Supplier     string `json:"supplier" validate:"required,supplier"`
}

// New returns a validator that reports fields by their json names and knows
// the category, supplier, price and quantity tags.
func New() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("category", func(fl validator.FieldLevel) bool {
		return slices.Contains(domain.Categories, fl.Field().String())
	})
	_ = v.RegisterValidation("supplier", func(fl validator.FieldLevel) bool {
		return slices.Contains(domain.Suppliers, fl.Field().String())
	})
	_ = v.RegisterValidation("price", func(fl validator.FieldLevel) bool {
		return billing.PricePattern.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("quantity", func(fl validator.FieldLevel) bool {
		n, err := strconv.ParseInt(fl.Field().String(), 10, 64)
		return err == nil && n > 0
	})
	return v
}

// Check trims in and validates it, returning the record it describes.
func Check(v *validator.Validate, in Inventory) (domain.InventoryRecord, error) {
	in.MedicineName = strings.TrimSpace(in.MedicineName)
	in.Category = strings.TrimSpace(in.Category)
	in.Price = strings.TrimSpace(in.Price)
	in.Quantity = strings.TrimSpace(in.Quantity)
	in.ExpiryDate = strings.TrimSpace(in.ExpiryDate)
	in.Supplier = strings.TrimSpace(in.Supplier)
	if err := v.Struct(in); err != nil {
		return domain.InventoryRecord{}, err
	}
	qty, _ := strconv.ParseInt(in.Quantity, 10, 64)
	return domain.InventoryRecord{
		MedicineName: in.MedicineName,
		Category:     in.Category,
		Price:        decimal.RequireFromString(in.Price),
		Quantity:     qty,
		ExpiryDate:   in.ExpiryDate,
		Supplier:     in.Supplier,
	}, nil
}

// Message turns validation errors into one readable line.
func Message(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required":
			parts = append(parts, fe.Field()+" is required")
		case "category":
			parts = append(parts, fmt.Sprintf("category must be one of %s", strings.Join(domain.Categories, ", ")))
		case "supplier":
			parts = append(parts, fmt.Sprintf("supplier must be one of %s", strings.Join(domain.Suppliers, ", ")))
		case "price":
			parts = append(parts, "price must be a number with at most 2 decimal places")
		case "quantity":
			parts = append(parts, "quantity must be a whole number greater than 0")
		case "datetime":
			parts = append(parts, fe.Field()+" must be a date in YYYY-MM-DD format")
		default:
			parts = append(parts, fe.Field()+" is invalid")
		}
	}
	return strings.Join(parts, "; ")
}
