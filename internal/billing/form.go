package billing

import (
	"errors"
	"fmt"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"pharmacy/m/domain"
)

var (
	// ErrInvalidOrder reports a missing customer, payment method or date.
	ErrInvalidOrder = errors.New("invalid billing order")
	// ErrNoLines reports an order without medicines.
	ErrNoLines = errors.New("billing order has no medicines")
	// ErrMissingMedicine reports a line with a blank medicine name.
	ErrMissingMedicine = errors.New("medicine name is required")
	// ErrInvalidQuantity reports a quantity that is not a whole number of at least 1.
	ErrInvalidQuantity = errors.New("quantity must be a whole number of at least 1")
	// ErrInvalidPrice reports a price that does not match PricePattern.
	ErrInvalidPrice = errors.New("price must be a non-negative amount with at most 2 decimals")
)

// PricePattern is the accepted text form of a price: plain digits with at
// most two decimals.
var PricePattern = regexp.MustCompile(`^\d+(\.\d{0,2})?$`)

// Field names a column of a form line.
type Field int

const (
	FieldMedicineName Field = iota
	FieldQuantity
	FieldPrice
)

// Form is the state of one billing form. The reducers below never modify
// their argument; they return the next state.
type Form struct {
	CustomerName  string
	Lines         []LineInput
	PaymentMethod string
	Date          string

	// Suggestions belong to the line at SuggestionLine.
	Suggestions    []domain.InventoryRecord
	SuggestionLine int

	Error string
}

// NewForm returns an empty form dated today with one blank line.
func NewForm(today string) Form {
	return Form{
		Lines: []LineInput{{}},
		Date:  today,
	}
}

// Reset clears the form back to its initial state.
func Reset(today string) Form {
	return NewForm(today)
}

// Total is the live total of the form lines.
func (f Form) Total() string {
	return ComputeTotal(f.Lines)
}

func (f Form) clone() Form {
	f.Lines = slices.Clone(f.Lines)
	f.Suggestions = slices.Clone(f.Suggestions)
	return f
}

// AddLine appends a blank line.
func AddLine(f Form) Form {
	next := f.clone()
	next.Lines = append(next.Lines, LineInput{})
	return next
}

// RemoveLine drops the line at i. The first line always stays.
func RemoveLine(f Form, i int) Form {
	if i <= 0 || i >= len(f.Lines) {
		return f
	}
	next := f.clone()
	next.Lines = slices.Delete(next.Lines, i, i+1)
	switch {
	case next.SuggestionLine == i:
		next.Suggestions = nil
	case next.SuggestionLine > i:
		next.SuggestionLine--
	}
	return next
}

// SetLineField stores value into one field of line i.
func SetLineField(f Form, i int, field Field, value string) Form {
	if i < 0 || i >= len(f.Lines) {
		return f
	}
	next := f.clone()
	switch field {
	case FieldMedicineName:
		next.Lines[i].MedicineName = value
	case FieldQuantity:
		next.Lines[i].Quantity = value
	case FieldPrice:
		next.Lines[i].Price = value
	}
	return next
}

// SetMedicineName updates the name of line i and refreshes the suggestions.
func SetMedicineName(f Form, i int, value string, snap *Snapshot) Form {
	if i < 0 || i >= len(f.Lines) {
		return f
	}
	next := SetLineField(f, i, FieldMedicineName, value)
	next.Suggestions = FilterSuggestions(value, snap)
	next.SuggestionLine = i
	return next
}

// SelectSuggestion fills line i from rec and clears the suggestions.
func SelectSuggestion(f Form, i int, rec domain.InventoryRecord) Form {
	if i < 0 || i >= len(f.Lines) {
		return f
	}
	next := f.clone()
	next.Lines[i].MedicineName = rec.MedicineName
	next.Lines[i].Price = rec.Price.String()
	next.Suggestions = nil
	return next
}

// WithError records a message to show the user.
func WithError(f Form, msg string) Form {
	next := f.clone()
	next.Error = msg
	return next
}

type orderHeader struct {
	CustomerName  string `validate:"required"`
	PaymentMethod string `validate:"required,oneof=Cash Debit Credit"`
	Date          string `validate:"required,datetime=2006-01-02"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Prepare turns the form into an order. It parses every line strictly and
// then runs ValidateStock; any failure blocks submission.
func Prepare(f Form, snap *Snapshot) (Order, error) {
	order, err := ParseOrder(f.CustomerName, f.PaymentMethod, f.Date, f.Lines)
	if err != nil {
		return Order{}, err
	}
	if err := ValidateStock(order.Lines, snap); err != nil {
		return Order{}, err
	}
	return order, nil
}

// ParseOrder checks the order header and parses every line. It does not look
// at stock.
func ParseOrder(customer, payment, date string, inputs []LineInput) (Order, error) {
	header := orderHeader{
		CustomerName:  strings.TrimSpace(customer),
		PaymentMethod: payment,
		Date:          date,
	}
	if err := validate.Struct(header); err != nil {
		return Order{}, fmt.Errorf("%w: %s", ErrInvalidOrder, describe(err))
	}
	if len(inputs) == 0 {
		return Order{}, ErrNoLines
	}
	lines := make([]Line, 0, len(inputs))
	for i, in := range inputs {
		line, err := ParseLine(in)
		if err != nil {
			return Order{}, fmt.Errorf("line %d: %w", i+1, err)
		}
		lines = append(lines, line)
	}
	return NewOrder(header.CustomerName, header.PaymentMethod, header.Date, lines), nil
}

// ParseLine converts a form line into a Line.
func ParseLine(in LineInput) (Line, error) {
	if strings.TrimSpace(in.MedicineName) == "" {
		return Line{}, ErrMissingMedicine
	}
	qty, err := strconv.ParseInt(strings.TrimSpace(in.Quantity), 10, 64)
	if err != nil || qty < 1 {
		return Line{}, ErrInvalidQuantity
	}
	price, err := ParsePrice(in.Price)
	if err != nil {
		return Line{}, err
	}
	return Line{MedicineName: in.MedicineName, Quantity: qty, Price: price}, nil
}

// ParsePrice accepts non-negative amounts with at most two decimals.
func ParsePrice(raw string) (decimal.Decimal, error) {
	raw = strings.TrimSpace(raw)
	if !PricePattern.MatchString(raw) {
		return decimal.Decimal{}, ErrInvalidPrice
	}
	price, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Decimal{}, ErrInvalidPrice
	}
	return price, nil
}

func describe(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		parts = append(parts, fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag()))
	}
	return strings.Join(parts, ", ")
}
