// Package billing validates billing lines against an inventory snapshot and
// computes order totals.
package billing

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ZeroTotal is the total shown for an order with nothing on it.
const ZeroTotal = "0.00"

// Line is a billing line with parsed values.
type Line struct {
	MedicineName string          `json:"medName"`
	Quantity     int64           `json:"quantity"`
	Price        decimal.Decimal `json:"price"`
}

// Subtotal returns quantity * price.
func (l Line) Subtotal() decimal.Decimal {
	return l.Price.Mul(decimal.NewFromInt(l.Quantity))
}

// LineInput is a billing line as typed into the form. Values stay raw text
// until the order is prepared for submission.
type LineInput struct {
	MedicineName string `json:"medName"`
	Quantity     string `json:"quantity"`
	Price        string `json:"price"`
}

// Order is a billing order ready to be handed to the billing writer.
type Order struct {
	CustomerName  string          `json:"customerName"`
	Lines         []Line          `json:"medicines"`
	PaymentMethod string          `json:"paymentMethod"`
	Date          string          `json:"date"`
	Total         decimal.Decimal `json:"total"`
}

// NewOrder builds an order whose total is derived from lines.
func NewOrder(customer, payment, date string, lines []Line) Order {
	return Order{
		CustomerName:  customer,
		Lines:         lines,
		PaymentMethod: payment,
		Date:          date,
		Total:         Total(lines),
	}
}

// ComputeTotal sums quantity * price over lines for live display. Values that
// do not parse as numbers count as zero.
func ComputeTotal(lines []LineInput) string {
	if len(lines) == 0 || allNamesEmpty(lines) {
		return ZeroTotal
	}
	sum := decimal.Zero
	for _, l := range lines {
		sum = sum.Add(lenient(l.Quantity).Mul(lenient(l.Price)))
	}
	return sum.StringFixed(2)
}

// Total sums the subtotals of parsed lines, rounded half-up to cents.
func Total(lines []Line) decimal.Decimal {
	sum := decimal.Zero
	for _, l := range lines {
		sum = sum.Add(l.Subtotal())
	}
	return sum.Round(2)
}

func allNamesEmpty(lines []LineInput) bool {
	for _, l := range lines {
		if l.MedicineName != "" {
			return false
		}
	}
	return true
}

// Bounds on the values lenient accepts; anything larger counts as zero.
const (
	maxExponent = 12
	maxInputLen = 32
)

func lenient(raw string) decimal.Decimal {
	raw = strings.TrimSpace(raw)
	if len(raw) > maxInputLen || strings.ContainsAny(raw, "eE") {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(raw)
	if err != nil || d.Exponent() > maxExponent || d.Exponent() < -maxExponent {
		return decimal.Zero
	}
	return d
}
