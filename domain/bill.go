package domain

import "github.com/shopspring/decimal"

// Bill is a persisted billing order.
type Bill struct {
	ID            int64           `db:"id" json:"_id"`
	CustomerName  string          `db:"customer_name" json:"customerName"`
	PaymentMethod string          `db:"payment_method" json:"paymentMethod"`
	Date          string          `db:"bill_date" json:"date"`
	TotalAmount   decimal.Decimal `db:"total_amount" json:"totalAmount"`
	Medicines     []BillLine      `db:"-" json:"medicines"`
	CreatedAt     string          `db:"created_at" json:"createdAt,omitempty"`
}

// BillLine is one row of a bill, stored in bill order.
type BillLine struct {
	ID       int64           `db:"id" json:"-"`
	BillID   int64           `db:"bill_id" json:"-"`
	Position int             `db:"position" json:"-"`
	MedName  string          `db:"med_name" json:"medName"`
	Quantity int64           `db:"quantity" json:"quantity"`
	Price    decimal.Decimal `db:"price" json:"price"`
}

// Subtotal returns quantity * price.
func (l BillLine) Subtotal() decimal.Decimal {
	return l.Price.Mul(decimal.NewFromInt(l.Quantity))
}
