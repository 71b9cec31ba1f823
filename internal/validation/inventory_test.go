package validation

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func valid() Inventory {
	return Inventory{
		MedicineName: " Paracetamol ",
		Category:     "Painkillers",
		Price:        "5.5",
		Quantity:     "10",
		ExpiryDate:   "2027-01-31",
		Supplier:     "MediSupply",
	}
}

func TestCheck(t *testing.T) {
	rec, err := Check(New(), valid())
	require.NoError(t, err)
	require.Equal(t, "Paracetamol", rec.MedicineName)
	require.Equal(t, "5.50", rec.Price.StringFixed(2))
	require.EqualValues(t, 10, rec.Quantity)
	require.Equal(t, "2027-01-31", rec.ExpiryDate)
}

func TestCheckRejects(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Inventory)
		msg    string
	}{
		{"blank name", func(in *Inventory) { in.MedicineName = "  " }, "medicineName is required"},
		{"unknown category", func(in *Inventory) { in.Category = "Herbal" }, "category must be one of Gastrointestinal"},
		{"unknown supplier", func(in *Inventory) { in.Supplier = "Corner Shop" }, "supplier must be one of Pharma Inc."},
		{"three decimals", func(in *Inventory) { in.Price = "1.005" }, "price must be a number with at most 2 decimal places"},
		{"exponent price", func(in *Inventory) { in.Price = "1e50000000" }, "price must be a number with at most 2 decimal places"},
		{"negative price", func(in *Inventory) { in.Price = "-1" }, "price must be a number"},
		{"zero quantity", func(in *Inventory) { in.Quantity = "0" }, "quantity must be a whole number greater than 0"},
		{"fractional quantity", func(in *Inventory) { in.Quantity = "1.5" }, "quantity must be a whole number"},
		{"bad date", func(in *Inventory) { in.ExpiryDate = "31/01/2027" }, "expiryDate must be a date in YYYY-MM-DD format"},
	}
	v := New()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := valid()
			tt.modify(&in)
			_, err := Check(v, in)
			require.Error(t, err)
			require.Contains(t, Message(err), tt.msg)
		})
	}
}

func TestMessageJoinsFields(t *testing.T) {
	_, err := Check(New(), Inventory{})
	require.Error(t, err)
	msg := Message(err)
	require.Contains(t, msg, "medicineName is required")
	require.Contains(t, msg, "supplier is required")
}
