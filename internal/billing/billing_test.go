package billing

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestComputeTotal(t *testing.T) {
	cases := []struct {
		name  string
		lines []LineInput
		want  string
	}{
		{"no lines", nil, "0.00"},
		{"blank line", []LineInput{{}}, "0.00"},
		{"names all empty", []LineInput{{Quantity: "2", Price: "4"}}, "0.00"},
		{"single line", []LineInput{{MedicineName: "Paracetamol", Quantity: "5", Price: "5"}}, "25.00"},
		{"half up", []LineInput{{MedicineName: "Syrup", Quantity: "2", Price: "10.005"}}, "20.01"},
		{"rounds half up", []LineInput{{MedicineName: "Drops", Quantity: "1", Price: "0.125"}}, "0.13"},
		{"non numeric price", []LineInput{{MedicineName: "A", Quantity: "3", Price: "abc"}}, "0.00"},
		{"non numeric quantity", []LineInput{
			{MedicineName: "A", Quantity: "x", Price: "9"},
			{MedicineName: "B", Quantity: "2", Price: "1.50"},
		}, "3.00"},
		{"missing quantity", []LineInput{{MedicineName: "A", Price: "9"}}, "0.00"},
		{"padded values", []LineInput{{MedicineName: "A", Quantity: " 2 ", Price: " 0.1 "}}, "0.20"},
		{"exponent price", []LineInput{{MedicineName: "A", Quantity: "1", Price: "1e7"}}, "0.00"},
		{"huge exponent price", []LineInput{{MedicineName: "A", Quantity: "1", Price: "1e50000000"}}, "0.00"},
		{"exponent quantity", []LineInput{{MedicineName: "A", Quantity: "1E9", Price: "2"}}, "0.00"},
		{"overlong value", []LineInput{{MedicineName: "A", Quantity: "1", Price: "1" + strings.Repeat("0", 40)}}, "0.00"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, ComputeTotal(tc.lines))
		})
	}
}

func TestTotalRoundsToCents(t *testing.T) {
	lines := []Line{
		{MedicineName: "Syrup", Quantity: 2, Price: decimal.RequireFromString("10.005")},
		{MedicineName: "Paracetamol", Quantity: 1, Price: decimal.NewFromInt(5)},
	}
	require.Equal(t, "25.01", Total(lines).StringFixed(2))
	require.True(t, Total(nil).IsZero())
}

func TestNewOrderDerivesTotal(t *testing.T) {
	order := NewOrder("Nimal", "Cash", "2026-10-18", []Line{
		{MedicineName: "Paracetamol", Quantity: 5, Price: decimal.NewFromInt(5)},
	})
	require.Equal(t, "25.00", order.Total.StringFixed(2))
}
