package domain

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestMoneyEncodesAsNumber(t *testing.T) {
	raw, err := json.Marshal(InventoryRecord{ID: 1, MedicineName: "Paracetamol", Price: decimal.RequireFromString("5.50"), Quantity: 10})
	require.NoError(t, err)
	require.Contains(t, string(raw), `"price":5.5`)

	raw, err = json.Marshal(Bill{ID: 2, TotalAmount: decimal.NewFromInt(25), Medicines: []BillLine{{MedName: "Paracetamol", Quantity: 5, Price: decimal.NewFromInt(5)}}})
	require.NoError(t, err)
	require.Contains(t, string(raw), `"totalAmount":25`)
	require.Contains(t, string(raw), `"price":5`)

	var rec InventoryRecord
	require.NoError(t, json.Unmarshal([]byte(`{"price":"12.50"}`), &rec))
	require.Equal(t, "12.50", rec.Price.StringFixed(2))
}
