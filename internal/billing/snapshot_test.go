package billing

import (
	"testing"

	"github.com/stretchr/testify/require"

	"pharmacy/m/domain"
)

func suggestionSnapshot() *Snapshot {
	return NewSnapshot([]domain.InventoryRecord{
		{ID: 1, MedicineName: "Paracetamol 500mg"},
		{ID: 2, MedicineName: "Amoxicillin"},
		{ID: 3, MedicineName: "PARACETAMOL Syrup"},
	})
}

func ids(records []domain.InventoryRecord) []int64 {
	out := make([]int64, 0, len(records))
	for _, r := range records {
		out = append(out, r.ID)
	}
	return out
}

func TestFilterSuggestions(t *testing.T) {
	snap := suggestionSnapshot()

	require.Empty(t, FilterSuggestions("", snap))
	require.Equal(t, []int64{1, 3}, ids(FilterSuggestions("para", snap)))
	require.Equal(t, []int64{1, 3}, ids(FilterSuggestions("aCeTa", snap)))
	require.Equal(t, []int64{2}, ids(FilterSuggestions("xic", snap)))
	require.Empty(t, FilterSuggestions("ibuprofen", snap))
	require.Empty(t, FilterSuggestions("para", nil))
}

func TestSnapshotIsACopy(t *testing.T) {
	records := []domain.InventoryRecord{{ID: 1, MedicineName: "Paracetamol", Quantity: 10}}
	snap := NewSnapshot(records)
	records[0].Quantity = 0

	rec, ok := snap.Lookup("Paracetamol")
	require.True(t, ok)
	require.EqualValues(t, 10, rec.Quantity)

	out := snap.Records()
	out[0].MedicineName = "changed"
	_, ok = snap.Lookup("Paracetamol")
	require.True(t, ok)
	require.Equal(t, 1, snap.Len())
}

func TestSnapshotLookupRejectsDuplicates(t *testing.T) {
	snap := NewSnapshot([]domain.InventoryRecord{
		{ID: 1, MedicineName: "Cetirizine"},
		{ID: 2, MedicineName: "Cetirizine"},
	})
	_, ok := snap.Lookup("Cetirizine")
	require.False(t, ok)
	_, ok = snap.Lookup("Missing")
	require.False(t, ok)
}
