package billing

import (
	"strings"

	"golang.org/x/text/cases"

	"pharmacy/m/domain"
)

// Snapshot is a read-only copy of the inventory taken once per form session.
type Snapshot struct {
	records []domain.InventoryRecord
	folded  []string
	byName  map[string][]int
}

// NewSnapshot copies records into a new snapshot.
func NewSnapshot(records []domain.InventoryRecord) *Snapshot {
	fold := cases.Fold()
	s := &Snapshot{
		records: make([]domain.InventoryRecord, len(records)),
		folded:  make([]string, len(records)),
		byName:  make(map[string][]int, len(records)),
	}
	copy(s.records, records)
	for i, rec := range s.records {
		s.folded[i] = fold.String(rec.MedicineName)
		s.byName[rec.MedicineName] = append(s.byName[rec.MedicineName], i)
	}
	return s
}

// Len returns the number of records.
func (s *Snapshot) Len() int {
	if s == nil {
		return 0
	}
	return len(s.records)
}

// Records returns a copy of the snapshot records in the order given to NewSnapshot.
func (s *Snapshot) Records() []domain.InventoryRecord {
	if s == nil {
		return nil
	}
	out := make([]domain.InventoryRecord, len(s.records))
	copy(out, s.records)
	return out
}

// Lookup returns the record whose name equals name exactly. ok is false when
// zero or several records carry that name.
func (s *Snapshot) Lookup(name string) (rec domain.InventoryRecord, ok bool) {
	matches := s.matches(name)
	if len(matches) != 1 {
		return domain.InventoryRecord{}, false
	}
	return s.records[matches[0]], true
}

func (s *Snapshot) matches(name string) []int {
	if s == nil {
		return nil
	}
	return s.byName[name]
}

// FilterSuggestions returns every record whose name contains query, ignoring
// case. An empty query yields no suggestions.
func FilterSuggestions(query string, snap *Snapshot) []domain.InventoryRecord {
	if query == "" || snap == nil {
		return nil
	}
	q := cases.Fold().String(query)
	var out []domain.InventoryRecord
	for i, name := range snap.folded {
		if strings.Contains(name, q) {
			out = append(out, snap.records[i])
		}
	}
	return out
}
