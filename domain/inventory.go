package domain

import "github.com/shopspring/decimal"

// InventoryRecord is one stocked medicine batch.
type InventoryRecord struct {
	ID           int64           `db:"id" json:"_id"`
	MedicineName string          `db:"medicine_name" json:"medicineName"`
	Category     string          `db:"category" json:"category"`
	Price        decimal.Decimal `db:"price" json:"price"`
	Quantity     int64           `db:"quantity" json:"quantity"`
	ExpiryDate   string          `db:"expiry_date" json:"expiryDate"`
	Supplier     string          `db:"supplier" json:"supplier"`
	CreatedAt    string          `db:"created_at" json:"createdAt,omitempty"`
	UpdatedAt    string          `db:"updated_at" json:"updatedAt,omitempty"`
}

// CategoryGroup lists the records of one category.
type CategoryGroup struct {
	Category string            `json:"category"`
	Items    []InventoryRecord `json:"items"`
}
