package inventory

import (
	"time"

	"github.com/google/uuid"
)

// Entry maps to the pharmacy_inventory table. One row per
// (pharmacy, medicine) pair.
type Entry struct {
	ID                uuid.UUID `db:"id" json:"id"`
	PharmacyID        uuid.UUID `db:"pharmacy_id" json:"pharmacy_id"`
	MedicineID        uuid.UUID `db:"medicine_id" json:"medicine_id"`
	Quantity          int       `db:"quantity" json:"quantity"`
	LowStockThreshold int       `db:"low_stock_threshold" json:"low_stock_threshold"`
	SupplierEmail     string    `db:"supplier_email" json:"supplier_email"`
	CreatedAt         time.Time `db:"created_at" json:"created_at"`
	UpdatedAt         time.Time `db:"updated_at" json:"updated_at"`

	// MedicineName is populated from the medicine join on reads.
	MedicineName string `db:"-" json:"medicine_name,omitempty"`
}

// LowStockItem is the projection returned by the low-stock report.
type LowStockItem struct {
	DrugID        uuid.UUID `json:"drugId"`
	Name          string    `json:"name"`
	Quantity      int       `json:"quantity"`
	Manufacturer  *string   `json:"manufacturer,omitempty"`
	SupplierEmail string    `json:"supplierEmail"`
}
