package order

import (
	"time"

	"github.com/google/uuid"
)

// Order statuses. An order moves forward through pending, processing,
// shipped and delivered; cancelled and delivered are terminal.
const (
	StatusPending    = "pending"
	StatusProcessing = "processing"
	StatusShipped    = "shipped"
	StatusDelivered  = "delivered"
	StatusCancelled  = "cancelled"
)

// Order maps to the orders table.
type Order struct {
	ID                uuid.UUID  `db:"id" json:"id"`
	UserID            uuid.UUID  `db:"user_id" json:"user_id"`
	DeliveryAddress   string     `db:"delivery_address" json:"delivery_address"`
	PrescriptionImage *string    `db:"prescription_image" json:"prescription_image,omitempty"`
	Total             float64    `db:"total" json:"total"`
	Status            string     `db:"status" json:"status"`
	CreatedAt         time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt         time.Time  `db:"updated_at" json:"updated_at"`
	DeliveredAt       *time.Time `db:"delivered_at" json:"delivered_at,omitempty"`
	CancelledAt       *time.Time `db:"cancelled_at" json:"cancelled_at,omitempty"`

	Items []*Item `db:"-" json:"items,omitempty"`
}

// Item maps to the order_item table. Price and subtotal are snapshots taken
// at order creation.
type Item struct {
	ID         uuid.UUID `db:"id" json:"id"`
	OrderID    uuid.UUID `db:"order_id" json:"order_id"`
	MedicineID uuid.UUID `db:"medicine_id" json:"medicine_id"`
	Quantity   int       `db:"quantity" json:"quantity"`
	Price      float64   `db:"price" json:"price"`
	Subtotal   float64   `db:"subtotal" json:"subtotal"`
}

// ItemInput is one requested line in a new order.
type ItemInput struct {
	MedicineID uuid.UUID `json:"medicineId"`
	Quantity   int       `json:"quantity"`
}
