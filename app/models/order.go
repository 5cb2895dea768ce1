package models

import "time"

// Order statuses. An order starts Pending and moves once, to Confirmed or
// Cancelled.
const (
	StatusPending   = "Pending"
	StatusConfirmed = "Confirmed"
	StatusCancelled = "Cancelled"
)

// OrderItem is a book as it was priced when the order was placed.
type OrderItem struct {
	BookID   string  `bson:"bookId" json:"bookId"`
	Title    string  `bson:"title" json:"title"`
	Price    float64 `bson:"price" json:"price"`
	Quantity int     `bson:"quantity" json:"quantity"`
}

// ShippingAddress is the address copied into an order.
type ShippingAddress struct {
	Name    string `gorm:"size:255" bson:"name" json:"name"`
	Phone   string `gorm:"size:20" bson:"phone" json:"phone"`
	Street  string `gorm:"size:255" bson:"street" json:"street"`
	City    string `gorm:"size:100" bson:"city" json:"city"`
	State   string `gorm:"size:100" bson:"state" json:"state"`
	Pincode string `gorm:"size:10" bson:"pincode" json:"pincode"`
}

// OrderOwner is filled in on admin listings only.
type OrderOwner struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// Order is a placed order. Items, TotalAmount and Address never change after
// creation; only Status does.
type Order struct {
	ID          string          `gorm:"primaryKey;size:36" bson:"_id" json:"id"`
	AccountID   string          `gorm:"size:36;not null;index" bson:"accountId" json:"accountId"`
	Items       []OrderItem     `gorm:"serializer:json;type:text" bson:"items" json:"items"`
	TotalAmount float64         `gorm:"not null" bson:"totalAmount" json:"totalAmount"`
	Address     ShippingAddress `gorm:"embedded;embeddedPrefix:ship_" bson:"address" json:"address"`
	Status      string          `gorm:"size:20;not null;default:Pending;index" bson:"status" json:"status"`
	User        *OrderOwner     `gorm:"-" bson:"-" json:"user,omitempty"`
	CreatedAt   time.Time       `gorm:"index" bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time       `bson:"updatedAt" json:"updatedAt"`
}
