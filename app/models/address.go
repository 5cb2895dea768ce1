package models

import "time"

// Address is a shipping address owned by one account. Email is copied from
// the owner when the address is created.
type Address struct {
	ID        string    `gorm:"primaryKey;size:36" bson:"_id" json:"id"`
	AccountID string    `gorm:"size:36;not null;index" bson:"accountId" json:"accountId"`
	Email     string    `gorm:"size:255" bson:"email" json:"email"`
	Name      string    `gorm:"size:255;not null" bson:"name" json:"name"`
	Phone     string    `gorm:"size:20;not null" bson:"phone" json:"phone"`
	Street    string    `gorm:"size:255;not null" bson:"street" json:"street"`
	City      string    `gorm:"size:100;not null" bson:"city" json:"city"`
	State     string    `gorm:"size:100;not null" bson:"state" json:"state"`
	Pincode   string    `gorm:"size:10;not null" bson:"pincode" json:"pincode"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// Snapshot copies the shipping fields for embedding in an order.
func (a Address) Snapshot() ShippingAddress {
	return ShippingAddress{
		Name:    a.Name,
		Phone:   a.Phone,
		Street:  a.Street,
		City:    a.City,
		State:   a.State,
		Pincode: a.Pincode,
	}
}
