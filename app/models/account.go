package models

import "time"

// Account is a registered shopper or administrator.
type Account struct {
	ID        string    `gorm:"primaryKey;size:36" bson:"_id" json:"id"`
	FirstName string    `gorm:"size:100;not null" bson:"firstName" json:"firstName"`
	LastName  string    `gorm:"size:100;not null" bson:"lastName" json:"lastName"`
	Email     string    `gorm:"size:255;not null;uniqueIndex" bson:"email" json:"email"`
	Password  string    `gorm:"size:255;not null" bson:"password" json:"-"` // bcrypt hash, never serialised
	Role      string    `gorm:"size:20;not null;default:user" bson:"role" json:"role"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}
