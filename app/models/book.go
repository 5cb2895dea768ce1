package models

import (
	"strings"
	"time"
)

// Book is a catalogue entry. CoverImage is a public URL and may be empty.
type Book struct {
	ID         string    `gorm:"primaryKey;size:36" bson:"_id" json:"id"`
	Title      string    `gorm:"size:255;not null" bson:"title" json:"title"`
	Author     string    `gorm:"size:255;not null" bson:"author" json:"author"`
	Price      float64   `gorm:"not null" bson:"price" json:"price"`
	Category   string    `gorm:"size:50" bson:"category,omitempty" json:"category,omitempty"`
	CoverImage string    `gorm:"size:1024" bson:"coverImage" json:"coverImage"`
	CreatedAt  time.Time `gorm:"index" bson:"createdAt" json:"createdAt"`
	UpdatedAt  time.Time `bson:"updatedAt" json:"updatedAt"`
}

// Matches reports whether q occurs, ignoring case, in the book's title,
// author or category. An empty q matches every book.
func (b Book) Matches(q string) bool {
	q = strings.ToLower(strings.TrimSpace(q))
	if q == "" {
		return true
	}
	hay := strings.ToLower(b.Title + " " + b.Author + " " + b.Category)
	return strings.Contains(hay, q)
}
