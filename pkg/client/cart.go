package client

import (
	"math"

	"github.com/shashiranjanraj/inkwell/app/models"
)

// CartItem is one line of a cart. Title and price are display copies; the
// server re-prices every line when the order is placed.
type CartItem struct {
	BookID   string  `json:"bookId"`
	Title    string  `json:"title"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
}

// Cart is an immutable list of items. Every mutator returns a new Cart.
type Cart struct {
	items []CartItem
}

// Add appends book with quantity 1. A book already in the cart is left as is.
func (c Cart) Add(book models.Book) Cart {
	if c.Contains(book.ID) {
		return c
	}
	items := append(c.Items(), CartItem{BookID: book.ID, Title: book.Title, Price: book.Price, Quantity: 1})
	return Cart{items: items}
}

func (c Cart) Remove(bookID string) Cart {
	items := make([]CartItem, 0, len(c.items))
	for _, it := range c.items {
		if it.BookID != bookID {
			items = append(items, it)
		}
	}
	return Cart{items: items}
}

// SetQuantity changes a line's quantity. n <= 0 removes the line.
func (c Cart) SetQuantity(bookID string, n int) Cart {
	if n <= 0 {
		return c.Remove(bookID)
	}
	items := c.Items()
	for i := range items {
		if items[i].BookID == bookID {
			items[i].Quantity = n
		}
	}
	return Cart{items: items}
}

func (c Cart) Contains(bookID string) bool {
	for _, it := range c.items {
		if it.BookID == bookID {
			return true
		}
	}
	return false
}

// Total is the sum of price × quantity in whole cents.
func (c Cart) Total() float64 {
	var cents float64
	for _, it := range c.items {
		cents += math.Round(it.Price*100) * float64(it.Quantity)
	}
	return cents / 100
}

func (c Cart) Len() int { return len(c.items) }

// Items returns a copy of the lines.
func (c Cart) Items() []CartItem {
	return append([]CartItem(nil), c.items...)
}
