package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/shashiranjanraj/inkwell/app/models"
	"github.com/shashiranjanraj/inkwell/app/repositories"
	"github.com/shashiranjanraj/inkwell/pkg/apperror"
	"github.com/shashiranjanraj/inkwell/pkg/auth"
	"github.com/shashiranjanraj/inkwell/pkg/event"
	"github.com/shashiranjanraj/inkwell/pkg/validate"
)

// OrderItemInput is one cart line. Title and price are accepted for
// compatibility and ignored: both are read from the catalogue.
type OrderItemInput struct {
	BookID   string   `json:"bookId" validate:"required,max=64"`
	Quantity int      `json:"quantity" validate:"required,min=1,max=1000"`
	Title    string   `json:"title"`
	Price    *float64 `json:"price"`
}

// OrderAddressInput references a saved address by id or carries one inline.
type OrderAddressInput struct {
	ID      string `json:"id" validate:"omitempty,max=64"`
	Name    string `json:"name" validate:"required_without=ID,max=255"`
	Phone   string `json:"phone" validate:"required_without=ID,omitempty,phone"`
	Street  string `json:"street" validate:"required_without=ID,max=255"`
	City    string `json:"city" validate:"required_without=ID,max=100"`
	State   string `json:"state" validate:"required_without=ID,max=100"`
	Pincode string `json:"pincode" validate:"required_without=ID,omitempty,pincode"`
}

// PlaceOrderInput is the body of POST /api/orders. Items and address are
// validated by PlaceOrder so an empty cart is reported before field errors.
// A client-sent totalAmount is ignored.
type PlaceOrderInput struct {
	Items       []OrderItemInput   `json:"items" validate:"-"`
	Address     *OrderAddressInput `json:"address" validate:"-"`
	TotalAmount *float64           `json:"totalAmount"`
}

// StatusInput is the body of PUT /api/orders/{id}/status.
type StatusInput struct {
	Status string `json:"status"`
}

type OrderService struct {
	accounts  repositories.AccountRepository
	books     repositories.BookRepository
	addresses repositories.AddressRepository
	orders    repositories.OrderRepository
}

func NewOrderService(store *repositories.Store) *OrderService {
	return &OrderService{
		accounts:  store.Accounts,
		books:     store.Books,
		addresses: store.Addresses,
		orders:    store.Orders,
	}
}

// PlaceOrder snapshots the cart and the shipping address into a new Pending
// order owned by the caller.
func (s *OrderService) PlaceOrder(ctx context.Context, id auth.Identity, in PlaceOrderInput) (*models.Order, error) {
	if len(in.Items) == 0 {
		return nil, apperror.BadRequest("Cart is empty")
	}
	if in.Address == nil {
		return nil, apperror.BadRequest("Address is required")
	}

	errs := map[string]string{}
	for i, item := range in.Items {
		for field, msg := range validate.Struct(item) {
			errs[fmt.Sprintf("items[%d].%s", i, field)] = msg
		}
	}
	for field, msg := range validate.Struct(in.Address) {
		errs["address."+field] = msg
	}
	if validate.HasErrors(errs) {
		return nil, apperror.Invalid(errs)
	}

	shipping, err := s.shippingAddress(ctx, id, in.Address)
	if err != nil {
		return nil, err
	}

	items, err := s.snapshotItems(ctx, in.Items)
	if err != nil {
		return nil, err
	}

	order := &models.Order{
		AccountID:   id.AccountID,
		Items:       items,
		TotalAmount: Total(items),
		Address:     shipping,
		Status:      models.StatusPending,
	}
	if err := s.orders.Create(ctx, order); err != nil {
		return nil, err
	}

	placed := *order
	event.FireAsync(EventOrderPlaced, OrderPlaced{Order: placed})
	return order, nil
}

func (s *OrderService) shippingAddress(ctx context.Context, id auth.Identity, in *OrderAddressInput) (models.ShippingAddress, error) {
	if in.ID == "" {
		return models.ShippingAddress{
			Name:    strings.TrimSpace(in.Name),
			Phone:   strings.TrimSpace(in.Phone),
			Street:  strings.TrimSpace(in.Street),
			City:    strings.TrimSpace(in.City),
			State:   strings.TrimSpace(in.State),
			Pincode: strings.TrimSpace(in.Pincode),
		}, nil
	}

	saved, err := s.addresses.FindOwned(ctx, in.ID, id.AccountID)
	if errors.Is(err, repositories.ErrNotFound) {
		return models.ShippingAddress{}, apperror.NotFound("Address not found")
	}
	if err != nil {
		return models.ShippingAddress{}, err
	}
	return saved.Snapshot(), nil
}

// snapshotItems prices each line from the catalogue. Repeated books are
// merged into one line.
func (s *OrderService) snapshotItems(ctx context.Context, lines []OrderItemInput) ([]models.OrderItem, error) {
	ids := make([]string, 0, len(lines))
	for _, l := range lines {
		ids = append(ids, strings.TrimSpace(l.BookID))
	}

	books, err := s.books.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	items := make([]models.OrderItem, 0, len(lines))
	index := map[string]int{}
	for i, l := range lines {
		bookID := ids[i]
		book, ok := books[bookID]
		if !ok {
			return nil, apperror.BadRequest(fmt.Sprintf("Book %s is no longer available", bookID))
		}
		if at, seen := index[bookID]; seen {
			items[at].Quantity += l.Quantity
			continue
		}
		index[bookID] = len(items)
		items = append(items, models.OrderItem{
			BookID:   book.ID,
			Title:    book.Title,
			Price:    book.Price,
			Quantity: l.Quantity,
		})
	}
	return items, nil
}

// Total sums price × quantity rounded to cents.
func Total(items []models.OrderItem) float64 {
	var cents float64
	for _, it := range items {
		cents += math.Round(it.Price*100) * float64(it.Quantity)
	}
	return cents / 100
}

// ListMine returns the caller's orders newest first.
func (s *OrderService) ListMine(ctx context.Context, id auth.Identity) ([]models.Order, error) {
	return s.orders.ListByAccount(ctx, id.AccountID)
}

// ListAll returns every order newest first with the owner's email attached.
func (s *OrderService) ListAll(ctx context.Context) ([]models.Order, error) {
	orders, err := s.orders.All(ctx)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(orders))
	for _, o := range orders {
		ids = append(ids, o.AccountID)
	}
	owners, err := s.accounts.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	for i := range orders {
		if a, ok := owners[orders[i].AccountID]; ok {
			orders[i].User = &models.OrderOwner{ID: a.ID, Email: a.Email}
		}
	}
	return orders, nil
}

// UpdateStatus moves a Pending order to Confirmed or Cancelled.
func (s *OrderService) UpdateStatus(ctx context.Context, orderID string, in StatusInput) (*models.Order, error) {
	status := strings.TrimSpace(in.Status)
	if validate.Var("status", status, "required,order_status") != "" {
		return nil, apperror.BadRequest("Invalid status")
	}

	order, err := s.orders.TransitionStatus(ctx, orderID, models.StatusPending, status)
	switch {
	case errors.Is(err, repositories.ErrNotFound):
		return nil, apperror.NotFound("Order not found")
	case errors.Is(err, repositories.ErrStale):
		return nil, apperror.BadRequest("Order is already " + order.Status)
	case err != nil:
		return nil, err
	}

	event.FireAsync(EventOrderStatusChanged, OrderStatusChanged{
		OrderID: order.ID,
		From:    models.StatusPending,
		To:      order.Status,
	})
	return order, nil
}
