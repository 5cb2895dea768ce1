package services

import (
	"github.com/shashiranjanraj/inkwell/app/models"
	"github.com/shashiranjanraj/inkwell/pkg/event"
	"github.com/shashiranjanraj/inkwell/pkg/logger"
	"github.com/shashiranjanraj/inkwell/pkg/metrics"
)

// Order lifecycle events.
const (
	EventOrderPlaced        = "order.placed"
	EventOrderStatusChanged = "order.status_changed"
)

// OrderPlaced is the payload of EventOrderPlaced.
type OrderPlaced struct {
	Order models.Order
}

// OrderStatusChanged is the payload of EventOrderStatusChanged.
type OrderStatusChanged struct {
	OrderID string
	From    string
	To      string
}

// RegisterListeners attaches the metric and audit-log listeners.
func RegisterListeners() {
	event.Listen(EventOrderPlaced, func(payload interface{}) {
		p, ok := payload.(OrderPlaced)
		if !ok {
			return
		}
		metrics.OrdersPlaced.Inc()
		metrics.OrderRevenue.Add(p.Order.TotalAmount)
		logger.Info("order placed",
			"order_id", p.Order.ID,
			"account_id", p.Order.AccountID,
			"items", len(p.Order.Items),
			"total", p.Order.TotalAmount,
		)
	})

	event.Listen(EventOrderStatusChanged, func(payload interface{}) {
		p, ok := payload.(OrderStatusChanged)
		if !ok {
			return
		}
		metrics.OrderStatusChanges.WithLabelValues(p.To).Inc()
		logger.Info("order status changed", "order_id", p.OrderID, "from", p.From, "to", p.To)
	})
}
