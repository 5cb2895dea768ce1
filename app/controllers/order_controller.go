package controllers

import (
	"net/http"

	"github.com/shashiranjanraj/inkwell/app/services"
	"github.com/shashiranjanraj/inkwell/pkg/ctx"
)

type OrderController struct {
	service *services.OrderService
}

func NewOrderController(service *services.OrderService) *OrderController {
	return &OrderController{service: service}
}

// Store handles POST /api/orders.
func (h *OrderController) Store(c *ctx.Context) {
	id, ok := caller(c)
	if !ok {
		return
	}

	var in services.PlaceOrderInput
	if !c.BindJSON(&in) {
		return
	}

	order, err := h.service.PlaceOrder(c.Context(), id, in)
	if err != nil {
		c.Fail(err)
		return
	}
	c.Created("Order placed successfully", order)
}

// Mine handles GET /api/orders/my-orders.
func (h *OrderController) Mine(c *ctx.Context) {
	id, ok := caller(c)
	if !ok {
		return
	}
	orders, err := h.service.ListMine(c.Context(), id)
	if err != nil {
		c.Fail(err)
		return
	}
	c.Success(orders)
}

// Index handles GET /api/orders.
func (h *OrderController) Index(c *ctx.Context) {
	orders, err := h.service.ListAll(c.Context())
	if err != nil {
		c.Fail(err)
		return
	}
	c.Success(orders)
}

// UpdateStatus handles PUT /api/orders/{id}/status.
func (h *OrderController) UpdateStatus(c *ctx.Context) {
	var in services.StatusInput
	if !c.BindJSON(&in) {
		return
	}

	order, err := h.service.UpdateStatus(c.Context(), c.Param("id"), in)
	if err != nil {
		c.Fail(err)
		return
	}
	c.Respond(http.StatusOK, "Order status updated", order)
}
