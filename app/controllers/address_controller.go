package controllers

import (
	"net/http"

	"github.com/shashiranjanraj/inkwell/app/services"
	"github.com/shashiranjanraj/inkwell/pkg/ctx"
)

type AddressController struct {
	service *services.AddressService
}

func NewAddressController(service *services.AddressService) *AddressController {
	return &AddressController{service: service}
}

// Index handles GET /api/address.
func (h *AddressController) Index(c *ctx.Context) {
	id, ok := caller(c)
	if !ok {
		return
	}
	list, err := h.service.List(c.Context(), id)
	if err != nil {
		c.Fail(err)
		return
	}
	c.Success(list)
}

// Store handles POST /api/address. Admins are turned away before the body
// is read.
func (h *AddressController) Store(c *ctx.Context) {
	id, ok := caller(c)
	if !ok {
		return
	}
	if err := h.service.Authorize(id, "add"); err != nil {
		c.Fail(err)
		return
	}

	var in services.AddressInput
	if !c.BindJSON(&in) {
		return
	}

	address, err := h.service.Add(c.Context(), id, in)
	if err != nil {
		c.Fail(err)
		return
	}
	c.Created("Address added successfully", address)
}

// Update handles PUT /api/address/{id}.
func (h *AddressController) Update(c *ctx.Context) {
	id, ok := caller(c)
	if !ok {
		return
	}
	if err := h.service.Authorize(id, "edit"); err != nil {
		c.Fail(err)
		return
	}

	var patch services.AddressPatch
	if !c.BindJSON(&patch) {
		return
	}

	address, err := h.service.Update(c.Context(), id, c.Param("id"), patch)
	if err != nil {
		c.Fail(err)
		return
	}
	c.Respond(http.StatusOK, "Address updated successfully", address)
}

// Destroy handles DELETE /api/address/{id}.
func (h *AddressController) Destroy(c *ctx.Context) {
	id, ok := caller(c)
	if !ok {
		return
	}
	if err := h.service.Delete(c.Context(), id, c.Param("id")); err != nil {
		c.Fail(err)
		return
	}
	c.Respond(http.StatusOK, "Address deleted", nil)
}
