package controllers

import (
	"net/http"

	"github.com/shashiranjanraj/inkwell/app/services"
	"github.com/shashiranjanraj/inkwell/pkg/ctx"
)

type AuthController struct {
	service *services.AuthService
}

func NewAuthController(service *services.AuthService) *AuthController {
	return &AuthController{service: service}
}

// Register handles POST /api/auth/register.
func (h *AuthController) Register(c *ctx.Context) {
	var in services.RegisterInput
	if !c.BindJSON(&in) {
		return
	}

	account, err := h.service.Register(c.Context(), in)
	if err != nil {
		c.Fail(err)
		return
	}
	c.Created("Account created successfully", account)
}

// Login handles POST /api/auth/login.
func (h *AuthController) Login(c *ctx.Context) {
	var in services.LoginInput
	if !c.BindJSON(&in) {
		return
	}

	res, err := h.service.Login(c.Context(), in)
	if err != nil {
		c.Fail(err)
		return
	}
	c.Respond(http.StatusOK, "Login successful", res)
}
