// Package routes mounts the REST API under /api.
package routes

import (
	"github.com/shashiranjanraj/inkwell/app/controllers"
	"github.com/shashiranjanraj/inkwell/app/repositories"
	"github.com/shashiranjanraj/inkwell/app/services"
	"github.com/shashiranjanraj/inkwell/config"
	"github.com/shashiranjanraj/inkwell/pkg/auth"
	"github.com/shashiranjanraj/inkwell/pkg/ctx"
	"github.com/shashiranjanraj/inkwell/pkg/middleware"
	"github.com/shashiranjanraj/inkwell/pkg/rbac"
	"github.com/shashiranjanraj/inkwell/pkg/router"
)

// Services is everything the API handlers call into.
type Services struct {
	Auth      *services.AuthService
	Addresses *services.AddressService
	Books     *services.BookService
	Orders    *services.OrderService
	MaxUpload int64
}

// NewServices wires the services over store. images may be nil.
func NewServices(store *repositories.Store, images services.ImageStore) *Services {
	return &Services{
		Auth:      services.NewAuthService(store.Accounts),
		Addresses: services.NewAddressService(store.Accounts, store.Addresses),
		Books:     services.NewBookService(store.Books, images, config.MaxUploadBytes(), config.CacheTTL()),
		Orders:    services.NewOrderService(store),
		MaxUpload: config.MaxUploadBytes(),
	}
}

// API returns the route registration callback for the application builder.
func API(s *Services) func(*router.Router) {
	return func(r *router.Router) {
		RegisterAPI(r, s)
	}
}

func RegisterAPI(r *router.Router, s *Services) {
	authController := controllers.NewAuthController(s.Auth)
	bookController := controllers.NewBookController(s.Books, s.MaxUpload)
	addressController := controllers.NewAddressController(s.Addresses)
	orderController := controllers.NewOrderController(s.Orders)

	api := r.Group("/api")

	api.Post("/auth/register", "auth.register", ctx.Wrap(authController.Register))
	api.Post("/auth/login", "auth.login", ctx.Wrap(authController.Login))

	api.Get("/books", "books.index", ctx.Wrap(bookController.Index))

	protected := api.Group("", middleware.AuthMiddleware)
	admin := protected.Group("", rbac.HasRole(auth.RoleAdmin))
	user := protected.Group("", rbac.HasRole(auth.RoleUser))

	admin.Post("/books", "books.store", ctx.Wrap(bookController.Store))
	admin.Put("/books/{id}", "books.update", ctx.Wrap(bookController.Update))
	admin.Delete("/books/{id}", "books.destroy", ctx.Wrap(bookController.Destroy))

	protected.Get("/address", "address.index", ctx.Wrap(addressController.Index))
	protected.Post("/address", "address.store", ctx.Wrap(addressController.Store))
	protected.Put("/address/{id}", "address.update", ctx.Wrap(addressController.Update))
	protected.Delete("/address/{id}", "address.destroy", ctx.Wrap(addressController.Destroy))

	user.Post("/orders", "orders.store", ctx.Wrap(orderController.Store))
	user.Get("/orders/my-orders", "orders.mine", ctx.Wrap(orderController.Mine))
	admin.Get("/orders", "orders.index", ctx.Wrap(orderController.Index))
	admin.Put("/orders/{id}/status", "orders.status", ctx.Wrap(orderController.UpdateStatus))
}
