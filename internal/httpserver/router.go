package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/galwaybites/storefront/internal/auth"
)

type Deps struct {
	Auth     *auth.Handler
	Cart     *CartHandler
	Checkout *CheckoutHandler
	Orders   *OrdersHandler
	Menu     *MenuHandler
	Admin    *AdminHandler

	JWTSecret []byte
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	v1 := e.Group("/api/v1")

	v1.POST("/register", d.Auth.Register)
	v1.POST("/login", d.Auth.Login)
	v1.POST("/refresh", d.Auth.Refresh)
	v1.POST("/logout", d.Auth.Logout)

	menu := v1.Group("/menu")
	menu.GET("", d.Menu.List)
	menu.GET("/search", d.Menu.Search)
	menu.GET("/:id", d.Menu.Get)

	private := v1.Group("", auth.RequireAuth(d.JWTSecret))
	private.GET("/me", d.Auth.Me)

	cart := private.Group("/cart")
	cart.GET("", d.Cart.GetCart)
	cart.POST("/items", d.Cart.AddItem)
	cart.PATCH("/items/:key", d.Cart.UpdateItem)
	cart.DELETE("/items/:key", d.Cart.RemoveItem)
	cart.DELETE("", d.Cart.Clear)

	checkout := private.Group("/checkout")
	checkout.POST("/quote", d.Checkout.Quote)
	checkout.POST("/discount", d.Checkout.ApplyDiscount)
	checkout.DELETE("/discount", d.Checkout.ClearDiscount)
	checkout.POST("/intent", d.Checkout.CreateIntent)
	checkout.POST("/confirm", d.Checkout.Confirm)

	orders := private.Group("/orders")
	orders.GET("", d.Orders.List)
	orders.GET("/:id", d.Orders.Get)
	orders.POST("/:id/cancel", d.Orders.Cancel)

	admin := v1.Group("/admin", auth.RequireAuth(d.JWTSecret), auth.RequireAdmin())
	admin.POST("/foods", d.Admin.CreateFood)
	admin.PATCH("/foods/:id", d.Admin.UpdateFood)
	admin.DELETE("/foods/:id", d.Admin.DeleteFood)
	admin.GET("/settings", d.Admin.GetSettings)
	admin.PUT("/settings", d.Admin.UpdateSettings)
	admin.GET("/orders", d.Admin.ListOrders)
	admin.PATCH("/orders/:id/status", d.Admin.SetOrderStatus)
	admin.POST("/orders/:id/tracking", d.Admin.AssignTracking)
	admin.GET("/summary", d.Admin.Summary)
}
