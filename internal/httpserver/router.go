package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/shop_api/internal/metrics"
	"github.com/Skotchmaster/shop_api/internal/middleware/auth"
)

type Deps struct {
	AuthHandler    *AuthHTTP
	CatalogHandler *CatalogHTTP
	CartHandler    *CartHTTP
	SessionAuth    *auth.SessionAuth
	Metrics        *metrics.Metrics
	Ready          func() error
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error {
		if d.Ready != nil {
			if err := d.Ready(); err != nil {
				return echo.NewHTTPError(http.StatusServiceUnavailable, "not ready")
			}
		}
		return c.NoContent(http.StatusOK)
	})
	if d.Metrics != nil {
		e.GET("/metrics", echo.WrapHandler(d.Metrics.Handler()))
	}

	requireSession := d.SessionAuth.RequireSession

	e.GET("/", Home)
	e.POST("/login", d.AuthHandler.Login)
	e.POST("/logout", d.AuthHandler.Logout)

	products := e.Group("/api/products")
	products.GET("", d.CatalogHandler.ListProducts)
	products.GET("/search", d.CatalogHandler.SearchProducts)
	products.GET("/:id", d.CatalogHandler.GetProduct)
	products.POST("/add", d.CatalogHandler.CreateProduct, requireSession)
	products.PUT("/update/:id", d.CatalogHandler.UpdateProduct, intParam("id"), requireSession)
	products.DELETE("/delete/:id", d.CatalogHandler.DeleteProduct, intParam("id"), requireSession)

	// id checks run before the session guard: a non-integer id is an
	// unknown route, not an unauthorized request.
	cart := e.Group("/api/cart")
	cart.GET("", d.CartHandler.GetCart, requireSession)
	cart.POST("/add/:product_id", d.CartHandler.AddToCart, intParam("product_id"), requireSession)
	cart.DELETE("/remove/:product_id", d.CartHandler.RemoveFromCart, intParam("product_id"), requireSession)
	cart.POST("/checkout", d.CartHandler.Checkout, requireSession)
}

func Home(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"message": "Welcome to the E-commerce API"})
}
