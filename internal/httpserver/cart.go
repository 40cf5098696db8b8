package httpserver

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/shop_api/internal/logging"
	"github.com/Skotchmaster/shop_api/internal/service"
	"github.com/Skotchmaster/shop_api/internal/transport"
)

type CartHTTP struct {
	Svc *service.CartService
}

func (h *CartHTTP) GetCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.get")

	userID, err := currentUser(c)
	if err != nil {
		l.Error("get_cart_error", "status", 401, "error", err)
		return echo.NewHTTPError(http.StatusUnauthorized, "Unauthorized")
	}

	items, err := h.Svc.GetCart(ctx, userID)
	if err != nil {
		l.Error("get_cart_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot load cart")
	}

	return c.JSON(http.StatusOK, items)
}

func (h *CartHTTP) AddToCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.add")

	userID, err := currentUser(c)
	if err != nil {
		l.Error("add_to_cart_error", "status", 401, "error", err)
		return echo.NewHTTPError(http.StatusUnauthorized, "Unauthorized")
	}

	productID, err := pathID(c, "product_id")
	if err != nil {
		l.Warn("add_to_cart_error", "status", 404, "reason", "product id is not an integer", "error", err)
		return echo.ErrNotFound
	}

	if _, err := h.Svc.AddToCart(ctx, userID, productID); err != nil {
		if errors.Is(err, service.ErrValidation) {
			l.Warn("add_to_cart_error", "status", 400, "reason", "product does not exist", "error", err)
			return echo.NewHTTPError(http.StatusBadRequest, "Failed to add item to the cart")
		}
		l.Error("add_to_cart_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to add item to the cart")
	}

	l.Info("cart_item_added", "product_id", productID)
	return c.JSON(http.StatusOK, transport.MessageResponse{Message: "Item added to the cart successfully"})
}

func (h *CartHTTP) RemoveFromCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.remove")

	userID, err := currentUser(c)
	if err != nil {
		l.Error("remove_from_cart_error", "status", 401, "error", err)
		return echo.NewHTTPError(http.StatusUnauthorized, "Unauthorized")
	}

	productID, err := pathID(c, "product_id")
	if err != nil {
		l.Warn("remove_from_cart_error", "status", 404, "reason", "product id is not an integer", "error", err)
		return echo.ErrNotFound
	}

	if err := h.Svc.RemoveFromCart(ctx, userID, productID); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			l.Warn("remove_from_cart_error", "status", 404, "reason", "no matching cart item", "error", err)
			return echo.NewHTTPError(http.StatusNotFound, "Failed to remove item from the cart")
		}
		l.Error("remove_from_cart_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to remove item from the cart")
	}

	l.Info("cart_item_removed", "product_id", productID)
	return c.JSON(http.StatusOK, transport.MessageResponse{Message: "Item removed from the cart successfully"})
}

func (h *CartHTTP) Checkout(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.checkout")

	userID, err := currentUser(c)
	if err != nil {
		l.Error("checkout_error", "status", 401, "error", err)
		return echo.NewHTTPError(http.StatusUnauthorized, "Unauthorized")
	}

	total, items, err := h.Svc.Checkout(ctx, userID)
	if err != nil {
		l.Error("checkout_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "checkout failed")
	}

	l.Info("checkout_success", "total", total)
	return c.JSON(http.StatusOK, transport.CheckoutResponse{
		Message: fmt.Sprintf("Checkout successful. Total amount: %s. Cart has been cleared.", formatTotal(total, items)),
		Total:   total,
	})
}

// formatTotal prints an empty cart as "0" and any other total as a float
// with at least one decimal ("10.0", "14.99").
func formatTotal(total float64, items int) string {
	if items == 0 {
		return "0"
	}
	s := strconv.FormatFloat(total, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
