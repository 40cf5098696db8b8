package httpserver

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/shop_api/internal/logging"
	"github.com/Skotchmaster/shop_api/internal/service"
	"github.com/Skotchmaster/shop_api/internal/transport"
)

const msgProductNotFound = "Product not found"

type CatalogHTTP struct {
	Svc *service.CatalogService
}

func (h *CatalogHTTP) GetProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.get_product")

	id, err := pathID(c, "id")
	if err != nil {
		l.Warn("get_product_failed", "status", 404, "reason", "id is not an integer", "error", err)
		return echo.NewHTTPError(http.StatusNotFound, msgProductNotFound)
	}

	product, err := h.Svc.GetProduct(ctx, id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			l.Warn("get_product_failed", "status", 404, "reason", "product with this id dont exist", "error", err)
			return echo.NewHTTPError(http.StatusNotFound, msgProductNotFound)
		}
		l.Error("get_product_failed", "status", 500, "reason", "cannot get product", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot get product")
	}

	return c.JSON(http.StatusOK, product)
}

func (h *CatalogHTTP) ListProducts(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.list_products")

	items, err := h.Svc.ListProducts(ctx)
	if err != nil {
		l.Error("list_products_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot list products")
	}

	return c.JSON(http.StatusOK, items)
}

func (h *CatalogHTTP) SearchProducts(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.search")

	q := c.QueryParam("q")
	items, err := h.Svc.SearchProducts(ctx, q)
	if err != nil {
		if errors.Is(err, service.ErrValidation) {
			l.Warn("search_products_error", "status", 400, "reason", "empty query")
			return echo.NewHTTPError(http.StatusBadRequest, "Missing search query")
		}
		l.Error("search_products_error", "status", 500, "query", q, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "search failed")
	}

	return c.JSON(http.StatusOK, items)
}

func (h *CatalogHTTP) CreateProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.create")

	var req transport.CreateProductRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("product_create_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid product data")
	}

	prod, err := h.Svc.CreateProduct(ctx, req)
	if err != nil {
		if errors.Is(err, service.ErrValidation) {
			l.Warn("product_create_error", "status", 400, "reason", "missing name or price", "error", err)
			return echo.NewHTTPError(http.StatusBadRequest, "Invalid product data")
		}
		l.Error("product_create_error", "status", 500, "reason", "cannot add product to db", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot add product to db")
	}

	l.Info("create_product_success", "product_id", prod.ID)
	return c.JSON(http.StatusOK, transport.MessageResponse{Message: "Product added successfully"})
}

func (h *CatalogHTTP) UpdateProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.update")

	id, err := pathID(c, "id")
	if err != nil {
		l.Warn("product_update_error", "status", 404, "reason", "id is not an integer", "error", err)
		return echo.NewHTTPError(http.StatusNotFound, msgProductNotFound)
	}

	var req transport.PatchProductRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("product_update_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid product data")
	}

	if _, err := h.Svc.PatchProduct(ctx, req, id); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			l.Warn("product_update_error", "status", 404, "reason", "cannot find product in db", "error", err)
			return echo.NewHTTPError(http.StatusNotFound, msgProductNotFound)
		}
		l.Error("product_update_error", "status", 500, "reason", "cannot update product", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot update product")
	}

	l.Info("update_product_success", "product_id", id)
	return c.JSON(http.StatusOK, transport.MessageResponse{Message: "Product updated successfully"})
}

func (h *CatalogHTTP) DeleteProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.delete")

	id, err := pathID(c, "id")
	if err != nil {
		l.Warn("product_delete_error", "status", 404, "reason", "id is not an integer", "error", err)
		return echo.NewHTTPError(http.StatusNotFound, msgProductNotFound)
	}

	if err := h.Svc.DeleteProduct(ctx, id); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			l.Warn("product_delete_error", "status", 404, "reason", "product not found", "error", err)
			return echo.NewHTTPError(http.StatusNotFound, msgProductNotFound)
		}
		l.Error("product_delete_error", "status", 500, "reason", "cannot delete product from db", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot delete product from db")
	}

	l.Info("delete_product_success", "product_id", id)
	return c.JSON(http.StatusOK, transport.MessageResponse{Message: "Product deleted successfully"})
}
