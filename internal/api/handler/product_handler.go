package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/techone/pos-api/internal/core/domain"
	"github.com/techone/pos-api/internal/core/ports"
)

// ProductHandler serves the read-only product master.
type ProductHandler struct {
	products ports.ProductService
}

func NewProductHandler(products ports.ProductService) *ProductHandler {
	return &ProductHandler{products: products}
}

type productListResponse struct {
	Items []domain.Product `json:"items"`
}

// List returns the full product master.
//
// @Summary      List products
// @Tags         products
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  productListResponse
// @Router       /api/products [get]
func (h *ProductHandler) List(c echo.Context) error {
	products, err := h.products.List(c.Request().Context())
	if err != nil {
		return err
	}
	if products == nil {
		products = []domain.Product{}
	}
	return c.JSON(http.StatusOK, productListResponse{Items: products})
}

// Get looks a product up by code. An unknown code is not an error at this
// boundary: the scanner UI probes freely, so the body is JSON null with 200.
//
// @Summary      Look up a product by code
// @Tags         products
// @Produce      json
// @Security     BearerAuth
// @Param        code  path      string  true  "13-digit JAN code"
// @Success      200   {object}  domain.Product
// @Router       /api/products/{code} [get]
func (h *ProductHandler) Get(c echo.Context) error {
	product, err := h.products.Get(c.Request().Context(), c.Param("code"))
	if err != nil {
		if errors.Is(err, domain.ErrProductNotFound) {
			return c.JSON(http.StatusOK, nil)
		}
		return err
	}
	return c.JSON(http.StatusOK, product)
}
