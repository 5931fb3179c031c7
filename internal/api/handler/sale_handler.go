package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/techone/pos-api/internal/api/metrics"
	"github.com/techone/pos-api/internal/core/domain"
	"github.com/techone/pos-api/internal/core/ports"
)

// SaleHandler exposes sale submission and the sale read/delete endpoints.
type SaleHandler struct {
	sales ports.SaleService
}

func NewSaleHandler(sales ports.SaleService) *SaleHandler {
	return &SaleHandler{sales: sales}
}

// Create records a purchase. Amounts are recomputed server-side; any amounts
// in the payload are ignored for catalogued products.
//
// @Summary      Record a purchase
// @Tags         sales
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      purchaseRequest  true  "Requested lines"
// @Success      201   {object}  saleResponse
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Failure      429   {object}  map[string]string
// @Router       /api/purchase [post]
func (h *SaleHandler) Create(c echo.Context) error {
	var req purchaseRequest
	if err := c.Bind(&req); err != nil {
		return fmt.Errorf("%w: invalid payload", domain.ErrInvalidRequest)
	}
	if err := c.Validate(&req); err != nil {
		return fmt.Errorf("%w: %s", domain.ErrInvalidRequest, err)
	}

	input := ports.CreateSaleInput{
		DeviceID:  req.DeviceID,
		CashierID: req.CashierID,
		Lines:     make([]ports.SaleLineInput, len(req.Lines)),
	}
	for i, l := range req.Lines {
		input.Lines[i] = ports.SaleLineInput{
			Code:      l.Code,
			Qty:       l.Qty,
			Name:      l.Name,
			UnitPrice: l.UnitPrice,
		}
	}

	sale, err := h.sales.Create(c.Request().Context(), input)
	if err != nil {
		return err
	}

	metrics.SalesCreatedTotal.WithLabelValues(strconv.FormatBool(hasCustomLine(sale))).Inc()
	metrics.SaleTotalAmount.Observe(float64(sale.TotalAmt))

	return c.JSON(http.StatusCreated, toSaleResponse(sale))
}

// List returns recent sales, newest first.
//
// @Summary      List recent sales
// @Tags         sales
// @Produce      json
// @Security     BearerAuth
// @Param        limit  query     int  false  "Maximum number of sales (default 50, cap 200)"
// @Success      200    {object}  saleListResponse
// @Router       /api/sales [get]
func (h *SaleHandler) List(c echo.Context) error {
	limit := 0
	if raw := c.QueryParam("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return fmt.Errorf("%w: limit must be a positive integer", domain.ErrInvalidRequest)
		}
		limit = n
	}

	sales, err := h.sales.List(c.Request().Context(), limit)
	if err != nil {
		return err
	}

	resp := saleListResponse{Sales: make([]saleResponse, len(sales))}
	for i := range sales {
		resp.Sales[i] = toSaleResponse(&sales[i])
	}
	return c.JSON(http.StatusOK, resp)
}

// Summary returns the aggregate over all recorded sales.
//
// @Summary      Summarize recorded sales
// @Tags         sales
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  domain.SalesSummary
// @Router       /api/sales/summary [get]
func (h *SaleHandler) Summary(c echo.Context) error {
	summary, err := h.sales.Summary(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, summary)
}

// Delete removes a recorded sale by id.
//
// @Summary      Delete a sale
// @Tags         sales
// @Security     BearerAuth
// @Param        id  path  string  true  "Transaction id"
// @Success      204
// @Failure      404  {object}  map[string]string
// @Router       /api/sales/{id} [delete]
func (h *SaleHandler) Delete(c echo.Context) error {
	if err := h.sales.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func hasCustomLine(s *domain.Sale) bool {
	for _, l := range s.Lines {
		if l.Custom {
			return true
		}
	}
	return false
}
