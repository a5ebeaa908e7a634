package http

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Inventario-core/internal/application/dto"
	"github.com/jhoicas/Inventario-core/internal/application/inventory"
)

// StockHandler lado de lectura del ledger (protegido).
type StockHandler struct {
	uc *inventory.StockQueryUseCase
}

// NewStockHandler construye el handler.
func NewStockHandler(uc *inventory.StockQueryUseCase) *StockHandler {
	return &StockHandler{uc: uc}
}

// GetStockLevel godoc
// @Summary      Stock agregado de un producto
// @Description  onHand/allocated/available. Sin location_id devuelve el agregado global.
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        productId    path   string  true   "Product ID"
// @Param        location_id  query  string  false  "Bodega (vacío = global)"
// @Success      200  {object}  dto.StockLevelResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stock/{productId} [get]
func (h *StockHandler) GetStockLevel(c *fiber.Ctx) error {
	level, err := h.uc.GetStockLevel(c.Context(), c.Params("productId"), c.Query("location_id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.ToStockLevelResponse(level))
}

// GetMovements godoc
// @Summary      Historial de movimientos de un producto
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        productId    path   string  true   "Product ID"
// @Param        location_id  query  string  false  "Filtrar por bodega"
// @Param        limit        query  int     false  "Límite (default 100)"
// @Success      200  {array}  dto.MovementResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stock/{productId}/movements [get]
func (h *StockHandler) GetMovements(c *fiber.Ctx) error {
	limit, _ := strconv.Atoi(c.Query("limit"))
	movements, err := h.uc.GetMovementHistory(c.Context(), c.Params("productId"), c.Query("location_id"), limit)
	if err != nil {
		return respondError(c, err)
	}
	out := make([]dto.MovementResponse, 0, len(movements))
	for _, m := range movements {
		out = append(out, dto.ToMovementResponse(m))
	}
	return c.JSON(out)
}

// GetBatches godoc
// @Summary      Lotes de un producto en una bodega (orden FIFO)
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        productId    path   string  true  "Product ID"
// @Param        location_id  query  string  true  "Bodega"
// @Success      200  {array}  dto.StockBatchResponse
// @Router       /api/stock/{productId}/batches [get]
func (h *StockHandler) GetBatches(c *fiber.Ctx) error {
	batches, err := h.uc.GetBatches(c.Context(), c.Params("productId"), c.Query("location_id"))
	if err != nil {
		return respondError(c, err)
	}
	out := make([]dto.StockBatchResponse, 0, len(batches))
	for _, b := range batches {
		out = append(out, dto.ToStockBatchResponse(b))
	}
	return c.JSON(out)
}

// ListLowStock godoc
// @Summary      Lista de reposición
// @Description  Productos cuyo stock global quedó en o bajo su umbral.
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.LowStockItemResponse
// @Router       /api/stock/low [get]
func (h *StockHandler) ListLowStock(c *fiber.Ctx) error {
	items, err := h.uc.ListLowStock(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	out := make([]dto.LowStockItemResponse, 0, len(items))
	for _, it := range items {
		out = append(out, dto.ToLowStockItemResponse(it))
	}
	return c.JSON(fiber.Map{"total": len(out), "items": out})
}
