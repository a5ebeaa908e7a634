package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Inventario-core/internal/application/dto"
	"github.com/jhoicas/Inventario-core/internal/application/purchasing"
)

// PurchaseHandler órdenes de compra y recepciones (protegido).
type PurchaseHandler struct {
	uc *purchasing.PurchaseUseCase
}

// NewPurchaseHandler construye el handler.
func NewPurchaseHandler(uc *purchasing.PurchaseUseCase) *PurchaseHandler {
	return &PurchaseHandler{uc: uc}
}

// Create godoc
// @Summary      Crear orden de compra (DRAFT)
// @Tags         purchase-orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreatePurchaseOrderRequest  true  "supplier_id, location_id, lines"
// @Success      201  {object}  dto.PurchaseOrderResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/purchase-orders [post]
func (h *PurchaseHandler) Create(c *fiber.Ctx) error {
	var in dto.CreatePurchaseOrderRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c, err)
	}
	if err := dto.Validate(in); err != nil {
		return badBody(c, err)
	}
	input := purchasing.CreateDraftInput{
		SupplierID: in.SupplierID,
		LocationID: in.LocationID,
		Notes:      in.Notes,
		ActorID:    GetActorID(c),
	}
	for _, l := range in.Lines {
		input.Lines = append(input.Lines, purchasing.PurchaseLineInput{
			ProductID: l.ProductID,
			Quantity:  l.Quantity,
			UnitCost:  l.UnitCost,
		})
	}
	order, err := h.uc.CreateDraft(c.Context(), input)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ToPurchaseOrderResponse(order))
}

// Receive godoc
// @Summary      Registrar recepción de mercancía
// @Description  Cada línea recibida crea un lote nuevo (los lotes no se
//               fusionan) y registra el movimiento IN. La recepción parcial
//               es un estado persistente válido.
// @Tags         purchase-orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "Order ID"
// @Param        body  body  dto.ReceivePurchaseRequest  true  "lines: line_id + quantity"
// @Success      200  {object}  dto.PurchaseOrderResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/purchase-orders/{id}/receive [post]
func (h *PurchaseHandler) Receive(c *fiber.Ctx) error {
	var in dto.ReceivePurchaseRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c, err)
	}
	if err := dto.Validate(in); err != nil {
		return badBody(c, err)
	}
	lines := make([]purchasing.ReceiveLineInput, 0, len(in.Lines))
	for _, l := range in.Lines {
		lines = append(lines, purchasing.ReceiveLineInput{LineID: l.LineID, Quantity: l.Quantity})
	}
	order, err := h.uc.Receive(c.Context(), c.Params("id"), lines, GetActorID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.ToPurchaseOrderResponse(order))
}

// Cancel godoc
// @Summary      Cancelar orden de compra (solo DRAFT)
// @Tags         purchase-orders
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "Order ID"
// @Success      200  {object}  dto.PurchaseOrderResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/purchase-orders/{id}/cancel [post]
func (h *PurchaseHandler) Cancel(c *fiber.Ctx) error {
	order, err := h.uc.Cancel(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.ToPurchaseOrderResponse(order))
}

// GetByID godoc
// @Summary      Consultar orden de compra
// @Tags         purchase-orders
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "Order ID"
// @Success      200  {object}  dto.PurchaseOrderResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/purchase-orders/{id} [get]
func (h *PurchaseHandler) GetByID(c *fiber.Ctx) error {
	order, err := h.uc.Get(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.ToPurchaseOrderResponse(order))
}
