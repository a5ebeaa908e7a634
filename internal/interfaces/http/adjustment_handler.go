package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Inventario-core/internal/application/dto"
	"github.com/jhoicas/Inventario-core/internal/application/inventory"
	"github.com/jhoicas/Inventario-core/internal/domain/entity"
)

// AdjustmentHandler ajustes manuales y reversas (protegido).
type AdjustmentHandler struct {
	uc *inventory.AdjustmentUseCase
}

// NewAdjustmentHandler construye el handler.
func NewAdjustmentHandler(uc *inventory.AdjustmentUseCase) *AdjustmentHandler {
	return &AdjustmentHandler{uc: uc}
}

// Apply godoc
// @Summary      Aplicar ajuste manual
// @Description  increase crea un lote nuevo; decrease deduce FIFO sobre el
//               disponible y falla con 409 si no alcanza: el stock nunca
//               queda negativo por un ajuste.
// @Tags         adjustments
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ApplyAdjustmentRequest  true  "product_id, location_id, direction, quantity, reason"
// @Success      201  {object}  dto.AdjustmentResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/adjustments [post]
func (h *AdjustmentHandler) Apply(c *fiber.Ctx) error {
	var in dto.ApplyAdjustmentRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c, err)
	}
	if err := dto.Validate(in); err != nil {
		return badBody(c, err)
	}
	adj, err := h.uc.Apply(c.Context(), inventory.ApplyAdjustmentInput{
		ProductID:  in.ProductID,
		LocationID: in.LocationID,
		Direction:  entity.AdjustmentDirection(in.Direction),
		Quantity:   in.Quantity,
		Reason:     entity.AdjustmentReason(in.Reason),
		Note:       in.Note,
		ActorID:    GetActorID(c),
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ToAdjustmentResponse(adj))
}

// Reverse godoc
// @Summary      Reversar ajuste
// @Description  Crea el ajuste espejo (dirección opuesta, misma cantidad)
//               referenciando el original. Un ajuste solo admite una reversa.
// @Tags         adjustments
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "Adjustment ID"
// @Success      201  {object}  dto.AdjustmentResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/adjustments/{id}/reverse [post]
func (h *AdjustmentHandler) Reverse(c *fiber.Ctx) error {
	mirror, err := h.uc.Reverse(c.Context(), c.Params("id"), GetActorID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ToAdjustmentResponse(mirror))
}

// GetByID godoc
// @Summary      Consultar ajuste
// @Tags         adjustments
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "Adjustment ID"
// @Success      200  {object}  dto.AdjustmentResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/adjustments/{id} [get]
func (h *AdjustmentHandler) GetByID(c *fiber.Ctx) error {
	adj, err := h.uc.Get(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.ToAdjustmentResponse(adj))
}
