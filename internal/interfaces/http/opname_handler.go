package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Inventario-core/internal/application/dto"
	"github.com/jhoicas/Inventario-core/internal/application/opname"
)

// OpnameHandler conteos físicos y conciliación (protegido).
type OpnameHandler struct {
	uc *opname.OpnameUseCase
}

// NewOpnameHandler construye el handler.
func NewOpnameHandler(uc *opname.OpnameUseCase) *OpnameHandler {
	return &OpnameHandler{uc: uc}
}

// Start godoc
// @Summary      Iniciar conteo físico de una bodega
// @Description  Congela el SystemQty de cada producto con lote registrado en
//               la bodega y deja el conteo IN_PROGRESS.
// @Tags         opnames
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.StartOpnameRequest  true  "location_id"
// @Success      201  {object}  dto.OpnameResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/opnames [post]
func (h *OpnameHandler) Start(c *fiber.Ctx) error {
	var in dto.StartOpnameRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c, err)
	}
	if err := dto.Validate(in); err != nil {
		return badBody(c, err)
	}
	op, err := h.uc.Start(c.Context(), in.LocationID, in.Notes, GetActorID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ToOpnameResponse(op))
}

// SaveCount godoc
// @Summary      Registrar conteo de un renglón
// @Description  Sobrescribible mientras el conteo siga IN_PROGRESS.
//               Difference = actual - sistema.
// @Tags         opnames
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        itemId  path  string  true  "Item ID"
// @Param        body    body  dto.SaveCountRequest  true  "actual_qty"
// @Success      200  {object}  dto.OpnameItemResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/opnames/items/{itemId} [put]
func (h *OpnameHandler) SaveCount(c *fiber.Ctx) error {
	var in dto.SaveCountRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c, err)
	}
	item, err := h.uc.SaveCount(c.Context(), c.Params("itemId"), in.ActualQty, GetActorID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.ToOpnameItemResponse(item))
}

// Complete godoc
// @Summary      Completar conteo (conciliación)
// @Description  Por cada renglón contado con diferencia no nula genera un
//               ajuste AUDIT cuyos movimientos referencian el conteo. Los
//               renglones sin contar se omiten, no se tratan como cero.
//               Todo-o-nada: si un ajuste falla, el conteo queda IN_PROGRESS.
// @Tags         opnames
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "Opname ID"
// @Success      200  {object}  dto.OpnameResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/opnames/{id}/complete [post]
func (h *OpnameHandler) Complete(c *fiber.Ctx) error {
	op, err := h.uc.Complete(c.Context(), c.Params("id"), GetActorID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.ToOpnameResponse(op))
}

// Cancel godoc
// @Summary      Cancelar conteo
// @Description  No genera ajustes ni movimientos.
// @Tags         opnames
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "Opname ID"
// @Success      200  {object}  dto.OpnameResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/opnames/{id}/cancel [post]
func (h *OpnameHandler) Cancel(c *fiber.Ctx) error {
	op, err := h.uc.Cancel(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.ToOpnameResponse(op))
}

// GetByID godoc
// @Summary      Consultar conteo físico
// @Tags         opnames
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "Opname ID"
// @Success      200  {object}  dto.OpnameResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/opnames/{id} [get]
func (h *OpnameHandler) GetByID(c *fiber.Ctx) error {
	op, err := h.uc.Get(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.ToOpnameResponse(op))
}
