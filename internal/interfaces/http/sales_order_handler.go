package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Inventario-core/internal/application/dto"
	"github.com/jhoicas/Inventario-core/internal/application/sales"
	"github.com/jhoicas/Inventario-core/internal/domain/entity"
)

// SalesOrderHandler ciclo de vida de órdenes de venta (protegido).
type SalesOrderHandler struct {
	uc *sales.OrderUseCase
}

// NewSalesOrderHandler construye el handler.
func NewSalesOrderHandler(uc *sales.OrderUseCase) *SalesOrderHandler {
	return &SalesOrderHandler{uc: uc}
}

// Create godoc
// @Summary      Crear orden de venta (DRAFT)
// @Description  Congela el precio vigente por línea. No toca cantidades.
// @Tags         sales-orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateSalesOrderRequest  true  "customer_id, location_id, lines"
// @Success      201  {object}  dto.SalesOrderResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/sales-orders [post]
func (h *SalesOrderHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateSalesOrderRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c, err)
	}
	if err := dto.Validate(in); err != nil {
		return badBody(c, err)
	}
	input := sales.CreateDraftInput{
		CustomerID: in.CustomerID,
		LocationID: in.LocationID,
		Notes:      in.Notes,
		ActorID:    GetActorID(c),
	}
	for _, l := range in.Lines {
		input.Lines = append(input.Lines, sales.OrderLineInput{ProductID: l.ProductID, Quantity: l.Quantity})
	}
	order, err := h.uc.CreateDraft(c.Context(), input)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ToSalesOrderResponse(order))
}

// Confirm godoc
// @Summary      Confirmar orden (asigna stock FIFO)
// @Description  DRAFT → CONFIRMED. Bajo política strict falla con 409 si no
//               hay disponible; bajo allow-overcommit asigna el faltante igual.
// @Tags         sales-orders
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "Order ID"
// @Success      200  {object}  dto.SalesOrderResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/sales-orders/{id}/confirm [post]
func (h *SalesOrderHandler) Confirm(c *fiber.Ctx) error {
	order, err := h.uc.Confirm(c.Context(), c.Params("id"), GetActorID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.ToSalesOrderResponse(order))
}

// Fulfill godoc
// @Summary      Despachar orden (deducción FIFO)
// @Description  CONFIRMED → FULFILLED. Todo-o-nada: si alguna línea no se
//               cubre, la orden permanece CONFIRMED sin ningún lote mutado.
// @Tags         sales-orders
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "Order ID"
// @Success      200  {object}  dto.SalesOrderResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/sales-orders/{id}/fulfill [post]
func (h *SalesOrderHandler) Fulfill(c *fiber.Ctx) error {
	order, err := h.uc.Fulfill(c.Context(), c.Params("id"), GetActorID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.ToSalesOrderResponse(order))
}

// Cancel godoc
// @Summary      Cancelar orden
// @Description  DRAFT|CONFIRMED → CANCELLED. Libera la asignación si estaba confirmada.
// @Tags         sales-orders
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "Order ID"
// @Success      200  {object}  dto.SalesOrderResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/sales-orders/{id}/cancel [post]
func (h *SalesOrderHandler) Cancel(c *fiber.Ctx) error {
	order, err := h.uc.Cancel(c.Context(), c.Params("id"), GetActorID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.ToSalesOrderResponse(order))
}

// GetByID godoc
// @Summary      Consultar orden de venta
// @Tags         sales-orders
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "Order ID"
// @Success      200  {object}  dto.SalesOrderResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/sales-orders/{id} [get]
func (h *SalesOrderHandler) GetByID(c *fiber.Ctx) error {
	order, err := h.uc.Get(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.ToSalesOrderResponse(order))
}

// List godoc
// @Summary      Listar órdenes de venta
// @Tags         sales-orders
// @Security     Bearer
// @Produce      json
// @Param        status  query  string  false  "DRAFT | CONFIRMED | FULFILLED | CANCELLED"
// @Param        limit   query  int     false  "Límite (default 50)"
// @Param        offset  query  int     false  "Offset"
// @Success      200  {array}  dto.SalesOrderResponse
// @Router       /api/sales-orders [get]
func (h *SalesOrderHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return badBody(c, err)
	}
	page.DefaultPage()
	orders, err := h.uc.List(c.Context(), entity.SalesOrderStatus(c.Query("status")), page.Limit, page.Offset)
	if err != nil {
		return respondError(c, err)
	}
	out := make([]dto.SalesOrderResponse, 0, len(orders))
	for _, o := range orders {
		out = append(out, dto.ToSalesOrderResponse(o))
	}
	return c.JSON(out)
}
