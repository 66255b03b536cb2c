package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Backoffice-ledger/internal/application/dto"
	"github.com/jhoicas/Backoffice-ledger/internal/application/inventory"
)

// StockHandler consultas de stock derivadas del ledger de movimientos.
type StockHandler struct {
	uc *inventory.StockUseCase
}

// NewStockHandler construye el handler.
func NewStockHandler(uc *inventory.StockUseCase) *StockHandler {
	return &StockHandler{uc: uc}
}

// warehouseQuery devuelve nil si no se envió warehouse_id.
func warehouseQuery(c *fiber.Ctx) *string {
	wh := c.Query("warehouse_id")
	if wh == "" {
		return nil
	}
	return &wh
}

// Stock godoc
// @Summary      Stock de un material (total o por bodega)
// @Tags         materials
// @Produce      json
// @Param        id            path   string  true   "ID del material"
// @Param        warehouse_id  query  string  false  "bodega; sin ella se devuelve el total y el detalle por bodega"
// @Success      200  {object}  dto.StockResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/materials/{id}/stock [get]
func (h *StockHandler) Stock(c *fiber.Ctx) error {
	materialID := c.Params("id")
	ctx := c.UserContext()
	if wh := warehouseQuery(c); wh != nil {
		qty, err := h.uc.WarehouseStock(ctx, materialID, wh)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(dto.StockResponse{MaterialID: materialID, WarehouseID: wh, Quantity: qty})
	}
	qty, err := h.uc.CurrentStock(ctx, materialID)
	if err != nil {
		return respondError(c, err)
	}
	levels, err := h.uc.Levels(ctx, materialID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.StockResponse{MaterialID: materialID, Quantity: qty, Levels: dto.NewStockLevelDTOs(levels)})
}

// Movements godoc
// @Summary      Cadena de movimientos de (material, bodega) en orden (fecha, secuencia)
// @Tags         materials
// @Produce      json
// @Param        id            path   string  true   "ID del material"
// @Param        warehouse_id  query  string  false  "bodega; vacío = cadena sin bodega"
// @Param        limit         query  int     false  "máximo por página"
// @Param        offset        query  int     false  "desplazamiento"
// @Success      200  {object}  dto.MovementsResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/materials/{id}/movements [get]
func (h *StockHandler) Movements(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "parámetros inválidos"})
	}
	page.DefaultPage()
	list, err := h.uc.Movements(c.UserContext(), c.Params("id"), warehouseQuery(c))
	if err != nil {
		return respondError(c, err)
	}
	start, end := page.Bounds(len(list))
	return c.JSON(dto.MovementsResponse{
		Items: dto.NewMovementDTOs(list[start:end]),
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset, Total: len(list)},
	})
}

// Rebuild godoc
// @Summary      Reconstruir cadenas y stock cacheado de un material
// @Tags         materials
// @Produce      json
// @Param        id  path  string  true  "ID del material"
// @Success      200  {object}  dto.RebuildMaterialResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/materials/{id}/rebuild [post]
func (h *StockHandler) Rebuild(c *fiber.Ctx) error {
	report, err := h.uc.RebuildMaterial(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.RebuildMaterialResponse{
		MaterialID: report.MaterialID,
		Keys:       report.Keys,
		Rewritten:  report.Rewritten,
		Aggregate:  dto.MaterialAggregateDTO(report.Aggregate),
	})
}
