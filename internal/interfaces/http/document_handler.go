package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Backoffice-ledger/internal/application/document"
	"github.com/jhoicas/Backoffice-ledger/internal/application/dto"
	"github.com/jhoicas/Backoffice-ledger/internal/domain/entity"
)

// DocumentHandler expone las mutaciones de facturas.
type DocumentHandler struct {
	orchestrator *document.Orchestrator
}

// NewDocumentHandler construye el handler.
func NewDocumentHandler(orchestrator *document.Orchestrator) *DocumentHandler {
	return &DocumentHandler{orchestrator: orchestrator}
}

// Create godoc
// @Summary      Registrar factura
// @Tags         documents
// @Accept       json
// @Produce      json
// @Param        body  body  dto.DocumentRequest  true  "document_id, type, date, counterparty_id, lines"
// @Success      201   {object}  dto.DocumentResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/documents [post]
func (h *DocumentHandler) Create(c *fiber.Ctx) error {
	var in dto.DocumentRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	return h.apply(c, fiber.StatusCreated, in.ToMutation(entity.MutationCreate, ""))
}

// Edit godoc
// @Summary      Editar factura (retracta y reescribe sus asientos)
// @Tags         documents
// @Accept       json
// @Produce      json
// @Param        id    path  string               true  "ID de la factura"
// @Param        body  body  dto.DocumentRequest  true  "estado nuevo completo de la factura"
// @Success      200   {object}  dto.DocumentResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/documents/{id} [put]
func (h *DocumentHandler) Edit(c *fiber.Ctx) error {
	var in dto.DocumentRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	return h.apply(c, fiber.StatusOK, in.ToMutation(entity.MutationEdit, c.Params("id")))
}

// Delete godoc
// @Summary      Borrar factura
// @Tags         documents
// @Produce      json
// @Param        id  path  string  true  "ID de la factura"
// @Success      200  {object}  dto.DocumentResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/documents/{id} [delete]
func (h *DocumentHandler) Delete(c *fiber.Ctx) error {
	in := entity.DocumentMutation{DocumentID: c.Params("id"), Kind: entity.MutationDelete}
	return h.apply(c, fiber.StatusOK, in)
}

func (h *DocumentHandler) apply(c *fiber.Ctx, status int, in entity.DocumentMutation) error {
	result, err := h.orchestrator.ApplyDocumentMutation(c.UserContext(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(status).JSON(dto.NewDocumentResponse(result))
}
