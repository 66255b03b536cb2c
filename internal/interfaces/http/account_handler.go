package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Backoffice-ledger/internal/application/account"
	"github.com/jhoicas/Backoffice-ledger/internal/application/dto"
)

// AccountHandler estado y reconstrucción de cuentas corrientes.
type AccountHandler struct {
	uc *account.AccountUseCase
}

// NewAccountHandler construye el handler.
func NewAccountHandler(uc *account.AccountUseCase) *AccountHandler {
	return &AccountHandler{uc: uc}
}

// Statement godoc
// @Summary      Estado de cuenta corriente
// @Tags         accounts
// @Produce      json
// @Param        id  path  string  true  "ID de la cuenta"
// @Success      200  {object}  dto.StatementResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/accounts/{id} [get]
func (h *AccountHandler) Statement(c *fiber.Ctx) error {
	acc, txs, err := h.uc.Statement(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.NewStatementResponse(acc, txs))
}

// Rebuild godoc
// @Summary      Reconstruir la cadena de saldos de una cuenta
// @Tags         accounts
// @Produce      json
// @Param        id  path  string  true  "ID de la cuenta"
// @Success      200  {object}  dto.RebuildAccountResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/accounts/{id}/rebuild [post]
func (h *AccountHandler) Rebuild(c *fiber.Ctx) error {
	acc, rewritten, err := h.uc.RebuildAccount(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.RebuildAccountResponse{Account: dto.NewAccountDTO(acc), Rewritten: rewritten})
}
