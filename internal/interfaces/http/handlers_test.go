package http_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Backoffice-ledger/internal/application/account"
	"github.com/jhoicas/Backoffice-ledger/internal/application/document"
	"github.com/jhoicas/Backoffice-ledger/internal/application/dto"
	"github.com/jhoicas/Backoffice-ledger/internal/application/inventory"
	"github.com/jhoicas/Backoffice-ledger/internal/domain/entity"
	"github.com/jhoicas/Backoffice-ledger/internal/infrastructure/memory"
	apphttp "github.com/jhoicas/Backoffice-ledger/internal/interfaces/http"
	"github.com/jhoicas/Backoffice-ledger/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

type nopDispatcher struct{}

func (nopDispatcher) Dispatch(...string) {}

// buildTestApp arma la API sobre el store en memoria con unidades g/kg/lt, bodega w1
// y el material harina (compra y consumo en kg).
func buildTestApp(t *testing.T) *fiber.App {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()
	repos := store.Repos()
	one := decimal.NewFromInt(1)
	kgBase := "g"
	require.NoError(t, repos.Units.Create(ctx, &entity.Unit{ID: "g", Name: "Gramo", Symbol: "g", ConversionFactor: one}))
	require.NoError(t, repos.Units.Create(ctx, &entity.Unit{ID: "kg", Name: "Kilogramo", Symbol: "kg", BaseUnitID: &kgBase, ConversionFactor: decimal.NewFromInt(1000)}))
	require.NoError(t, repos.Units.Create(ctx, &entity.Unit{ID: "lt", Name: "Litro", Symbol: "l", ConversionFactor: one}))
	require.NoError(t, repos.Warehouses.Create(ctx, &entity.Warehouse{ID: "w1", BranchID: "b1", Name: "Cocina"}))
	require.NoError(t, repos.Materials.Create(ctx, &entity.Material{ID: "harina", Name: "Harina", PurchaseUnitID: "kg", ConsumptionUnitID: "kg"}))

	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		Orchestrator: document.NewOrchestrator(store, nopDispatcher{}, 3, logger.Nop()),
		StockUC:      inventory.NewStockUseCase(store, repos.Movements, repos.Materials),
		AccountUC:    account.NewAccountUseCase(store, repos.Accounts, repos.Transactions),
	})
	return app
}

// doRequest lanza la petición y decodifica el cuerpo en out (si no es nil).
func doRequest(t *testing.T, app *fiber.App, method, path, body string, out any) int {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func purchaseBody(id, date, qty, price string) string {
	return `{"document_id":"` + id + `","type":"PURCHASE","date":"` + date + `T00:00:00Z",` +
		`"counterparty_id":"prov-1","counterparty_name":"Molino",` +
		`"lines":[{"material_id":"harina","warehouse_id":"w1","quantity":"` + qty + `","unit_price":"` + price + `"}]}`
}

func assertDec(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.True(t, got.Equal(decimal.RequireFromString(want)), "esperado %s, obtuvo %s", want, got)
}

// ──────────────────────────────────────────────────────────────────────────────
// Documentos
// ──────────────────────────────────────────────────────────────────────────────

func TestDocumentHandler_CrearCompra(t *testing.T) {
	app := buildTestApp(t)

	var res dto.DocumentResponse
	status := doRequest(t, app, http.MethodPost, "/api/documents", purchaseBody("F-1", "2024-01-05", "10", "180"), &res)

	require.Equal(t, fiber.StatusCreated, status)
	assert.Equal(t, "F-1", res.DocumentID)
	require.Len(t, res.Movements, 1)
	assertDec(t, "10", res.Movements[0].StockAfter)
	require.NotNil(t, res.Account)
	assertDec(t, "1800", res.Account.CurrentBalance)
	require.NotNil(t, res.Transaction)
	assert.Equal(t, entity.TransactionTypeDebt, res.Transaction.Type)
	require.Len(t, res.Materials, 1)
	assertDec(t, "180", res.Materials[0].LastPurchasePrice)
}

func TestDocumentHandler_CuerpoInvalido(t *testing.T) {
	app := buildTestApp(t)

	var res dto.ErrorResponse
	status := doRequest(t, app, http.MethodPost, "/api/documents", `{"lines":`, &res)

	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "INVALID_BODY", res.Code)
}

func TestDocumentHandler_CodigosDeError(t *testing.T) {
	tests := []struct {
		name   string
		method string
		path   string
		body   string
		status int
		code   string
	}{
		{
			name:   "material inexistente",
			method: http.MethodPost,
			path:   "/api/documents",
			body:   strings.Replace(purchaseBody("F-9", "2024-01-05", "1", "1"), `"harina"`, `"sal"`, 1),
			status: fiber.StatusUnprocessableEntity,
			code:   "UNKNOWN_ENTITY",
		},
		{
			name:   "cantidad cero",
			method: http.MethodPost,
			path:   "/api/documents",
			body:   purchaseBody("F-9", "2024-01-05", "0", "1"),
			status: fiber.StatusBadRequest,
			code:   "VALIDATION",
		},
		{
			name:   "unidad incompatible",
			method: http.MethodPost,
			path:   "/api/documents",
			body:   strings.Replace(purchaseBody("F-9", "2024-01-05", "1", "1"), `"unit_price":"1"`, `"unit_price":"1","unit_id":"lt"`, 1),
			status: fiber.StatusUnprocessableEntity,
			code:   "INCOMPATIBLE_UNITS",
		},
		{
			name:   "borrar inexistente",
			method: http.MethodDelete,
			path:   "/api/documents/NO-EXISTE",
			status: fiber.StatusNotFound,
			code:   "NOT_FOUND",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := buildTestApp(t)
			var res dto.ErrorResponse
			status := doRequest(t, app, tt.method, tt.path, tt.body, &res)
			assert.Equal(t, tt.status, status)
			assert.Equal(t, tt.code, res.Code)
		})
	}
}

func TestDocumentHandler_CreateDuplicado(t *testing.T) {
	app := buildTestApp(t)
	require.Equal(t, fiber.StatusCreated, doRequest(t, app, http.MethodPost, "/api/documents", purchaseBody("F-1", "2024-01-05", "10", "180"), nil))

	var res dto.ErrorResponse
	status := doRequest(t, app, http.MethodPost, "/api/documents", purchaseBody("F-1", "2024-01-05", "10", "180"), &res)

	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION", res.Code)
}

func TestDocumentHandler_EditarYBorrar(t *testing.T) {
	app := buildTestApp(t)
	require.Equal(t, fiber.StatusCreated, doRequest(t, app, http.MethodPost, "/api/documents", purchaseBody("F-1", "2024-01-05", "10", "180"), nil))

	var edited dto.DocumentResponse
	status := doRequest(t, app, http.MethodPut, "/api/documents/F-1", purchaseBody("", "2024-01-05", "4", "200"), &edited)
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "F-1", edited.DocumentID)
	assert.Equal(t, 1, edited.RetractedMovements)
	assertDec(t, "800", edited.Account.CurrentBalance)

	var deleted dto.DocumentResponse
	status = doRequest(t, app, http.MethodDelete, "/api/documents/F-1", "", &deleted)
	require.Equal(t, fiber.StatusOK, status)
	assert.Empty(t, deleted.Movements)

	var stock dto.StockResponse
	require.Equal(t, fiber.StatusOK, doRequest(t, app, http.MethodGet, "/api/materials/harina/stock", "", &stock))
	assertDec(t, "0", stock.Quantity)
}

// ──────────────────────────────────────────────────────────────────────────────
// Stock y cuentas
// ──────────────────────────────────────────────────────────────────────────────

func TestStockHandler_StockYMovimientos(t *testing.T) {
	app := buildTestApp(t)
	for _, body := range []string{
		purchaseBody("F-1", "2024-01-01", "10", "100"),
		purchaseBody("F-2", "2024-01-10", "5", "100"),
		purchaseBody("F-3", "2024-01-05", "2", "100"),
	} {
		require.Equal(t, fiber.StatusCreated, doRequest(t, app, http.MethodPost, "/api/documents", body, nil))
	}

	var total dto.StockResponse
	require.Equal(t, fiber.StatusOK, doRequest(t, app, http.MethodGet, "/api/materials/harina/stock", "", &total))
	assertDec(t, "17", total.Quantity)
	require.Len(t, total.Levels, 1)

	var wh dto.StockResponse
	require.Equal(t, fiber.StatusOK, doRequest(t, app, http.MethodGet, "/api/materials/harina/stock?warehouse_id=w1", "", &wh))
	assertDec(t, "17", wh.Quantity)

	var page dto.MovementsResponse
	require.Equal(t, fiber.StatusOK, doRequest(t, app, http.MethodGet, "/api/materials/harina/movements?warehouse_id=w1&limit=2&offset=1", "", &page))
	assert.Equal(t, 3, page.Page.Total)
	require.Len(t, page.Items, 2)
	assert.Equal(t, "F-3", page.Items[0].SourceRef)
	assertDec(t, "12", page.Items[0].StockAfter)
	assertDec(t, "17", page.Items[1].StockAfter)

	var missing dto.ErrorResponse
	assert.Equal(t, fiber.StatusNotFound, doRequest(t, app, http.MethodGet, "/api/materials/sal/stock", "", &missing))
}

func TestStockHandler_Reconstruir(t *testing.T) {
	app := buildTestApp(t)
	require.Equal(t, fiber.StatusCreated, doRequest(t, app, http.MethodPost, "/api/documents", purchaseBody("F-1", "2024-01-05", "10", "180"), nil))

	var res dto.RebuildMaterialResponse
	status := doRequest(t, app, http.MethodPost, "/api/materials/harina/rebuild", "", &res)

	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, 1, res.Keys)
	assert.Equal(t, 0, res.Rewritten)
	assertDec(t, "10", res.Aggregate.CurrentStock)
}

func TestAccountHandler_EstadoYReconstruccion(t *testing.T) {
	app := buildTestApp(t)
	var created dto.DocumentResponse
	require.Equal(t, fiber.StatusCreated, doRequest(t, app, http.MethodPost, "/api/documents", purchaseBody("F-1", "2024-01-05", "10", "180"), &created))
	require.NotNil(t, created.Account)
	accountID := created.Account.ID

	var statement dto.StatementResponse
	require.Equal(t, fiber.StatusOK, doRequest(t, app, http.MethodGet, "/api/accounts/"+accountID, "", &statement))
	assert.Equal(t, "prov-1", statement.Account.CounterpartyID)
	require.Len(t, statement.Transactions, 1)
	assertDec(t, "1800", statement.Transactions[0].BalanceAfter)

	var rebuilt dto.RebuildAccountResponse
	require.Equal(t, fiber.StatusOK, doRequest(t, app, http.MethodPost, "/api/accounts/"+accountID+"/rebuild", "", &rebuilt))
	assert.Equal(t, 0, rebuilt.Rewritten)
	assertDec(t, "1800", rebuilt.Account.CurrentBalance)

	var missing dto.ErrorResponse
	assert.Equal(t, fiber.StatusNotFound, doRequest(t, app, http.MethodGet, "/api/accounts/no-existe", "", &missing))
}
