package document

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"

	"github.com/jhoicas/Backoffice-ledger/internal/application/account"
	"github.com/jhoicas/Backoffice-ledger/internal/application/inventory"
	"github.com/jhoicas/Backoffice-ledger/internal/domain"
	"github.com/jhoicas/Backoffice-ledger/internal/domain/entity"
	"github.com/jhoicas/Backoffice-ledger/internal/domain/repository"
)

// DocumentLockKey clave de bloqueo de los asientos de un documento. Se toma antes de leerlos,
// fuera del conjunto ordenado de claves de cadena; cada transacción toma a lo sumo una.
func DocumentLockKey(documentID string) string { return "document:" + documentID }

// mutation estado de una corrida del orquestador dentro de una transacción.
type mutation struct {
	in         entity.DocumentMutation
	repos      repository.TxRepos
	movements  *inventory.MovementLedger
	accounts   *account.Ledger
	aggregator *inventory.Aggregator

	docType string
	old     []*entity.StockMovement
	oldTx   *entity.CurrentAccountTransaction
	keptTx  *entity.CurrentAccountTransaction
	target  *entity.CurrentAccount
	lines   []*entity.StockMovement // líneas ya resueltas a unidad de consumo

	result    *entity.AggregateUpdateResult
	propagate []string
}

// needsAccount compras y devoluciones con contraparte escriben en la cuenta corriente.
func (m *mutation) needsAccount() bool {
	if m.in.Kind == entity.MutationDelete || m.in.CounterpartyID == "" {
		return false
	}
	return m.docType == entity.DocumentTypePurchase || m.docType == entity.DocumentTypeReturn
}

// prepare lee el estado anterior y convierte las líneas nuevas. No escribe nada: cualquier
// referencia inexistente o unidad incompatible rechaza la mutación aquí.
func (m *mutation) prepare(ctx context.Context) error {
	// serializa las mutaciones del mismo documento antes de leer sus asientos
	if err := m.repos.Locker.LockKeys(ctx, DocumentLockKey(m.in.DocumentID)); err != nil {
		return err
	}
	var err error
	if m.old, err = m.repos.Movements.ListBySource(ctx, m.in.DocumentID); err != nil {
		return err
	}
	if m.oldTx, err = m.repos.Transactions.GetBySource(ctx, m.in.DocumentID); err != nil {
		return err
	}
	if m.in.Kind == entity.MutationCreate && (len(m.old) > 0 || m.oldTx != nil) {
		return fmt.Errorf("%w: el documento %s ya tiene asientos", domain.ErrInvalidInput, m.in.DocumentID)
	}
	if m.in.Kind == entity.MutationDelete && len(m.old) == 0 && m.oldTx == nil {
		return fmt.Errorf("%w: documento %s", domain.ErrNotFound, m.in.DocumentID)
	}

	m.docType = m.in.Type
	if m.docType == "" && len(m.old) > 0 {
		m.docType = m.old[0].SourceType
	}
	if m.in.Kind == entity.MutationDelete {
		return nil
	}

	for _, line := range m.in.Lines {
		mov, err := m.convert(ctx, line)
		if err != nil {
			return err
		}
		m.lines = append(m.lines, mov)
	}
	if m.needsAccount() {
		if m.target, err = m.repos.Accounts.GetByCounterparty(ctx, m.in.CounterpartyID); err != nil {
			return err
		}
	}
	return nil
}

func (m *mutation) convert(ctx context.Context, line entity.DocumentLine) (*entity.StockMovement, error) {
	material, err := m.repos.Materials.GetByID(ctx, line.MaterialID)
	if err != nil {
		return nil, err
	}
	if material == nil {
		return nil, fmt.Errorf("%w: material %s", domain.ErrUnknownEntity, line.MaterialID)
	}
	if line.WarehouseID != nil {
		wh, err := m.repos.Warehouses.GetByID(ctx, *line.WarehouseID)
		if err != nil {
			return nil, err
		}
		if wh == nil {
			return nil, fmt.Errorf("%w: bodega %s", domain.ErrUnknownEntity, *line.WarehouseID)
		}
	}

	unitID := line.UnitID
	if unitID == "" {
		unitID = material.PurchaseUnitID
	}
	graph, err := inventory.LoadUnitGraph(ctx, m.repos.Units, unitID, material.ConsumptionUnitID, material.PurchaseUnitID)
	if err != nil {
		return nil, err
	}
	qty, unitCost, err := graph.Convert(line.Quantity, line.UnitPrice, unitID, material.ConsumptionUnitID)
	if err != nil {
		return nil, err
	}

	mov := &entity.StockMovement{
		MaterialID:  line.MaterialID,
		WarehouseID: line.WarehouseID,
		Date:        m.in.Date,
		SourceType:  m.docType,
		SourceRef:   m.in.DocumentID,
		Reason:      m.description(),
	}
	switch m.docType {
	case entity.DocumentTypePurchase:
		mov.Type = entity.MovementTypeIN
		mov.Quantity = qty
		mov.UnitCost = unitCost
		mov.TotalCost = line.Total()
	case entity.DocumentTypeReturn:
		mov.Type = entity.MovementTypeOUT
		mov.Quantity = qty.Neg()
		mov.UnitCost = unitCost
		mov.TotalCost = line.Total().Neg()
	default:
		// consumo: se valora al costo vigente del material
		mov.Type = entity.MovementTypeOUT
		mov.Quantity = qty.Neg()
		mov.UnitCost = material.AverageCost
		mov.TotalCost = mov.Quantity.Mul(material.AverageCost)
	}
	return mov, nil
}

// lock toma, en orden, los bloqueos de todas las cadenas que la mutación va a tocar.
func (m *mutation) lock(ctx context.Context) error {
	set := make(map[string]struct{})
	for _, mv := range m.old {
		set[mv.Key().String()] = struct{}{}
	}
	for _, mv := range m.lines {
		set[mv.Key().String()] = struct{}{}
	}
	if m.oldTx != nil {
		set[account.LockKey(m.oldTx.CurrentAccountID)] = struct{}{}
	}
	if m.needsAccount() {
		set["counterparty:"+m.in.CounterpartyID] = struct{}{}
		if m.target != nil {
			set[account.LockKey(m.target.ID)] = struct{}{}
		}
	}
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	if err := m.repos.Locker.LockKeys(ctx, keys...); err != nil {
		return err
	}

	if !m.needsAccount() {
		return nil
	}
	// la cuenta pudo crearse entre la lectura y el bloqueo
	current, err := m.repos.Accounts.GetByCounterparty(ctx, m.in.CounterpartyID)
	if err != nil {
		return err
	}
	if (current == nil) != (m.target == nil) || (current != nil && current.ID != m.target.ID) {
		return fmt.Errorf("%w: cuenta de %s", domain.ErrConcurrentMutation, m.in.CounterpartyID)
	}
	return nil
}

// retract borra los asientos anteriores del documento. En EDIT con la misma cuenta
// la transacción se conserva para editarla en sitio.
func (m *mutation) retract(ctx context.Context) error {
	for _, mv := range m.old {
		if _, err := m.movements.Delete(ctx, mv.ID); err != nil {
			return err
		}
	}
	m.result.RetractedMovements = len(m.old)

	if m.oldTx == nil {
		return nil
	}
	if m.in.Kind == entity.MutationEdit && m.needsAccount() && m.target != nil && m.oldTx.CurrentAccountID == m.target.ID {
		m.keptTx = m.oldTx
		return nil
	}
	_, err := m.accounts.Delete(ctx, m.oldTx.ID)
	return err
}

func (m *mutation) write(ctx context.Context) error {
	for _, mv := range m.lines {
		if err := m.movements.Insert(ctx, mv); err != nil {
			return err
		}
		m.result.Movements = append(m.result.Movements, mv)
	}
	if !m.needsAccount() {
		return nil
	}

	acc := m.target
	if acc == nil {
		var err error
		if acc, err = m.accounts.EnsureAccount(ctx, m.in.CounterpartyID, entity.CounterpartySupplier, m.in.CounterpartyName); err != nil {
			return err
		}
	}
	txType := entity.TransactionTypeDebt
	if m.docType == entity.DocumentTypeReturn {
		txType = entity.TransactionTypeCredit
	}

	var tx *entity.CurrentAccountTransaction
	if m.keptTx != nil {
		var err error
		tx, err = m.accounts.Update(ctx, m.keptTx.ID, account.TransactionChange{
			Type:        txType,
			Amount:      m.in.Total(),
			Date:        m.in.Date,
			Description: m.description(),
		})
		if err != nil {
			return err
		}
	} else {
		tx = &entity.CurrentAccountTransaction{
			ID:               uuid.New().String(),
			CurrentAccountID: acc.ID,
			Type:             txType,
			Amount:           m.in.Total(),
			TransactionDate:  m.in.Date,
			SourceRef:        m.in.DocumentID,
			Description:      m.description(),
		}
		if err := m.accounts.Insert(ctx, tx); err != nil {
			return err
		}
	}

	refreshed, err := m.repos.Accounts.GetByID(ctx, acc.ID)
	if err != nil {
		return err
	}
	m.result.Account = refreshed
	m.result.AccountTransaction = tx
	return nil
}

// aggregate refresca stock y costos de cada material tocado (los anteriores y los nuevos).
func (m *mutation) aggregate(ctx context.Context) error {
	touched := make(map[string]struct{})
	for _, mv := range m.old {
		touched[mv.MaterialID] = struct{}{}
	}
	for _, mv := range m.lines {
		touched[mv.MaterialID] = struct{}{}
	}

	ids := make([]string, 0, len(touched))
	for id := range touched {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		agg, err := m.aggregator.Refresh(ctx, id)
		if err != nil {
			return err
		}
		m.result.Materials = append(m.result.Materials, agg)
	}

	if m.docType == entity.DocumentTypePurchase {
		m.propagate = ids
	}
	return nil
}

func (m *mutation) description() string {
	if m.in.Description != "" {
		return m.in.Description
	}
	return "Factura " + m.in.DocumentID
}
