package inventory

import (
	"sort"
	"time"

	"github.com/jhoicas/Backoffice-ledger/internal/domain/entity"
)

// Before compara claves de orden (fecha, secuencia). La secuencia de inserción desempata fechas iguales.
func Before(aDate time.Time, aSeq int64, bDate time.Time, bSeq int64) bool {
	if !aDate.Equal(bDate) {
		return aDate.Before(bDate)
	}
	return aSeq < bSeq
}

// SortMovements ordena movimientos por (fecha, secuencia) ascendente.
func SortMovements(ms []*entity.StockMovement) {
	sort.SliceStable(ms, func(i, j int) bool {
		return Before(ms[i].Date, ms[i].Seq, ms[j].Date, ms[j].Seq)
	})
}

// SortTransactions ordena transacciones de cuenta por (fecha, secuencia) ascendente.
func SortTransactions(ts []*entity.CurrentAccountTransaction) {
	sort.SliceStable(ts, func(i, j int) bool {
		return Before(ts[i].TransactionDate, ts[i].Seq, ts[j].TransactionDate, ts[j].Seq)
	})
}
