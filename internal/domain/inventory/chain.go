package inventory

import "github.com/shopspring/decimal"

// ChainEntry entrada de una cadena de saldos corrientes (movimiento de stock o transacción de cuenta).
type ChainEntry interface {
	Delta() decimal.Decimal
	Snapshot() (before, after decimal.Decimal)
	SetSnapshot(before, after decimal.Decimal)
}

// RecomputeChain recorre entries (ya ordenadas por fecha y secuencia) acumulando desde baseline,
// reescribe before/after de cada entrada y devuelve las que cambiaron junto al saldo final.
func RecomputeChain[E ChainEntry](entries []E, baseline decimal.Decimal) (changed []E, final decimal.Decimal) {
	running := baseline
	for _, e := range entries {
		after := running.Add(e.Delta())
		oldBefore, oldAfter := e.Snapshot()
		if !oldBefore.Equal(running) || !oldAfter.Equal(after) {
			e.SetSnapshot(running, after)
			changed = append(changed, e)
		}
		running = after
	}
	return changed, running
}

// ChainConsistent verifica before[0] == baseline y after[i] == before[i]+delta[i] == before[i+1].
func ChainConsistent[E ChainEntry](entries []E, baseline decimal.Decimal) bool {
	running := baseline
	for _, e := range entries {
		before, after := e.Snapshot()
		if !before.Equal(running) || !after.Equal(before.Add(e.Delta())) {
			return false
		}
		running = after
	}
	return true
}
