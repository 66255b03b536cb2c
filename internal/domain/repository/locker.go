package repository

import "context"

// KeyLocker bloqueo exclusivo por clave de cadena, retenido hasta el fin de la transacción.
// Las claves se adquieren en el orden dado; los llamadores las pasan ordenadas.
type KeyLocker interface {
	LockKeys(ctx context.Context, keys ...string) error
}

// TxRepos repositorios atados a una misma transacción.
type TxRepos struct {
	Movements    StockMovementRepository
	Materials    MaterialRepository
	Units        UnitRepository
	Warehouses   WarehouseRepository
	Accounts     CurrentAccountRepository
	Transactions AccountTransactionRepository
	Locker       KeyLocker
}
