package postgres

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jhoicas/Backoffice-ledger/internal/domain"
)

const counterpartyUniqueConstraint = "current_accounts_counterparty_id_key"

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" // unique_violation
	}
	return strings.Contains(err.Error(), "23505")
}

// mapError traduce los códigos de PostgreSQL a la taxonomía de dominio.
// El resto de errores pasa sin cambios.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	switch pgErr.Code {
	case "55P03", "40001", "40P01": // lock_not_available, serialization_failure, deadlock_detected
		return fmt.Errorf("%w: %s", domain.ErrConcurrentMutation, pgErr.Message)
	case "23503": // foreign_key_violation
		return fmt.Errorf("%w: %s", domain.ErrUnknownEntity, pgErr.ConstraintName)
	}
	if isUniqueViolation(err) {
		if pgErr.ConstraintName == counterpartyUniqueConstraint {
			// otra transacción creó la cuenta de la misma contraparte
			return fmt.Errorf("%w: %s", domain.ErrConcurrentMutation, pgErr.ConstraintName)
		}
		return fmt.Errorf("%w: %s", domain.ErrInvalidInput, pgErr.ConstraintName)
	}
	return err
}
