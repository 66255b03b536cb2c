package inventory

import (
	"context"
	"fmt"

	"github.com/jhoicas/Backoffice-ledger/internal/domain"
	"github.com/jhoicas/Backoffice-ledger/internal/domain/entity"
	domaininv "github.com/jhoicas/Backoffice-ledger/internal/domain/inventory"
	"github.com/jhoicas/Backoffice-ledger/internal/domain/repository"
)

// LoadUnitGraph carga las unidades pedidas y sus cadenas de unidad base.
func LoadUnitGraph(ctx context.Context, units repository.UnitRepository, ids ...string) (domaininv.UnitGraph, error) {
	loaded := make([]*entity.Unit, 0, len(ids)*2)
	seen := make(map[string]bool)
	for _, id := range ids {
		current := id
		for hop := 0; current != "" && !seen[current] && hop < 8; hop++ {
			seen[current] = true
			u, err := units.GetByID(ctx, current)
			if err != nil {
				return nil, fmt.Errorf("get unit %s: %w", current, err)
			}
			if u == nil {
				return nil, fmt.Errorf("%w: unidad %s", domain.ErrUnknownEntity, current)
			}
			loaded = append(loaded, u)
			if u.IsBase() {
				break
			}
			current = *u.BaseUnitID
		}
	}
	return domaininv.NewUnitGraph(loaded...), nil
}
