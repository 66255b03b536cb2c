package memory

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"

	"github.com/jhoicas/Backoffice-ledger/internal/domain"
	"github.com/jhoicas/Backoffice-ledger/internal/domain/entity"
	"github.com/jhoicas/Backoffice-ledger/internal/domain/repository"
)

// Seed datos de referencia con los que arranca el store en memoria: unidades, bodegas,
// materiales y cuentas con saldo inicial. Los decimales van como texto para no perder precisión.
type Seed struct {
	Units []struct {
		ID     string `mapstructure:"id"`
		Name   string `mapstructure:"name"`
		Symbol string `mapstructure:"symbol"`
		Base   string `mapstructure:"base"`
		Factor string `mapstructure:"factor"`
	} `mapstructure:"units"`
	Warehouses []struct {
		ID       string `mapstructure:"id"`
		BranchID string `mapstructure:"branch_id"`
		Name     string `mapstructure:"name"`
	} `mapstructure:"warehouses"`
	Materials []struct {
		ID              string `mapstructure:"id"`
		Name            string `mapstructure:"name"`
		PurchaseUnit    string `mapstructure:"purchase_unit"`
		ConsumptionUnit string `mapstructure:"consumption_unit"`
	} `mapstructure:"materials"`
	Accounts []struct {
		CounterpartyID   string `mapstructure:"counterparty_id"`
		CounterpartyType string `mapstructure:"counterparty_type"`
		Name             string `mapstructure:"name"`
		OpeningBalance   string `mapstructure:"opening_balance"`
	} `mapstructure:"accounts"`
}

// ReadSeed lee un archivo de semilla (yaml, json o toml según la extensión).
func ReadSeed(path string) (*Seed, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("leer semilla %s: %w", path, err)
	}
	var seed Seed
	if err := v.Unmarshal(&seed); err != nil {
		return nil, fmt.Errorf("decodificar semilla %s: %w", path, err)
	}
	return &seed, nil
}

// Apply carga la semilla en una sola transacción: si algún registro es inválido el store queda como estaba.
// Las unidades base deben aparecer antes que las derivadas.
func (s *Seed) Apply(ctx context.Context, store *Store) error {
	return store.Run(ctx, func(ctx context.Context, repos repository.TxRepos) error {
		for _, u := range s.Units {
			factor, err := seedDecimal(u.Factor, decimal.NewFromInt(1))
			if err != nil {
				return fmt.Errorf("unidad %s: %w", u.ID, err)
			}
			unit := &entity.Unit{ID: u.ID, Name: u.Name, Symbol: u.Symbol, ConversionFactor: factor}
			if u.Base != "" && u.Base != u.ID {
				base, err := repos.Units.GetByID(ctx, u.Base)
				if err != nil {
					return err
				}
				if base == nil {
					return fmt.Errorf("%w: unidad base %s de %s", domain.ErrUnknownEntity, u.Base, u.ID)
				}
				unit.BaseUnitID = &base.ID
			}
			if err := repos.Units.Create(ctx, unit); err != nil {
				return err
			}
		}
		for _, w := range s.Warehouses {
			if err := repos.Warehouses.Create(ctx, &entity.Warehouse{ID: w.ID, BranchID: w.BranchID, Name: w.Name}); err != nil {
				return err
			}
		}
		for _, m := range s.Materials {
			material := &entity.Material{ID: m.ID, Name: m.Name, PurchaseUnitID: m.PurchaseUnit, ConsumptionUnitID: m.ConsumptionUnit}
			if err := repos.Materials.Create(ctx, material); err != nil {
				return err
			}
		}
		for _, a := range s.Accounts {
			opening, err := seedDecimal(a.OpeningBalance, decimal.Zero)
			if err != nil {
				return fmt.Errorf("cuenta %s: %w", a.CounterpartyID, err)
			}
			kind := a.CounterpartyType
			if kind == "" {
				kind = entity.CounterpartySupplier
			}
			account := &entity.CurrentAccount{
				CounterpartyID:   a.CounterpartyID,
				CounterpartyType: kind,
				Name:             a.Name,
				OpeningBalance:   opening,
				CurrentBalance:   opening,
			}
			if err := repos.Accounts.Create(ctx, account); err != nil {
				return err
			}
		}
		return nil
	})
}

func seedDecimal(raw string, def decimal.Decimal) (decimal.Decimal, error) {
	if raw == "" {
		return def, nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: decimal %q", domain.ErrInvalidInput, raw)
	}
	return d, nil
}
