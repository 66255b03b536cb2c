package document

import (
	"context"
	"errors"

	"github.com/jhoicas/Backoffice-ledger/internal/application/account"
	"github.com/jhoicas/Backoffice-ledger/internal/application/inventory"
	"github.com/jhoicas/Backoffice-ledger/internal/domain"
	"github.com/jhoicas/Backoffice-ledger/internal/domain/entity"
	"github.com/jhoicas/Backoffice-ledger/internal/domain/repository"
	"github.com/jhoicas/Backoffice-ledger/pkg/logger"
)

// Orchestrator coordina ambos ledgers para una mutación de factura:
// retracción -> conversión -> escritura -> recálculo -> agregados, todo en una transacción,
// y luego el disparo (fuera de la transacción) del costo de recetas.
type Orchestrator struct {
	txRunner   inventory.TxRunner
	dispatcher Dispatcher
	maxRetries int
	log        *logger.Logger
}

// NewOrchestrator construye el orquestador. dispatcher puede ser nil.
func NewOrchestrator(txRunner inventory.TxRunner, dispatcher Dispatcher, maxRetries int, log *logger.Logger) *Orchestrator {
	return &Orchestrator{
		txRunner:   txRunner,
		dispatcher: dispatcher,
		maxRetries: maxRetries,
		log:        log.Named("orchestrator"),
	}
}

// ApplyDocumentMutation aplica CREATE, EDIT o DELETE de un documento. Si la transacción choca con
// otra mutación sobre la misma clave (ErrConcurrentMutation) se reintenta completa desde la retracción.
func (o *Orchestrator) ApplyDocumentMutation(ctx context.Context, in entity.DocumentMutation) (*entity.AggregateUpdateResult, error) {
	if err := Validate(in); err != nil {
		return nil, err
	}

	var (
		m   *mutation
		err error
	)
	for attempt := 0; ; attempt++ {
		m, err = o.apply(ctx, in)
		if err == nil {
			break
		}
		if errors.Is(err, domain.ErrConcurrentMutation) && attempt < o.maxRetries {
			o.log.Warn().Err(err).
				Str("document_id", in.DocumentID).
				Int("attempt", attempt+1).
				Msg("conflicto de concurrencia, reintentando")
			continue
		}
		o.log.Warn().Err(err).
			Str("document_id", in.DocumentID).
			Str("kind", in.Kind).
			Msg("mutación de documento rechazada")
		return nil, err
	}

	if len(m.propagate) > 0 && o.dispatcher != nil {
		o.dispatcher.Dispatch(m.propagate...)
	}
	o.log.Info().
		Str("document_id", in.DocumentID).
		Str("kind", in.Kind).
		Str("type", m.docType).
		Int("retracted", m.result.RetractedMovements).
		Int("movements", len(m.result.Movements)).
		Int("materials", len(m.result.Materials)).
		Msg("mutación de documento aplicada")
	return m.result, nil
}

func (o *Orchestrator) apply(ctx context.Context, in entity.DocumentMutation) (*mutation, error) {
	var m *mutation
	err := o.txRunner.Run(ctx, func(ctx context.Context, repos repository.TxRepos) error {
		m = &mutation{
			in:         in,
			repos:      repos,
			movements:  inventory.NewMovementLedger(repos),
			accounts:   account.NewLedger(repos),
			aggregator: inventory.NewAggregator(repos),
			result:     &entity.AggregateUpdateResult{DocumentID: in.DocumentID, Kind: in.Kind},
		}
		steps := []func(context.Context) error{m.prepare, m.lock, m.retract, m.write, m.aggregate}
		for _, step := range steps {
			if err := step(ctx); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return m, nil
}
