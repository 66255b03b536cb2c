package document

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jhoicas/Backoffice-ledger/internal/domain"
	"github.com/jhoicas/Backoffice-ledger/pkg/logger"
)

// Propagator pool acotado que llama a RecipeCostTrigger después del commit.
// Sus fallos se registran y nunca afectan a la mutación que los originó.
type Propagator struct {
	trigger RecipeCostTrigger
	timeout time.Duration
	log     *logger.Logger

	mu     sync.RWMutex
	closed bool
	queue  chan string
	wg     sync.WaitGroup

	failures atomic.Int64
	dropped  atomic.Int64
}

// NewPropagator arranca workers que consumen una cola de tamaño queueSize.
func NewPropagator(trigger RecipeCostTrigger, workers, queueSize int, timeout time.Duration, log *logger.Logger) *Propagator {
	if workers < 1 {
		workers = 1
	}
	if queueSize < 1 {
		queueSize = 1
	}
	p := &Propagator{
		trigger: trigger,
		timeout: timeout,
		log:     log.Named("recipe-cost"),
		queue:   make(chan string, queueSize),
	}
	for i := 0; i < workers; i++ {
		p.wg.Add(1)
		go p.work()
	}
	return p
}

// Dispatch encola sin bloquear; si la cola está llena el disparo se descarta y se registra.
func (p *Propagator) Dispatch(materialIDs ...string) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	for _, id := range materialIDs {
		if p.closed {
			p.dropped.Add(1)
			continue
		}
		select {
		case p.queue <- id:
		default:
			p.dropped.Add(1)
			p.log.Error().
				Err(fmt.Errorf("%w: cola llena", domain.ErrPropagationFailure)).
				Str("material_id", id).
				Msg("disparo de costo de recetas descartado")
		}
	}
}

// Close deja de aceptar disparos y espera a que se vacíe la cola.
func (p *Propagator) Close() {
	p.mu.Lock()
	if !p.closed {
		p.closed = true
		close(p.queue)
	}
	p.mu.Unlock()
	p.wg.Wait()
}

// Failures número de disparos que fallaron.
func (p *Propagator) Failures() int64 { return p.failures.Load() }

// Dropped número de disparos descartados sin ejecutarse.
func (p *Propagator) Dropped() int64 { return p.dropped.Load() }

func (p *Propagator) work() {
	defer p.wg.Done()
	for id := range p.queue {
		if err := p.fire(id); err != nil {
			p.failures.Add(1)
			p.log.Error().Err(err).Str("material_id", id).Msg("propagación de costo de recetas")
		}
	}
}

func (p *Propagator) fire(materialID string) (err error) {
	ctx := context.Background()
	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: panic: %v", domain.ErrPropagationFailure, r)
		}
	}()
	if err := p.trigger.TriggerRecipeCost(ctx, materialID); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrPropagationFailure, err)
	}
	return nil
}

// LoggingRecipeCostTrigger implementación por defecto: deja constancia del disparo en el log
// para que el job de recetas lo procese.
type LoggingRecipeCostTrigger struct {
	log *logger.Logger
}

// NewLoggingRecipeCostTrigger construye el trigger.
func NewLoggingRecipeCostTrigger(log *logger.Logger) *LoggingRecipeCostTrigger {
	return &LoggingRecipeCostTrigger{log: log.Named("recipe-cost-trigger")}
}

// TriggerRecipeCost implementa RecipeCostTrigger.
func (t *LoggingRecipeCostTrigger) TriggerRecipeCost(_ context.Context, materialID string) error {
	t.log.Info().Str("material_id", materialID).Msg("recálculo de costo de recetas solicitado")
	return nil
}
