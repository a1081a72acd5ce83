package domain

import (
	"context"
	"fmt"
	"sync"
)

// Processing steps for newly arrived amounts.
const (
	StepSettle  = "settle"
	StepReverse = "reverse"
)

// AmountProcessor handles one processing step for an arrived amount.
type AmountProcessor interface {
	Process(ctx context.Context, amount *IncomingAmount) error
}

// ProcessorFunc adapts a function to AmountProcessor.
type ProcessorFunc func(ctx context.Context, amount *IncomingAmount) error

func (f ProcessorFunc) Process(ctx context.Context, amount *IncomingAmount) error {
	return f(ctx, amount)
}

// ProcessorRegistry holds exactly one processor per step type. It is
// constructed once at process start and passed to the intake gate.
type ProcessorRegistry struct {
	mu         sync.RWMutex
	processors map[string]AmountProcessor
}

// NewProcessorRegistry creates an empty registry.
func NewProcessorRegistry() *ProcessorRegistry {
	return &ProcessorRegistry{processors: make(map[string]AmountProcessor)}
}

// Register adds a processor for a step. A second registration for the same
// step fails.
func (r *ProcessorRegistry) Register(step string, p AmountProcessor) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.processors[step]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicateProcessor, step)
	}

	r.processors[step] = p

	return nil
}

// Lookup returns the processor for a step.
func (r *ProcessorRegistry) Lookup(step string) (AmountProcessor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.processors[step]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownProcessor, step)
	}

	return p, nil
}

// StepFor selects the processing step for an arrived amount: debit entries
// go to the reversal resolver, credit entries to the matching engine.
func StepFor(a *IncomingAmount) string {
	if a.DebCred == Debit {
		return StepReverse
	}

	return StepSettle
}
