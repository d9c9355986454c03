package controller

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"
	"sync"
)

// MemoryDB is an in-process DB implementation. It backs tests and
// development setups; deployments use the Postgres document store.
type MemoryDB[M any] struct {
	mu          sync.RWMutex
	collections map[string][]M
}

func NewMemoryDB[M any]() *MemoryDB[M] {
	return &MemoryDB[M]{collections: make(map[string][]M)}
}

var _ DB[struct{}] = (*MemoryDB[struct{}])(nil)

func (m *MemoryDB[M]) Query(_ context.Context, opts QueryOptions) (*Result[M], error) {
	if opts.GroupBy != "" || opts.Having != nil {
		return nil, ErrUnsupportedOption
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []M
	for _, rec := range m.collections[opts.Collection] {
		ok, err := matches(rec, opts.Where)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, rec)
		}
	}
	return NewResult(out), nil
}

func (m *MemoryDB[M]) Insert(_ context.Context, models []M, opts QueryOptions) (*Result[M], error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.collections[opts.Collection] = append(m.collections[opts.Collection], models...)
	return NewResult(models), nil
}

func (m *MemoryDB[M]) Update(_ context.Context, model M, opts QueryOptions) (*Result[M], error) {
	if opts.Where == nil {
		return nil, fmt.Errorf("controller: update requires a where condition")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	var updated []M
	records := m.collections[opts.Collection]
	for i, rec := range records {
		ok, err := matches(rec, opts.Where)
		if err != nil {
			return nil, err
		}
		if ok {
			records[i] = model
			updated = append(updated, model)
		}
	}
	return NewResult(updated), nil
}

func (m *MemoryDB[M]) Delete(_ context.Context, opts QueryOptions) (*Result[M], error) {
	if opts.Where == nil {
		return nil, fmt.Errorf("controller: delete requires a where condition")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	var kept, removed []M
	for _, rec := range m.collections[opts.Collection] {
		ok, err := matches(rec, opts.Where)
		if err != nil {
			return nil, err
		}
		if ok {
			removed = append(removed, rec)
		} else {
			kept = append(kept, rec)
		}
	}
	m.collections[opts.Collection] = kept
	return NewResult(removed), nil
}

// matches evaluates cond against the model's JSON document form, so
// field names line up with what the Postgres store persists.
func matches[M any](model M, cond *Condition) (bool, error) {
	if cond == nil {
		return true, nil
	}

	raw, err := json.Marshal(model)
	if err != nil {
		return false, fmt.Errorf("controller: encode model: %w", err)
	}
	var doc map[string]any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return false, fmt.Errorf("controller: decode model: %w", err)
	}

	got, ok := doc[cond.Field]
	if !ok {
		return false, nil
	}
	return compare(got, cond.Operator, cond.Value)
}

func compare(got any, operator string, want any) (bool, error) {
	// Normalize want through JSON so numeric types line up with the
	// document form (float64).
	raw, err := json.Marshal(want)
	if err != nil {
		return false, fmt.Errorf("controller: encode condition value: %w", err)
	}
	var norm any
	if err := json.Unmarshal(raw, &norm); err != nil {
		return false, fmt.Errorf("controller: decode condition value: %w", err)
	}

	switch operator {
	case "=":
		return reflect.DeepEqual(got, norm), nil
	case "!=":
		return !reflect.DeepEqual(got, norm), nil
	case "<", "<=", ">", ">=":
		return compareOrdered(got, operator, norm)
	default:
		return false, fmt.Errorf("controller: unknown operator %q", operator)
	}
}

func compareOrdered(got any, operator string, want any) (bool, error) {
	gf, gok := got.(float64)
	wf, wok := want.(float64)
	if gok && wok {
		return orderedResult(operator, gf < wf, gf == wf), nil
	}

	gs, gok := got.(string)
	ws, wok := want.(string)
	if gok && wok {
		return orderedResult(operator, gs < ws, gs == ws), nil
	}

	return false, fmt.Errorf("controller: operator %q needs comparable values", operator)
}

func orderedResult(operator string, less, equal bool) bool {
	switch operator {
	case "<":
		return less
	case "<=":
		return less || equal
	case ">":
		return !less && !equal
	default: // >=
		return !less
	}
}
