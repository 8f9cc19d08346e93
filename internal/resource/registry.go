package resource

import (
	"context"
	"fmt"

	"notielf/internal/domain/models"
)

// Hook signatures. Hooks are the only place row-level authorization happens:
// a select/update/delete hook injects caller scoping into the query's where
// map, a create hook stamps ownership columns onto the payload. The caller
// identity is always passed explicitly; hooks never read ambient state.
type (
	// SelectHook mutates the query before a select, update or delete.
	// id is the row id from the URL, or zero for list operations.
	SelectHook func(ident *models.Identity, q *Query, id int64) error

	// CreateHook mutates the whitelisted payload before an insert.
	CreateHook func(ident *models.Identity, payload map[string]any) error

	// AfterCreateHook runs after an insert, inside the same transaction.
	// raw is the original unfiltered request body, created the inserted row.
	AfterCreateHook func(ctx context.Context, ident *models.Identity, raw, created map[string]any) error

	// SelectFunc replaces the generic query builder for a resource whose
	// select is a registered function name (computed/joined reads).
	SelectFunc func(ctx context.Context, ident *models.Identity, id int64) (any, error)

	// ActionFunc is a named RPC-style POST action with its own SQL and
	// side effects.
	ActionFunc func(ctx context.Context, ident *models.Identity, body map[string]any) (any, error)
)

// Registry maps hook, select-function and action names to typed
// implementations. Resource configs reference these by name and are bound
// once at startup; an unknown name is a startup error, so a resource can
// never silently run unscoped.
type Registry struct {
	selectHooks  map[string]SelectHook
	createHooks  map[string]CreateHook
	afterCreates map[string]AfterCreateHook
	selectFuncs  map[string]SelectFunc
	actions      map[string]ActionFunc
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{
		selectHooks:  make(map[string]SelectHook),
		createHooks:  make(map[string]CreateHook),
		afterCreates: make(map[string]AfterCreateHook),
		selectFuncs:  make(map[string]SelectFunc),
		actions:      make(map[string]ActionFunc),
	}
}

func (r *Registry) RegisterSelectHook(name string, h SelectHook) {
	r.selectHooks[name] = h
}

func (r *Registry) RegisterCreateHook(name string, h CreateHook) {
	r.createHooks[name] = h
}

func (r *Registry) RegisterAfterCreateHook(name string, h AfterCreateHook) {
	r.afterCreates[name] = h
}

func (r *Registry) RegisterSelectFunc(name string, f SelectFunc) {
	r.selectFuncs[name] = f
}

func (r *Registry) RegisterAction(name string, a ActionFunc) {
	r.actions[name] = a
}

func (r *Registry) selectHook(name string) (SelectHook, error) {
	if name == "" {
		return nil, nil
	}
	h, ok := r.selectHooks[name]
	if !ok {
		return nil, fmt.Errorf("unknown select hook %q", name)
	}
	return h, nil
}

func (r *Registry) createHook(name string) (CreateHook, error) {
	if name == "" {
		return nil, nil
	}
	h, ok := r.createHooks[name]
	if !ok {
		return nil, fmt.Errorf("unknown create hook %q", name)
	}
	return h, nil
}

func (r *Registry) afterCreateHook(name string) (AfterCreateHook, error) {
	if name == "" {
		return nil, nil
	}
	h, ok := r.afterCreates[name]
	if !ok {
		return nil, fmt.Errorf("unknown after-create hook %q", name)
	}
	return h, nil
}

func (r *Registry) selectFunc(name string) (SelectFunc, error) {
	f, ok := r.selectFuncs[name]
	if !ok {
		return nil, fmt.Errorf("unknown select function %q", name)
	}
	return f, nil
}

func (r *Registry) action(name string) (ActionFunc, error) {
	a, ok := r.actions[name]
	if !ok {
		return nil, fmt.Errorf("unknown action %q", name)
	}
	return a, nil
}
