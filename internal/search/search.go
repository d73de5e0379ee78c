// Package search runs whitelist-checked paginated searches against a backend.
package search

import (
	"context"
	"errors"

	"SearchAPI/internal/logger"
	"SearchAPI/internal/query"
)

// Backend executes a plan against storage. Implementations resolve field
// names to columns at runtime and must honour every predicate node.
type Backend[T any] interface {
	Execute(ctx context.Context, plan query.Plan) (items []T, total int64, err error)
}

// BackendFunc adapts a function to Backend.
type BackendFunc[T any] func(ctx context.Context, plan query.Plan) ([]T, int64, error)

func (f BackendFunc[T]) Execute(ctx context.Context, plan query.Plan) ([]T, int64, error) {
	return f(ctx, plan)
}

// ValidationError is returned for requests that break paging or whitelist rules.
type ValidationError = query.ValidationError

// ExecutionError wraps a backend failure. It is not a client error.
type ExecutionError struct {
	Err error
}

func (e *ExecutionError) Error() string {
	return "failed to execute search query: " + e.Err.Error()
}

func (e *ExecutionError) Unwrap() error { return e.Err }

// Compile normalizes req, validates it against w and builds the plan a
// backend would execute. Every violation is reported in one *ValidationError.
func Compile(req *query.Request, w *query.Whitelist) (query.Plan, error) {
	params := req.Normalize()

	if err := query.Validate(params, w); err != nil {
		logger.Debug("search_rejected", map[string]any{"error": err.Error()})
		return query.Plan{}, err
	}

	pred, err := query.BuildPredicate(params, w)
	if err != nil {
		return query.Plan{}, err
	}
	return query.Plan{
		Predicate: pred,
		Sort:      query.BuildSort(params.Sorts, w),
		Page:      params.Page,
		Size:      params.Size,
	}, nil
}

// Search compiles req and runs the plan on backend. The backend is only
// called for valid requests; its failures are returned once as *ExecutionError.
func Search[T any](ctx context.Context, req *query.Request, w *query.Whitelist, backend Backend[T]) (*Page[T], error) {
	plan, err := Compile(req, w)
	if err != nil {
		return nil, err
	}

	if backend == nil {
		return nil, &ExecutionError{Err: errors.New("no backend configured")}
	}
	items, total, err := backend.Execute(ctx, plan)
	if err != nil {
		logger.Error("search_execute_failed", map[string]any{
			"predicate": plan.Predicate.String(),
			"error":     err.Error(),
		})
		return nil, &ExecutionError{Err: err}
	}
	return NewPage(items, plan.Page, plan.Size, total), nil
}
