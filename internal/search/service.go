package search

import (
	"context"
	"errors"
	"fmt"

	"SearchAPI/internal/query"
	"SearchAPI/internal/registry"
)

var ErrUnknownEntity = errors.New("unknown entity")

// BackendFactory returns the backend that stores entity e.
type BackendFactory[T any] func(e *registry.Entity) Backend[T]

// Service binds the registry to a backend factory so callers search by entity name.
type Service[T any] struct {
	reg     *registry.Registry
	backend BackendFactory[T]
}

func NewService[T any](reg *registry.Registry, backend BackendFactory[T]) *Service[T] {
	return &Service[T]{reg: reg, backend: backend}
}

// Entity returns the registered entity or ErrUnknownEntity.
func (s *Service[T]) Entity(name string) (*registry.Entity, error) {
	e, ok := s.reg.Get(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownEntity, name)
	}
	return e, nil
}

// SearchEntity runs Search with the whitelist and backend registered for entity.
func (s *Service[T]) SearchEntity(ctx context.Context, entity string, req *query.Request) (*Page[T], error) {
	e, err := s.Entity(entity)
	if err != nil {
		return nil, err
	}
	return Search(ctx, req, e.Whitelist, s.backend(e))
}

// Explain compiles req for entity without executing it.
func (s *Service[T]) Explain(entity string, req *query.Request) (*registry.Entity, query.Plan, error) {
	e, err := s.Entity(entity)
	if err != nil {
		return nil, query.Plan{}, err
	}
	plan, err := Compile(req, e.Whitelist)
	return e, plan, err
}

// Registry exposes the entities the service can search.
func (s *Service[T]) Registry() *registry.Registry {
	return s.reg
}
