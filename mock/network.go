package mock

import (
	"context"
	"time"

	"github.com/buzkaaclicker/elsewhere"
)

type NetworkStore struct {
	NetworksFn func(ctx context.Context, kind elsewhere.NetworkKind) ([]elsewhere.Network, error)

	ByNameFn func(ctx context.Context, kind elsewhere.NetworkKind, name string) (elsewhere.Network, error)

	CreateIfAbsentFn func(ctx context.Context, network elsewhere.Network) (bool, error)

	SaveFn func(ctx context.Context, network elsewhere.Network) (elsewhere.Network, error)
}

func (s NetworkStore) Networks(ctx context.Context, kind elsewhere.NetworkKind) ([]elsewhere.Network, error) {
	return s.NetworksFn(ctx, kind)
}

func (s NetworkStore) ByName(ctx context.Context, kind elsewhere.NetworkKind, name string) (elsewhere.Network, error) {
	return s.ByNameFn(ctx, kind, name)
}

func (s NetworkStore) CreateIfAbsent(ctx context.Context, network elsewhere.Network) (bool, error) {
	return s.CreateIfAbsentFn(ctx, network)
}

func (s NetworkStore) Save(ctx context.Context, network elsewhere.Network) (elsewhere.Network, error) {
	return s.SaveFn(ctx, network)
}

type CacheBackend struct {
	GetFn func(ctx context.Context, key string) (string, error)

	GenerationFn func(ctx context.Context, key string) (int64, error)

	SetIfGenerationFn func(ctx context.Context, key string, value string, ttl time.Duration, gen int64) (bool, error)

	InvalidateFn func(ctx context.Context, key string) error
}

func (c CacheBackend) Get(ctx context.Context, key string) (string, error) {
	return c.GetFn(ctx, key)
}

func (c CacheBackend) Generation(ctx context.Context, key string) (int64, error) {
	return c.GenerationFn(ctx, key)
}

func (c CacheBackend) SetIfGeneration(ctx context.Context, key string, value string,
	ttl time.Duration, gen int64) (bool, error) {
	return c.SetIfGenerationFn(ctx, key, value, ttl, gen)
}

func (c CacheBackend) Invalidate(ctx context.Context, key string) error {
	return c.InvalidateFn(ctx, key)
}

type CacheInvalidator struct {
	InvalidateFn func(ctx context.Context, kind elsewhere.NetworkKind) error
}

func (c CacheInvalidator) Invalidate(ctx context.Context, kind elsewhere.NetworkKind) error {
	return c.InvalidateFn(ctx, kind)
}
