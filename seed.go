package elsewhere

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
)

// Entry of the static network list inserted after migrations.
type NetworkDefault struct {
	Name       string
	Url        string
	Icon       string
	Identifier string
}

func (d NetworkDefault) Network(kind NetworkKind) Network {
	return Network{
		Kind:       kind,
		Name:       d.Name,
		Url:        d.Url,
		Identifier: d.Identifier,
		Icon:       d.Icon,
	}
}

// SeedNetworks creates every default network missing (by name) from the store.
// Existing records are never updated. Cache of the kind is invalidated once,
// only when something was created.
func SeedNetworks(ctx context.Context, store NetworkStore, invalidator CacheInvalidator,
	kind NetworkKind, defaults []NetworkDefault) (int, error) {
	if !kind.Valid() {
		return 0, fmt.Errorf("%w: %q", ErrInvalidNetworkKind, kind)
	}

	created := 0
	for _, d := range defaults {
		ok, err := store.CreateIfAbsent(ctx, d.Network(kind))
		if err != nil {
			return created, fmt.Errorf("create network %q: %w", d.Name, err)
		}
		if ok {
			created++
		}
	}

	if created > 0 {
		if err := invalidator.Invalidate(ctx, kind); err != nil {
			return created, fmt.Errorf("invalidate cache: %w", err)
		}
	}
	logrus.
		WithField("network_kind", kind).
		WithField("created", created).
		Infoln("Networks seeded.")
	return created, nil
}

// Seeds social and instant messenger networks with the built-in defaults.
func SeedAllNetworks(ctx context.Context, store NetworkStore, invalidator CacheInvalidator) error {
	lists := map[NetworkKind][]NetworkDefault{
		NetworkKindSocial:           DefaultSocialNetworks,
		NetworkKindInstantMessenger: DefaultInstantMessengers,
	}
	for _, kind := range NetworkKinds {
		if _, err := SeedNetworks(ctx, store, invalidator, kind, lists[kind]); err != nil {
			return fmt.Errorf("seed %s networks: %w", kind, err)
		}
	}
	return nil
}
