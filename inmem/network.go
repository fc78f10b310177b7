package inmem

import (
	"context"
	"sync"

	"github.com/buzkaaclicker/elsewhere"
)

type NetworkStore struct {
	// Invalidated after every Save, may be nil.
	Cache elsewhere.CacheInvalidator

	lastId   int64
	networks map[elsewhere.NetworkKind][]elsewhere.Network
	mutex    sync.RWMutex
}

var _ elsewhere.NetworkStore = (*NetworkStore)(nil)

func NewNetworkStore() *NetworkStore {
	return &NetworkStore{
		networks: make(map[elsewhere.NetworkKind][]elsewhere.Network),
	}
}

func (s *NetworkStore) Networks(ctx context.Context, kind elsewhere.NetworkKind) ([]elsewhere.Network, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	networks := make([]elsewhere.Network, len(s.networks[kind]))
	copy(networks, s.networks[kind])
	return networks, nil
}

func (s *NetworkStore) ByName(ctx context.Context, kind elsewhere.NetworkKind, name string) (elsewhere.Network, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	for _, n := range s.networks[kind] {
		if n.Name == name {
			return n, nil
		}
	}
	return elsewhere.Network{}, elsewhere.ErrNetworkNotFound
}

func (s *NetworkStore) CreateIfAbsent(ctx context.Context, network elsewhere.Network) (bool, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	for _, n := range s.networks[network.Kind] {
		if n.Name == network.Name {
			return false, nil
		}
	}
	s.insert(network)
	return true, nil
}

func (s *NetworkStore) Save(ctx context.Context, network elsewhere.Network) (elsewhere.Network, error) {
	saved, err := s.save(network)
	if err != nil {
		return elsewhere.Network{}, err
	}
	if s.Cache != nil {
		if err := s.Cache.Invalidate(ctx, saved.Kind); err != nil {
			return saved, err
		}
	}
	return saved, nil
}

func (s *NetworkStore) save(network elsewhere.Network) (elsewhere.Network, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if network.Id == 0 {
		return s.insert(network), nil
	}
	networks := s.networks[network.Kind]
	for i, n := range networks {
		if n.Id == network.Id {
			networks[i] = network
			return network, nil
		}
	}
	return elsewhere.Network{}, elsewhere.ErrNetworkNotFound
}

func (s *NetworkStore) insert(network elsewhere.Network) elsewhere.Network {
	s.lastId++
	network.Id = s.lastId
	s.networks[network.Kind] = append(s.networks[network.Kind], network)
	return network
}
