package elsewhere

import (
	"context"
	"errors"
	"fmt"
	"sort"
)

var (
	ErrNetworkNotFound    = errors.New("network not found")
	ErrInvalidNetworkKind = errors.New("invalid network kind")
	// Reference table is not reachable yet, e.g. migrations did not run.
	ErrStoreNotReady = errors.New("network store not ready")
	// Profile points at a network id missing from the reference cache.
	ErrMissingReference = errors.New("missing network reference")
	// Another record of the same kind already has the network's slug.
	ErrNetworkIdTaken = errors.New("network id taken")
)

type NetworkKind string

const (
	NetworkKindSocial           NetworkKind = "social"
	NetworkKindInstantMessenger NetworkKind = "im"
)

var NetworkKinds = []NetworkKind{NetworkKindSocial, NetworkKindInstantMessenger}

func ParseNetworkKind(s string) (NetworkKind, error) {
	kind := NetworkKind(s)
	if !kind.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidNetworkKind, s)
	}
	return kind, nil
}

func (k NetworkKind) Valid() bool {
	return k == NetworkKindSocial || k == NetworkKindInstantMessenger
}

// Key of the denormalized network data in the cache backend.
func (k NetworkKind) CacheKey() string {
	switch k {
	case NetworkKindSocial:
		return "elsewhere_sn_data"
	case NetworkKindInstantMessenger:
		return "elsewhere_im_data"
	default:
		panic("unknown network kind: `" + string(k) + "`")
	}
}

// Known external network e.g. Twitter or Skype.
type Network struct {
	Id   int64
	Kind NetworkKind
	Name string
	// Profile url template with a single %s placeholder for the username.
	Url        string
	Identifier string
	// Icon file name, blank when the favicon service should be used.
	Icon string
}

// Cached view of a Network keyed by its slug.
type NetworkData struct {
	Id         string `json:"id"`
	Name       string `json:"name"`
	Url        string `json:"url"`
	Identifier string `json:"identifier,omitempty"`
	Icon       string `json:"icon"`
}

func (n Network) Data() NetworkData {
	data := NetworkData{
		Id:   Slugify(n.Name),
		Name: n.Name,
		Url:  n.Url,
		Icon: n.Icon,
	}
	// im networks never exposed their identifier
	if n.Kind == NetworkKindSocial {
		data.Identifier = n.Identifier
	}
	return data
}

type NetworkMap map[string]NetworkData

func NewNetworkMap(networks []Network) NetworkMap {
	m := make(NetworkMap, len(networks))
	for _, n := range networks {
		data := n.Data()
		m[data.Id] = data
	}
	return m
}

// Returns ErrNetworkIdTaken when a record other than network itself
// maps to the same slug.
func CheckNetworkIdFree(networks []Network, network Network) error {
	id := Slugify(network.Name)
	for _, other := range networks {
		if other.Id != network.Id && Slugify(other.Name) == id {
			return fmt.Errorf("%w: %q used by %s", ErrNetworkIdTaken, id, other.Name)
		}
	}
	return nil
}

func (m NetworkMap) Lookup(networkId string) (NetworkData, error) {
	data, ok := m[networkId]
	if !ok {
		return NetworkData{}, fmt.Errorf("%w: %q", ErrMissingReference, networkId)
	}
	return data, nil
}

// Entries sorted by display name.
func (m NetworkMap) Sorted() []NetworkData {
	entries := make([]NetworkData, 0, len(m))
	for _, data := range m {
		entries = append(entries, data)
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Name == entries[j].Name {
			return entries[i].Id < entries[j].Id
		}
		return entries[i].Name < entries[j].Name
	})
	return entries
}

type Choice struct {
	Id   string `json:"id"`
	Name string `json:"name"`
}

func (m NetworkMap) Choices() []Choice {
	sorted := m.Sorted()
	choices := make([]Choice, len(sorted))
	for i, data := range sorted {
		choices[i] = Choice{Id: data.Id, Name: data.Name}
	}
	return choices
}

type CacheInvalidator interface {
	Invalidate(ctx context.Context, kind NetworkKind) error
}

type NetworkStore interface {
	// All reference records of given kind. Returns ErrStoreNotReady if
	// the underlying table does not exist yet.
	Networks(ctx context.Context, kind NetworkKind) ([]Network, error)

	ByName(ctx context.Context, kind NetworkKind, name string) (Network, error)

	// Create network unless one with the same name exists. Existing records
	// are left untouched and no cache invalidation happens.
	CreateIfAbsent(ctx context.Context, network Network) (bool, error)

	// Create (Id == 0) or update network and invalidate cache of its kind.
	Save(ctx context.Context, network Network) (Network, error)
}
