package inmem

import (
	"context"
	"sync"
	"time"

	"github.com/buzkaaclicker/elsewhere"
)

type ProfileStore struct {
	lastId   int64
	profiles map[elsewhere.NetworkKind][]elsewhere.NetworkProfile
	websites []elsewhere.WebsiteProfile
	mutex    sync.RWMutex
}

var _ elsewhere.ProfileStore = (*ProfileStore)(nil)

func NewProfileStore() *ProfileStore {
	return &ProfileStore{
		profiles: make(map[elsewhere.NetworkKind][]elsewhere.NetworkProfile),
	}
}

func (s *ProfileStore) nextId() elsewhere.ProfileId {
	s.lastId++
	return elsewhere.ProfileId(s.lastId)
}

func (s *ProfileStore) AddNetworkProfile(ctx context.Context, profile elsewhere.NetworkProfile) (elsewhere.NetworkProfile, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	now := time.Now().UTC()
	profile.Id = s.nextId()
	profile.DateAdded = now
	profile.DateVerified = now
	profile.IsVerified = false
	s.profiles[profile.Kind] = append(s.profiles[profile.Kind], profile)
	return profile, nil
}

func (s *ProfileStore) NetworkProfiles(ctx context.Context, kind elsewhere.NetworkKind,
	userId elsewhere.UserId) ([]elsewhere.NetworkProfile, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	profiles := make([]elsewhere.NetworkProfile, 0)
	for _, p := range s.profiles[kind] {
		if p.UserId == userId {
			profiles = append(profiles, p)
		}
	}
	return profiles, nil
}

func (s *ProfileStore) DeleteNetworkProfile(ctx context.Context, kind elsewhere.NetworkKind,
	userId elsewhere.UserId, id elsewhere.ProfileId) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	profiles := s.profiles[kind]
	for i, p := range profiles {
		if p.Id == id && p.UserId == userId {
			s.profiles[kind] = append(profiles[:i], profiles[i+1:]...)
			return nil
		}
	}
	return elsewhere.ErrProfileNotFound
}

func (s *ProfileStore) MarkVerified(ctx context.Context, kind elsewhere.NetworkKind,
	id elsewhere.ProfileId, verifiedAt time.Time) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	profiles := s.profiles[kind]
	for i, p := range profiles {
		if p.Id == id {
			profiles[i].IsVerified = true
			profiles[i].DateVerified = verifiedAt
			return nil
		}
	}
	return elsewhere.ErrProfileNotFound
}

func (s *ProfileStore) AddWebsite(ctx context.Context, website elsewhere.WebsiteProfile) (elsewhere.WebsiteProfile, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	website.Id = s.nextId()
	s.websites = append(s.websites, website)
	return website, nil
}

func (s *ProfileStore) Websites(ctx context.Context, userId elsewhere.UserId) ([]elsewhere.WebsiteProfile, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	websites := make([]elsewhere.WebsiteProfile, 0)
	for _, w := range s.websites {
		if w.UserId == userId {
			websites = append(websites, w)
		}
	}
	return websites, nil
}

func (s *ProfileStore) DeleteWebsite(ctx context.Context, userId elsewhere.UserId, id elsewhere.ProfileId) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	for i, w := range s.websites {
		if w.Id == id && w.UserId == userId {
			s.websites = append(s.websites[:i], s.websites[i+1:]...)
			return nil
		}
	}
	return elsewhere.ErrProfileNotFound
}

// Removes all profiles of the user, mirroring the database cascade.
func (s *ProfileStore) DeleteUser(userId elsewhere.UserId) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	for kind, profiles := range s.profiles {
		kept := profiles[:0]
		for _, p := range profiles {
			if p.UserId != userId {
				kept = append(kept, p)
			}
		}
		s.profiles[kind] = kept
	}
	kept := s.websites[:0]
	for _, w := range s.websites {
		if w.UserId != userId {
			kept = append(kept, w)
		}
	}
	s.websites = kept
}
