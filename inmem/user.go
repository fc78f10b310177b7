package inmem

import (
	"context"
	"sync"
	"time"

	"github.com/buzkaaclicker/elsewhere"
)

type UserStore struct {
	lastId int64
	users  map[elsewhere.UserId]elsewhere.User
	mutex  sync.RWMutex
}

var _ elsewhere.UserStore = (*UserStore)(nil)

func NewUserStore() *UserStore {
	return &UserStore{
		users: map[elsewhere.UserId]elsewhere.User{},
	}
}

func (s *UserStore) Register(ctx context.Context, username string, roles ...elsewhere.RoleId) (elsewhere.User, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.lastId++
	uid := elsewhere.UserId(s.lastId)
	user := elsewhere.User{
		Id:        uid,
		CreatedAt: time.Now(),
		Username:  username,
		Roles:     elsewhere.RolesByIds(roles),
	}
	s.users[uid] = user
	return user, nil
}

func (s *UserStore) ById(ctx context.Context, userId elsewhere.UserId) (elsewhere.User, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	u, ok := s.users[userId]
	if !ok {
		return u, elsewhere.ErrUserNotFound
	}
	return u, nil
}
