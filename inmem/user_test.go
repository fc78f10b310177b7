package inmem

import (
	"context"
	"testing"

	"github.com/buzkaaclicker/elsewhere"
	"github.com/stretchr/testify/assert"
)

func TestUserStore(t *testing.T) {
	ctx := context.Background()
	assert := assert.New(t)

	s := NewUserStore()
	_, err := s.ById(ctx, 1)
	assert.Equal(elsewhere.ErrUserNotFound, err)

	u, err := s.Register(ctx, "indecorum", elsewhere.RoleIdAdmin, elsewhere.RoleId("UNDEFINED role"))
	if !assert.NoError(err) {
		return
	}
	assert.Equal(elsewhere.Roles{elsewhere.AllRoles[elsewhere.RoleIdAdmin]}, u.Roles)

	ufound, err := s.ById(ctx, u.Id)
	if !assert.NoError(err) {
		return
	}
	assert.Equal(u, ufound)
}
