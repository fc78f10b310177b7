package mock

import (
	"context"

	"github.com/buzkaaclicker/elsewhere"
)

type UserStore struct {
	ByIdFn func(ctx context.Context, userId elsewhere.UserId) (elsewhere.User, error)
}

func (s UserStore) ById(ctx context.Context, userId elsewhere.UserId) (elsewhere.User, error) {
	return s.ByIdFn(ctx, userId)
}
