package elsewhere

import (
	"context"
	"errors"
	"time"
)

var ErrUserNotFound = errors.New("user not found")

type UserId int64

// Profile owner. Users are created by the external identity system.
type User struct {
	Id        UserId
	CreatedAt time.Time
	Username  string
	Roles     Roles
}

type UserStore interface {
	ById(ctx context.Context, userId UserId) (User, error)
}
