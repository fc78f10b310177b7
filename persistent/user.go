package persistent

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/buzkaaclicker/elsewhere"
	"github.com/uptrace/bun"
)

// Owner of profiles. Rows are written by the identity system,
// deleting one cascades to all of its profiles.
type User struct {
	bun.BaseModel `bun:"table:user"`

	Id         int64              `bun:",pk,autoincrement"`
	CreatedAt  time.Time          `bun:",nullzero,notnull,default:current_timestamp"`
	Username   string             `bun:",notnull"`
	RolesNames []elsewhere.RoleId `bun:",notnull,array"`

	// Mapped (in AfterScanRow hook) roles from RolesNames.
	Roles elsewhere.Roles `bun:"-"`
}

func (u User) ToDomain() elsewhere.User {
	return elsewhere.User{
		Id:        elsewhere.UserId(u.Id),
		CreatedAt: u.CreatedAt,
		Username:  u.Username,
		Roles:     u.Roles,
	}
}

var _ bun.AfterScanRowHook = (*User)(nil)

func (u *User) AfterScanRow(ctx context.Context) error {
	u.Roles = elsewhere.RolesByIds(u.RolesNames)
	return nil
}

type UserStore struct {
	DB *bun.DB
}

var _ elsewhere.UserStore = (*UserStore)(nil)

func (s *UserStore) ById(ctx context.Context, userId elsewhere.UserId) (elsewhere.User, error) {
	user := new(User)
	err := s.DB.NewSelect().
		Model(user).
		Where(`"user"."id"=?`, int64(userId)).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return elsewhere.User{}, elsewhere.ErrUserNotFound
		}
		return elsewhere.User{}, fmt.Errorf("select user: %w", err)
	}
	return user.ToDomain(), nil
}
