package persistent

import (
	"context"
	"fmt"
	"time"

	"github.com/buzkaaclicker/elsewhere"
	"github.com/uptrace/bun"
)

// Db model shared by social_network_profile and instant_messenger_profile tables.
type NetworkProfile struct {
	bun.BaseModel `bun:"alias:profile"`

	Id           int64     `bun:",pk,autoincrement"`
	UserId       int64     `bun:",notnull"`
	NetworkId    string    `bun:",notnull"`
	Username     string    `bun:",notnull"`
	DateAdded    time.Time `bun:",notnull"`
	DateVerified time.Time `bun:",notnull"`
	IsVerified   bool      `bun:",notnull"`
}

func (p NetworkProfile) ToDomain(kind elsewhere.NetworkKind) elsewhere.NetworkProfile {
	return elsewhere.NetworkProfile{
		Id:           elsewhere.ProfileId(p.Id),
		Kind:         kind,
		UserId:       elsewhere.UserId(p.UserId),
		NetworkId:    p.NetworkId,
		Username:     p.Username,
		DateAdded:    p.DateAdded,
		DateVerified: p.DateVerified,
		IsVerified:   p.IsVerified,
	}
}

type WebsiteProfile struct {
	bun.BaseModel `bun:"table:website_profile,alias:website"`

	Id     int64  `bun:",pk,autoincrement"`
	UserId int64  `bun:",notnull"`
	Name   string `bun:",notnull"`
	Url    string `bun:",notnull"`
}

func (w WebsiteProfile) ToDomain() elsewhere.WebsiteProfile {
	return elsewhere.WebsiteProfile{
		Id:     elsewhere.ProfileId(w.Id),
		UserId: elsewhere.UserId(w.UserId),
		Name:   w.Name,
		Url:    w.Url,
	}
}

var profileTables = map[elsewhere.NetworkKind]string{
	elsewhere.NetworkKindSocial:           "social_network_profile",
	elsewhere.NetworkKindInstantMessenger: "instant_messenger_profile",
}

func profileTable(kind elsewhere.NetworkKind) (string, error) {
	table, ok := profileTables[kind]
	if !ok {
		return "", fmt.Errorf("%w: %q", elsewhere.ErrInvalidNetworkKind, kind)
	}
	return table, nil
}

type ProfileStore struct {
	DB *bun.DB
}

var _ elsewhere.ProfileStore = (*ProfileStore)(nil)

func (s *ProfileStore) AddNetworkProfile(ctx context.Context, profile elsewhere.NetworkProfile) (elsewhere.NetworkProfile, error) {
	table, err := profileTable(profile.Kind)
	if err != nil {
		return elsewhere.NetworkProfile{}, err
	}

	// postgres keeps microseconds
	now := time.Now().UTC().Truncate(time.Microsecond)
	model := &NetworkProfile{
		UserId:       int64(profile.UserId),
		NetworkId:    profile.NetworkId,
		Username:     profile.Username,
		DateAdded:    now,
		DateVerified: now,
	}
	_, err = s.DB.NewInsert().
		Model(model).
		ModelTableExpr("? AS profile", bun.Ident(table)).
		Returning("id").
		Exec(ctx)
	if err != nil {
		return elsewhere.NetworkProfile{}, fmt.Errorf("insert %s: %w", table, err)
	}
	return model.ToDomain(profile.Kind), nil
}

func (s *ProfileStore) NetworkProfiles(ctx context.Context, kind elsewhere.NetworkKind,
	userId elsewhere.UserId) ([]elsewhere.NetworkProfile, error) {
	table, err := profileTable(kind)
	if err != nil {
		return nil, err
	}

	var profiles []NetworkProfile
	err = s.DB.NewSelect().
		Model(&profiles).
		ModelTableExpr("? AS profile", bun.Ident(table)).
		Where("profile.user_id = ?", int64(userId)).
		OrderExpr("profile.id ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("select %s: %w", table, err)
	}

	mapped := make([]elsewhere.NetworkProfile, len(profiles))
	for i, p := range profiles {
		mapped[i] = p.ToDomain(kind)
	}
	return mapped, nil
}

func (s *ProfileStore) DeleteNetworkProfile(ctx context.Context, kind elsewhere.NetworkKind,
	userId elsewhere.UserId, id elsewhere.ProfileId) error {
	table, err := profileTable(kind)
	if err != nil {
		return err
	}

	res, err := s.DB.NewDelete().
		Model((*NetworkProfile)(nil)).
		ModelTableExpr("? AS profile", bun.Ident(table)).
		Where("profile.id = ?", int64(id)).
		Where("profile.user_id = ?", int64(userId)).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("delete %s: %w", table, err)
	}
	return requireAffected(res, elsewhere.ErrProfileNotFound)
}

func (s *ProfileStore) MarkVerified(ctx context.Context, kind elsewhere.NetworkKind,
	id elsewhere.ProfileId, verifiedAt time.Time) error {
	table, err := profileTable(kind)
	if err != nil {
		return err
	}

	res, err := s.DB.NewUpdate().
		Model((*NetworkProfile)(nil)).
		ModelTableExpr("? AS profile", bun.Ident(table)).
		Set("is_verified = TRUE").
		Set("date_verified = ?", verifiedAt.UTC()).
		Where("profile.id = ?", int64(id)).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("update %s: %w", table, err)
	}
	return requireAffected(res, elsewhere.ErrProfileNotFound)
}

func (s *ProfileStore) AddWebsite(ctx context.Context, website elsewhere.WebsiteProfile) (elsewhere.WebsiteProfile, error) {
	model := &WebsiteProfile{
		UserId: int64(website.UserId),
		Name:   website.Name,
		Url:    website.Url,
	}
	_, err := s.DB.NewInsert().
		Model(model).
		Returning("id").
		Exec(ctx)
	if err != nil {
		return elsewhere.WebsiteProfile{}, fmt.Errorf("insert website: %w", err)
	}
	return model.ToDomain(), nil
}

func (s *ProfileStore) Websites(ctx context.Context, userId elsewhere.UserId) ([]elsewhere.WebsiteProfile, error) {
	var websites []WebsiteProfile
	err := s.DB.NewSelect().
		Model(&websites).
		Where("website.user_id = ?", int64(userId)).
		OrderExpr("website.id ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("select websites: %w", err)
	}

	mapped := make([]elsewhere.WebsiteProfile, len(websites))
	for i, w := range websites {
		mapped[i] = w.ToDomain()
	}
	return mapped, nil
}

func (s *ProfileStore) DeleteWebsite(ctx context.Context, userId elsewhere.UserId, id elsewhere.ProfileId) error {
	res, err := s.DB.NewDelete().
		Model((*WebsiteProfile)(nil)).
		Where("website.id = ?", int64(id)).
		Where("website.user_id = ?", int64(userId)).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("delete website: %w", err)
	}
	return requireAffected(res, elsewhere.ErrProfileNotFound)
}

func requireAffected(res interface{ RowsAffected() (int64, error) }, notFound error) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return notFound
	}
	return nil
}
