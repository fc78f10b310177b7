package mock

import (
	"context"
	"time"

	"github.com/buzkaaclicker/elsewhere"
)

type ProfileStore struct {
	AddNetworkProfileFn func(ctx context.Context, profile elsewhere.NetworkProfile) (elsewhere.NetworkProfile, error)

	NetworkProfilesFn func(ctx context.Context, kind elsewhere.NetworkKind,
		userId elsewhere.UserId) ([]elsewhere.NetworkProfile, error)

	DeleteNetworkProfileFn func(ctx context.Context, kind elsewhere.NetworkKind,
		userId elsewhere.UserId, id elsewhere.ProfileId) error

	MarkVerifiedFn func(ctx context.Context, kind elsewhere.NetworkKind, id elsewhere.ProfileId, verifiedAt time.Time) error

	AddWebsiteFn func(ctx context.Context, website elsewhere.WebsiteProfile) (elsewhere.WebsiteProfile, error)

	WebsitesFn func(ctx context.Context, userId elsewhere.UserId) ([]elsewhere.WebsiteProfile, error)

	DeleteWebsiteFn func(ctx context.Context, userId elsewhere.UserId, id elsewhere.ProfileId) error
}

func (s ProfileStore) AddNetworkProfile(ctx context.Context, profile elsewhere.NetworkProfile) (elsewhere.NetworkProfile, error) {
	return s.AddNetworkProfileFn(ctx, profile)
}

func (s ProfileStore) NetworkProfiles(ctx context.Context, kind elsewhere.NetworkKind,
	userId elsewhere.UserId) ([]elsewhere.NetworkProfile, error) {
	return s.NetworkProfilesFn(ctx, kind, userId)
}

func (s ProfileStore) DeleteNetworkProfile(ctx context.Context, kind elsewhere.NetworkKind,
	userId elsewhere.UserId, id elsewhere.ProfileId) error {
	return s.DeleteNetworkProfileFn(ctx, kind, userId, id)
}

func (s ProfileStore) MarkVerified(ctx context.Context, kind elsewhere.NetworkKind,
	id elsewhere.ProfileId, verifiedAt time.Time) error {
	return s.MarkVerifiedFn(ctx, kind, id, verifiedAt)
}

func (s ProfileStore) AddWebsite(ctx context.Context, website elsewhere.WebsiteProfile) (elsewhere.WebsiteProfile, error) {
	return s.AddWebsiteFn(ctx, website)
}

func (s ProfileStore) Websites(ctx context.Context, userId elsewhere.UserId) ([]elsewhere.WebsiteProfile, error) {
	return s.WebsitesFn(ctx, userId)
}

func (s ProfileStore) DeleteWebsite(ctx context.Context, userId elsewhere.UserId, id elsewhere.ProfileId) error {
	return s.DeleteWebsiteFn(ctx, userId, id)
}
