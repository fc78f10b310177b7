package elsewhere

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"
)

var ErrProfileNotFound = errors.New("profile not found")

const FaviconServiceUrl = "http://www.google.com/s2/favicons?domain_url=%s"

// Url of the favicon of given site served by an external service.
func FaviconUrl(siteUrl string) string {
	return fmt.Sprintf(FaviconServiceUrl, url.QueryEscape(siteUrl))
}

// Maps an icon name to its servable url.
type IconUrlFactory func(iconName string) string

func StaticIconUrlFactory(prefix string) IconUrlFactory {
	if !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	return func(iconName string) string {
		return prefix + url.PathEscape(iconName)
	}
}

type ProfileId int64

// User handle on a social network or instant messenger.
type NetworkProfile struct {
	Id           ProfileId
	Kind         NetworkKind
	UserId       UserId
	NetworkId    string
	Username     string
	DateAdded    time.Time
	DateVerified time.Time
	IsVerified   bool
}

func (p NetworkProfile) Name(networks NetworkMap) (string, error) {
	data, err := networks.Lookup(p.NetworkId)
	if err != nil {
		return "", err
	}
	return data.Name, nil
}

func (p NetworkProfile) Url(networks NetworkMap) (string, error) {
	data, err := networks.Lookup(p.NetworkId)
	if err != nil {
		return "", err
	}
	return data.ProfileUrl(p.Username), nil
}

func (p NetworkProfile) IconName(networks NetworkMap) (string, error) {
	data, err := networks.Lookup(p.NetworkId)
	if err != nil {
		return "", err
	}
	return data.Icon, nil
}

// Local icon url if the network has an icon, favicon service url otherwise.
func (p NetworkProfile) Icon(networks NetworkMap, icons IconUrlFactory) (string, error) {
	data, err := networks.Lookup(p.NetworkId)
	if err != nil {
		return "", err
	}
	return data.ProfileIcon(p.Username, icons), nil
}

// Only the first %s is replaced, other percent sequences stay as they are.
func (d NetworkData) ProfileUrl(username string) string {
	return strings.Replace(d.Url, "%s", username, 1)
}

func (d NetworkData) ProfileIcon(username string, icons IconUrlFactory) string {
	if d.Icon != "" {
		return icons(d.Icon)
	}
	return FaviconUrl(d.ProfileUrl(username))
}

type ResolvedProfile struct {
	NetworkProfile
	Name     string
	Url      string
	IconName string
	Icon     string
}

func (p NetworkProfile) Resolve(networks NetworkMap, icons IconUrlFactory) (ResolvedProfile, error) {
	data, err := networks.Lookup(p.NetworkId)
	if err != nil {
		return ResolvedProfile{}, err
	}
	return ResolvedProfile{
		NetworkProfile: p,
		Name:           data.Name,
		Url:            data.ProfileUrl(p.Username),
		IconName:       data.Icon,
		Icon:           data.ProfileIcon(p.Username, icons),
	}, nil
}

// Personal website, stored as is without any network lookup.
type WebsiteProfile struct {
	Id     ProfileId
	UserId UserId
	Name   string
	Url    string
}

func (w WebsiteProfile) Icon() string {
	return FaviconUrl(w.Url)
}

type ProfileStore interface {
	AddNetworkProfile(ctx context.Context, profile NetworkProfile) (NetworkProfile, error)

	NetworkProfiles(ctx context.Context, kind NetworkKind, userId UserId) ([]NetworkProfile, error)

	// Returns ErrProfileNotFound if user has no such profile.
	DeleteNetworkProfile(ctx context.Context, kind NetworkKind, userId UserId, id ProfileId) error

	MarkVerified(ctx context.Context, kind NetworkKind, id ProfileId, verifiedAt time.Time) error

	AddWebsite(ctx context.Context, website WebsiteProfile) (WebsiteProfile, error)

	Websites(ctx context.Context, userId UserId) ([]WebsiteProfile, error)

	// Returns ErrProfileNotFound if user has no such website.
	DeleteWebsite(ctx context.Context, userId UserId, id ProfileId) error
}
