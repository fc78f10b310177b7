package elsewhere

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"unicode/utf8"
)

var ErrInvalidForm = errors.New("invalid form")

const (
	maxNetworkIdLength   = 16
	maxUsernameLength    = 64
	maxWebsiteNameLength = 64
	maxNetworkNameLength = 100
	maxIdentifierLength  = 100
	maxIconLength        = 100
)

// Description of an edit form: its fields and, for network
// profiles, the network id choices known when it was built.
type FormSpec struct {
	Fields  []string `json:"fields"`
	Choices []Choice `json:"choices,omitempty"`
}

func NetworkProfileFormSpec(choices []Choice) FormSpec {
	return FormSpec{Fields: []string{"network_id", "username"}, Choices: choices}
}

func WebsiteFormSpec() FormSpec {
	return FormSpec{Fields: []string{"name", "url"}}
}

type NetworkProfileForm struct {
	NetworkId string `json:"network_id"`
	Username  string `json:"username"`
}

// Network id is deliberately not checked against known networks.
func (f NetworkProfileForm) Validate() error {
	if err := requireField("network_id", f.NetworkId, maxNetworkIdLength); err != nil {
		return err
	}
	return requireField("username", f.Username, maxUsernameLength)
}

func (f NetworkProfileForm) Profile(kind NetworkKind, userId UserId) NetworkProfile {
	return NetworkProfile{
		Kind:      kind,
		UserId:    userId,
		NetworkId: strings.TrimSpace(f.NetworkId),
		Username:  strings.TrimSpace(f.Username),
	}
}

type WebsiteForm struct {
	Name string `json:"name"`
	Url  string `json:"url"`
}

func (f WebsiteForm) Validate() error {
	if err := requireField("name", f.Name, maxWebsiteNameLength); err != nil {
		return err
	}
	return validateUrl("url", f.Url)
}

func (f WebsiteForm) Website(userId UserId) WebsiteProfile {
	return WebsiteProfile{
		UserId: userId,
		Name:   strings.TrimSpace(f.Name),
		Url:    strings.TrimSpace(f.Url),
	}
}

// Administrative edit of a network reference record.
type NetworkForm struct {
	Id         int64  `json:"id"`
	Name       string `json:"name"`
	Url        string `json:"url"`
	Identifier string `json:"identifier"`
	Icon       string `json:"icon"`
}

func (f NetworkForm) Validate() error {
	if err := requireField("name", f.Name, maxNetworkNameLength); err != nil {
		return err
	}
	slug := Slugify(f.Name)
	if slug == "" {
		return fmt.Errorf("%w: name has no alphanumeric characters", ErrInvalidForm)
	}
	// profiles can only reference ids this long
	if len(slug) > maxNetworkIdLength {
		return fmt.Errorf("%w: name slug longer than %d characters", ErrInvalidForm, maxNetworkIdLength)
	}
	if strings.TrimSpace(f.Url) == "" {
		return fmt.Errorf("%w: url is required", ErrInvalidForm)
	}
	if strings.Count(f.Url, "%s") != 1 {
		return fmt.Errorf("%w: url must contain exactly one %%s placeholder", ErrInvalidForm)
	}
	if err := optionalField("identifier", f.Identifier, maxIdentifierLength); err != nil {
		return err
	}
	return optionalField("icon", f.Icon, maxIconLength)
}

func (f NetworkForm) Network(kind NetworkKind) Network {
	return Network{
		Id:         f.Id,
		Kind:       kind,
		Name:       strings.TrimSpace(f.Name),
		Url:        strings.TrimSpace(f.Url),
		Identifier: strings.TrimSpace(f.Identifier),
		Icon:       strings.TrimSpace(f.Icon),
	}
}

func requireField(name string, value string, maxLength int) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%w: %s is required", ErrInvalidForm, name)
	}
	return optionalField(name, value, maxLength)
}

func optionalField(name string, value string, maxLength int) error {
	if utf8.RuneCountInString(strings.TrimSpace(value)) > maxLength {
		return fmt.Errorf("%w: %s longer than %d characters", ErrInvalidForm, name, maxLength)
	}
	return nil
}

func validateUrl(name string, value string) error {
	value = strings.TrimSpace(value)
	if value == "" {
		return fmt.Errorf("%w: %s is required", ErrInvalidForm, name)
	}
	u, err := url.Parse(value)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: %s must be an absolute http(s) url", ErrInvalidForm, name)
	}
	return nil
}
