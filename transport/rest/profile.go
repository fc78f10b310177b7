package rest

import (
	"errors"
	"fmt"
	"time"

	"github.com/buzkaaclicker/elsewhere"
	"github.com/gofiber/fiber/v2"
)

const websiteKind = "website"

type ProfileController struct {
	Store elsewhere.ProfileStore
	Cache *elsewhere.NetworkCache
	Icons elsewhere.IconUrlFactory
}

func (c *ProfileController) InstallTo(requestAuthorizer fiber.Handler, app *fiber.App) {
	app.Get("/api/users/:user_id/profiles", c.serveUserProfiles)
	app.Get("/api/profiles/:kind/form", c.serveForm)
	app.Post("/api/profiles/:kind", combineHandlers(requestAuthorizer, c.serveCreate))
	app.Delete("/api/profiles/:kind/:id", combineHandlers(requestAuthorizer, c.serveDelete))
	app.Post("/api/profiles/:kind/:id/verify", combineHandlers(requestAuthorizer,
		requirePermissions(elsewhere.PermissionProfilesVerify), c.serveVerify))
}

type NetworkProfileResponse struct {
	Id         int64     `json:"id"`
	NetworkId  string    `json:"network_id"`
	Username   string    `json:"username"`
	DateAdded  time.Time `json:"date_added"`
	IsVerified bool      `json:"is_verified"`

	Name     string `json:"name,omitempty"`
	Url      string `json:"url,omitempty"`
	IconName string `json:"icon_name,omitempty"`
	Icon     string `json:"icon,omitempty"`

	Error string `json:"error,omitempty"`
}

type WebsiteResponse struct {
	Id   int64  `json:"id"`
	Name string `json:"name"`
	Url  string `json:"url"`
	Icon string `json:"icon"`
}

type UserProfilesResponse struct {
	Social   []NetworkProfileResponse `json:"social"`
	IM       []NetworkProfileResponse `json:"im"`
	Websites []WebsiteResponse        `json:"websites"`
}

func (c *ProfileController) networkProfileResponse(profile elsewhere.NetworkProfile,
	networks elsewhere.NetworkMap) NetworkProfileResponse {
	response := NetworkProfileResponse{
		Id:         int64(profile.Id),
		NetworkId:  profile.NetworkId,
		Username:   profile.Username,
		DateAdded:  profile.DateAdded,
		IsVerified: profile.IsVerified,
	}
	resolved, err := profile.Resolve(networks, c.Icons)
	if err != nil {
		response.Error = "missing network reference"
		return response
	}
	response.Name = resolved.Name
	response.Url = resolved.Url
	response.IconName = resolved.IconName
	response.Icon = resolved.Icon
	return response
}

func websiteResponse(website elsewhere.WebsiteProfile) WebsiteResponse {
	return WebsiteResponse{
		Id:   int64(website.Id),
		Name: website.Name,
		Url:  website.Url,
		Icon: website.Icon(),
	}
}

func (c *ProfileController) serveUserProfiles(ctx *fiber.Ctx) error {
	userId, err := int64Param(ctx, "user_id")
	if err != nil {
		return err
	}

	responses := make(map[elsewhere.NetworkKind][]NetworkProfileResponse, len(elsewhere.NetworkKinds))
	for _, kind := range elsewhere.NetworkKinds {
		profiles, err := c.Store.NetworkProfiles(ctx.Context(), kind, elsewhere.UserId(userId))
		if err != nil {
			return fmt.Errorf("get %s profiles: %w", kind, err)
		}
		responses[kind] = make([]NetworkProfileResponse, 0, len(profiles))
		if len(profiles) == 0 {
			continue
		}
		networks := c.Cache.Get(ctx.Context(), kind)
		for _, profile := range profiles {
			responses[kind] = append(responses[kind], c.networkProfileResponse(profile, networks))
		}
	}

	websites, err := c.Store.Websites(ctx.Context(), elsewhere.UserId(userId))
	if err != nil {
		return fmt.Errorf("get websites: %w", err)
	}
	websiteResponses := make([]WebsiteResponse, len(websites))
	for i, website := range websites {
		websiteResponses[i] = websiteResponse(website)
	}

	return ctx.JSON(UserProfilesResponse{
		Social:   responses[elsewhere.NetworkKindSocial],
		IM:       responses[elsewhere.NetworkKindInstantMessenger],
		Websites: websiteResponses,
	})
}

func (c *ProfileController) serveForm(ctx *fiber.Ctx) error {
	if ctx.Params("kind") == websiteKind {
		return ctx.JSON(elsewhere.WebsiteFormSpec())
	}
	kind, err := networkKindParam(ctx)
	if err != nil {
		return err
	}
	return ctx.JSON(elsewhere.NetworkProfileFormSpec(c.Cache.Choices(ctx.Context(), kind)))
}

func (c *ProfileController) serveCreate(ctx *fiber.Ctx) error {
	user, err := currentUser(ctx)
	if err != nil {
		return err
	}

	if ctx.Params("kind") == websiteKind {
		var form elsewhere.WebsiteForm
		if err := parseBody(ctx, &form); err != nil {
			return err
		}
		if err := form.Validate(); err != nil {
			return err
		}
		website, err := c.Store.AddWebsite(ctx.Context(), form.Website(user.Id))
		if err != nil {
			return fmt.Errorf("add website: %w", err)
		}
		return ctx.Status(fiber.StatusCreated).JSON(websiteResponse(website))
	}

	kind, err := networkKindParam(ctx)
	if err != nil {
		return err
	}
	var form elsewhere.NetworkProfileForm
	if err := parseBody(ctx, &form); err != nil {
		return err
	}
	if err := form.Validate(); err != nil {
		return err
	}
	profile, err := c.Store.AddNetworkProfile(ctx.Context(), form.Profile(kind, user.Id))
	if err != nil {
		return fmt.Errorf("add %s profile: %w", kind, err)
	}
	networks := c.Cache.Get(ctx.Context(), kind)
	return ctx.Status(fiber.StatusCreated).JSON(c.networkProfileResponse(profile, networks))
}

func (c *ProfileController) serveDelete(ctx *fiber.Ctx) error {
	user, err := currentUser(ctx)
	if err != nil {
		return err
	}
	id, err := int64Param(ctx, "id")
	if err != nil {
		return err
	}

	if ctx.Params("kind") == websiteKind {
		err = c.Store.DeleteWebsite(ctx.Context(), user.Id, elsewhere.ProfileId(id))
	} else {
		kind, kindErr := networkKindParam(ctx)
		if kindErr != nil {
			return kindErr
		}
		err = c.Store.DeleteNetworkProfile(ctx.Context(), kind, user.Id, elsewhere.ProfileId(id))
	}
	if err != nil {
		if errors.Is(err, elsewhere.ErrProfileNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "profile not found")
		}
		return fmt.Errorf("delete profile: %w", err)
	}
	return ctx.SendStatus(fiber.StatusNoContent)
}

func (c *ProfileController) serveVerify(ctx *fiber.Ctx) error {
	kind, err := networkKindParam(ctx)
	if err != nil {
		return err
	}
	id, err := int64Param(ctx, "id")
	if err != nil {
		return err
	}

	err = c.Store.MarkVerified(ctx.Context(), kind, elsewhere.ProfileId(id), time.Now().UTC())
	if err != nil {
		if errors.Is(err, elsewhere.ErrProfileNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "profile not found")
		}
		return fmt.Errorf("mark verified: %w", err)
	}
	return ctx.SendStatus(fiber.StatusNoContent)
}
