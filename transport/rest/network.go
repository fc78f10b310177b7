package rest

import (
	"fmt"

	"github.com/buzkaaclicker/elsewhere"
	"github.com/gofiber/fiber/v2"
)

type NetworkController struct {
	Cache *elsewhere.NetworkCache
	// Expected to invalidate Cache on save.
	Store elsewhere.NetworkStore
}

func (c *NetworkController) InstallTo(requestAuthorizer fiber.Handler, app *fiber.App) {
	app.Get("/api/networks/:kind", c.serveNetworks)
	app.Put("/api/networks/:kind", combineHandlers(requestAuthorizer,
		requirePermissions(elsewhere.PermissionNetworksEdit), c.serveSaveNetwork))
}

func (c *NetworkController) serveNetworks(ctx *fiber.Ctx) error {
	kind, err := networkKindParam(ctx)
	if err != nil {
		return err
	}
	return ctx.JSON(c.Cache.Get(ctx.Context(), kind).Sorted())
}

func (c *NetworkController) serveSaveNetwork(ctx *fiber.Ctx) error {
	kind, err := networkKindParam(ctx)
	if err != nil {
		return err
	}
	var form elsewhere.NetworkForm
	if err := parseBody(ctx, &form); err != nil {
		return err
	}
	if err := form.Validate(); err != nil {
		return err
	}

	network := form.Network(kind)
	existing, err := c.Store.Networks(ctx.Context(), kind)
	if err != nil {
		return fmt.Errorf("load networks: %w", err)
	}
	if err := elsewhere.CheckNetworkIdFree(existing, network); err != nil {
		return err
	}

	network, err = c.Store.Save(ctx.Context(), network)
	if err != nil {
		return fmt.Errorf("save network: %w", err)
	}
	requestLog(ctx).
		WithField("network_kind", kind).
		WithField("network_name", network.Name).
		Infoln("Network saved.")

	type SavedNetworkResponse struct {
		elsewhere.NetworkData
		StoreId int64 `json:"store_id"`
	}
	return ctx.JSON(SavedNetworkResponse{
		NetworkData: network.Data(),
		StoreId:     network.Id,
	})
}
