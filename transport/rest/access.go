package rest

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/buzkaaclicker/elsewhere"
	"github.com/gofiber/fiber/v2"
)

const (
	userLocalsKey = "user"

	// Set by the authenticating gateway in front of this service.
	UserIdHeader = "X-User-Id"
)

// Resolves the calling user from UserIdHeader and stores it in locals.
func RequestAuthorizer(userStore elsewhere.UserStore) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		header := ctx.Get(UserIdHeader)
		if header == "" {
			return fiber.ErrUnauthorized
		}
		userId, err := strconv.ParseInt(header, 10, 64)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid user id header")
		}

		user, err := userStore.ById(ctx.Context(), elsewhere.UserId(userId))
		if err != nil {
			if errors.Is(err, elsewhere.ErrUserNotFound) {
				return fiber.ErrUnauthorized
			}
			return fmt.Errorf("retrieve user by id: %w", err)
		}

		requestLog(ctx).
			WithField("user_id", user.Id).
			Infoln("Authorized access.")

		ctx.Locals(userLocalsKey, user)
		return nil
	}
}

func requirePermissions(permission elsewhere.PermissionName) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		user, ok := ctx.Locals(userLocalsKey).(elsewhere.User)
		if !ok {
			return fiber.ErrUnauthorized
		}
		if user.Roles.Access(permission) != elsewhere.AccessAllowed {
			return fiber.ErrForbidden
		}
		return nil
	}
}

func currentUser(ctx *fiber.Ctx) (elsewhere.User, error) {
	user, ok := ctx.Locals(userLocalsKey).(elsewhere.User)
	if !ok {
		return elsewhere.User{}, fiber.ErrUnauthorized
	}
	return user, nil
}
