package rest

import (
	"encoding/json"
	"errors"
	"strconv"

	"github.com/buzkaaclicker/elsewhere"
	"github.com/gofiber/fiber/v2"
)

type ErrorResponse struct {
	ErrorMessage string `json:"error_message"`
}

func ErrorHandler(ctx *fiber.Ctx, err error) error {
	var fe *fiber.Error
	switch {
	case errors.As(err, &fe):
	case errors.Is(err, elsewhere.ErrInvalidForm):
		fe = fiber.NewError(fiber.StatusBadRequest, err.Error())
	case errors.Is(err, elsewhere.ErrNetworkIdTaken):
		fe = fiber.NewError(fiber.StatusConflict, err.Error())
	case errors.Is(err, elsewhere.ErrInvalidNetworkKind),
		errors.Is(err, elsewhere.ErrNetworkNotFound),
		errors.Is(err, elsewhere.ErrProfileNotFound),
		errors.Is(err, elsewhere.ErrUserNotFound):
		fe = fiber.ErrNotFound
	default:
		requestLog(ctx).WithError(err).Errorln("Internal server error.")
		// keep internal server errors private. reply with generic error message.
		fe = fiber.ErrInternalServerError
	}
	return ctx.
		Status(fe.Code).
		JSON(&ErrorResponse{ErrorMessage: fe.Message})
}

func NotFoundHandler(c *fiber.Ctx) error {
	return fiber.NewError(fiber.StatusNotFound)
}

func combineHandlers(handlers ...fiber.Handler) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		for _, handler := range handlers {
			err := handler(ctx)
			if err != nil {
				return err
			}
		}
		return nil
	}
}

func JsonErrorMessageResponse(message string) string {
	bytes, err := json.Marshal(ErrorResponse{ErrorMessage: message})
	if err != nil {
		panic(err)
	}
	return string(bytes)
}

func networkKindParam(ctx *fiber.Ctx) (elsewhere.NetworkKind, error) {
	kind, err := elsewhere.ParseNetworkKind(ctx.Params("kind"))
	if err != nil {
		return "", fiber.NewError(fiber.StatusNotFound, "unknown network kind")
	}
	return kind, nil
}

func int64Param(ctx *fiber.Ctx, name string) (int64, error) {
	value := ctx.Params(name)
	if value == "" {
		return 0, fiber.NewError(fiber.StatusBadRequest, "no "+name)
	}
	id, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, fiber.NewError(fiber.StatusBadRequest, "invalid "+name)
	}
	return id, nil
}

func parseBody(ctx *fiber.Ctx, out interface{}) error {
	if err := ctx.BodyParser(out); err != nil {
		requestLog(ctx).WithError(err).Infoln("Invalid body.")
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}
	return nil
}
