package rest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/buzkaaclicker/elsewhere"
	"github.com/buzkaaclicker/elsewhere/mock"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
)

func TestNotFoundHandler(t *testing.T) {
	assert := assert.New(t)

	app := fiber.New(fiber.Config{
		ErrorHandler: ErrorHandler,
	})
	app.Get("/home", func(ctx *fiber.Ctx) error {
		return ctx.SendString(`{"im":"working"}`)
	})
	app.Use(NotFoundHandler)

	cases := []struct {
		path       string
		returnCode int
		returnBody string
	}{
		{path: "/unknown_path", returnCode: fiber.StatusNotFound,
			returnBody: JsonErrorMessageResponse("Not Found")},
		{path: "/home", returnCode: fiber.StatusOK,
			returnBody: `{"im":"working"}`},
	}

	for _, useCase := range cases {
		assertMsg := "status code: " + useCase.path

		req := httptest.NewRequest("GET", useCase.path, nil)
		resp, err := app.Test(req)
		assert.NoError(err, assertMsg)
		defer resp.Body.Close()

		assert.Equal(useCase.returnCode, resp.StatusCode, assertMsg)
		body, err := io.ReadAll(resp.Body)
		assert.NoError(err, assertMsg)
		assert.Equal(useCase.returnBody, string(body), assertMsg)
	}
}

func TestErrorHandlerMapsDomainErrors(t *testing.T) {
	assert := assert.New(t)

	app := fiber.New(fiber.Config{
		ErrorHandler: ErrorHandler,
	})
	errs := map[string]error{
		"/form":     fmt.Errorf("%w: name is required", elsewhere.ErrInvalidForm),
		"/profile":  fmt.Errorf("delete: %w", elsewhere.ErrProfileNotFound),
		"/network":  elsewhere.ErrNetworkNotFound,
		"/internal": errors.New("connection reset"),
	}
	for path, err := range errs {
		err := err
		app.Get(path, func(ctx *fiber.Ctx) error { return err })
	}

	cases := []struct {
		path       string
		returnCode int
		returnBody string
	}{
		{path: "/form", returnCode: fiber.StatusBadRequest,
			returnBody: JsonErrorMessageResponse("invalid form: name is required")},
		{path: "/profile", returnCode: fiber.StatusNotFound,
			returnBody: JsonErrorMessageResponse("Not Found")},
		{path: "/network", returnCode: fiber.StatusNotFound,
			returnBody: JsonErrorMessageResponse("Not Found")},
		{path: "/internal", returnCode: fiber.StatusInternalServerError,
			returnBody: JsonErrorMessageResponse("Internal Server Error")},
	}
	for _, useCase := range cases {
		resp, err := app.Test(httptest.NewRequest("GET", useCase.path, nil))
		if !assert.NoError(err, useCase.path) {
			continue
		}
		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		assert.NoError(err)
		assert.Equal(useCase.returnCode, resp.StatusCode, useCase.path)
		assert.Equal(useCase.returnBody, string(body), useCase.path)
	}
}

func TestLogHandlerSetsRequestId(t *testing.T) {
	assert := assert.New(t)

	app := fiber.New()
	app.Use(LogHandler())
	app.Get("/id", func(ctx *fiber.Ctx) error {
		return ctx.SendString(ctx.Locals(requestIdLocalsKey).(string))
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/id", nil))
	if !assert.NoError(err) {
		return
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	assert.NoError(err)
	assert.Len(string(body), 36)
	assert.Equal(string(body), resp.Header.Get("X-Request-Id"))
}

func TestRequestAuthorizer(t *testing.T) {
	assert := assert.New(t)

	userStore := mock.UserStore{
		ByIdFn: func(ctx context.Context, userId elsewhere.UserId) (elsewhere.User, error) {
			switch userId {
			case 1:
				return elsewhere.User{Id: 1, Username: "makin"}, nil
			case 2:
				return elsewhere.User{Id: 2, Username: "morton",
					Roles: elsewhere.Roles{elsewhere.AllRoles[elsewhere.RoleIdAdmin]}}, nil
			case 3:
				return elsewhere.User{}, errors.New("db down")
			default:
				return elsewhere.User{}, elsewhere.ErrUserNotFound
			}
		},
	}
	restrictedHandler := func(ctx *fiber.Ctx) error {
		user := ctx.Locals(userLocalsKey).(elsewhere.User)
		_, err := fmt.Fprintf(ctx, "Authorized. User id: %d", user.Id)
		return err
	}

	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
	requestAuthorizer := RequestAuthorizer(userStore)
	app.Get("/test/restricted", combineHandlers(requestAuthorizer, restrictedHandler))
	app.Get("/test/networks", combineHandlers(requestAuthorizer,
		requirePermissions(elsewhere.PermissionNetworksEdit), restrictedHandler))

	cases := []struct {
		path             string
		userId           string
		expectedCode     int
		expectedResponse string
	}{
		{path: "/test/restricted", userId: "1", expectedCode: fiber.StatusOK,
			expectedResponse: "Authorized. User id: 1"},
		{path: "/test/restricted", userId: "", expectedCode: fiber.StatusUnauthorized,
			expectedResponse: JsonErrorMessageResponse(fiber.ErrUnauthorized.Message)},
		{path: "/test/restricted", userId: "makin", expectedCode: fiber.StatusBadRequest,
			expectedResponse: JsonErrorMessageResponse("invalid user id header")},
		{path: "/test/restricted", userId: "404", expectedCode: fiber.StatusUnauthorized,
			expectedResponse: JsonErrorMessageResponse(fiber.ErrUnauthorized.Message)},
		{path: "/test/restricted", userId: "3", expectedCode: fiber.StatusInternalServerError,
			expectedResponse: JsonErrorMessageResponse(fiber.ErrInternalServerError.Message)},
		{path: "/test/networks", userId: "1", expectedCode: fiber.StatusForbidden,
			expectedResponse: JsonErrorMessageResponse(fiber.ErrForbidden.Message)},
		{path: "/test/networks", userId: "2", expectedCode: fiber.StatusOK,
			expectedResponse: "Authorized. User id: 2"},
	}
	for _, useCase := range cases {
		assertMsg := useCase.path + " as " + useCase.userId

		req := httptest.NewRequest("GET", useCase.path, nil)
		if useCase.userId != "" {
			req.Header.Set(UserIdHeader, useCase.userId)
		}
		resp, err := app.Test(req)
		if !assert.NoError(err, assertMsg) {
			continue
		}
		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		assert.NoError(err, assertMsg)
		assert.Equal(useCase.expectedCode, resp.StatusCode, assertMsg)
		assert.Equal(useCase.expectedResponse, string(body), assertMsg)
	}
}
