package http

import (
	"errors"

	"git.solsynth.dev/hypernet/sociality/pkg/internal/errs"
	"git.solsynth.dev/hypernet/sociality/pkg/internal/http/api"
	"git.solsynth.dev/hypernet/sociality/pkg/internal/services"
	"github.com/gofiber/fiber/v2"
	jsoniter "github.com/json-iterator/go"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

type App struct {
	app *fiber.App
}

func NewServer(srv *services.Service) *App {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		EnableIPValidation:    true,
		ServerHeader:          "Hypernet.Sociality",
		AppName:               "Hypernet.Sociality",
		ProxyHeader:           fiber.HeaderXForwardedFor,
		JSONEncoder:           jsoniter.ConfigCompatibleWithStandardLibrary.Marshal,
		JSONDecoder:           jsoniter.ConfigCompatibleWithStandardLibrary.Unmarshal,
		BodyLimit:             1 * 1024 * 1024,
		ErrorHandler:          apiErrorHandler,
	})

	api.MapAPIs(app, "/api", srv)

	return &App{app: app}
}

// apiErrorHandler turns structured errors into short non-leaking responses.
// Causes stay in the log, never in the payload.
func apiErrorHandler(c *fiber.Ctx, err error) error {
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return c.Status(fiberErr.Code).JSON(fiber.Map{"error": fiberErr.Message})
	}

	var appErr *errs.AppError
	if errors.As(err, &appErr) {
		if appErr.Code == errs.CodeInternal {
			log.Error().Err(appErr).Str("path", c.Path()).Msg("An error occurred when processing request...")
		}
		return c.Status(httpStatus(appErr.Code)).JSON(fiber.Map{
			"code":  appErr.Code,
			"error": appErr.Message,
		})
	}

	log.Error().Err(err).Str("path", c.Path()).Msg("An error occurred when processing request...")
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "unexpected error"})
}

func httpStatus(code errs.Code) int {
	switch code {
	case errs.CodeInvalidArgument, errs.CodeFailedPrecondition:
		return fiber.StatusBadRequest
	case errs.CodeNotFound:
		return fiber.StatusNotFound
	case errs.CodeAlreadyExists:
		return fiber.StatusConflict
	case errs.CodeUnauthenticated:
		return fiber.StatusUnauthorized
	case errs.CodePermissionDenied:
		return fiber.StatusForbidden
	case errs.CodeUnavailable:
		return fiber.StatusBadGateway
	default:
		return fiber.StatusInternalServerError
	}
}

func (v *App) Listen() {
	if err := v.app.Listen(viper.GetString("bind")); err != nil {
		log.Fatal().Err(err).Msg("An error occurred when starting http server.")
	}
}
