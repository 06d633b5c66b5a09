package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/kwanza/mahudhurio/core/settings"
)

type settingsApi struct {
	svc      *settings.Service
	validate *validator.Validate
}

func registerSettingsAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *settings.Service, validate *validator.Validate) {
	api := settingsApi{
		svc:      svc,
		validate: validate,
	}

	sg := g.Group("/settings", jwt, adminMiddleware())
	sg.GET("", api.query)
	sg.PUT("/:key", api.set)
}

// Handlers

func (api *settingsApi) query(ctx echo.Context) error {
	stgs, err := api.svc.Query(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying settings")
	}
	if stgs == nil {
		stgs = []settings.Setting{}
	}
	return ctx.JSON(http.StatusOK, stgs)
}

func (api *settingsApi) set(ctx echo.Context) error {
	var data settings.UpdateSetting
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateSetting")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	stg, err := api.svc.Set(ctx.Request().Context(), ctx.Param("key"), data.Value)
	if err != nil {
		return errors.Wrap(err, "setting value")
	}
	return ctx.JSON(http.StatusOK, stg)
}
