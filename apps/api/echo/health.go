package echoapi

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
)

type healthApi struct {
	checkDB func(ctx context.Context) error
}

// registerHealthAPI exposes a readiness probe; checkDB may be nil when
// the app runs without a relational store.
func registerHealthAPI(g *echo.Group, checkDB func(ctx context.Context) error) {
	api := healthApi{checkDB: checkDB}

	g.GET("/health", api.health)
}

func (api *healthApi) health(ctx echo.Context) error {
	status := "ok"
	code := http.StatusOK
	if api.checkDB != nil {
		if err := api.checkDB(ctx.Request().Context()); err != nil {
			status = "db not ready"
			code = http.StatusServiceUnavailable
		}
	}
	return ctx.JSON(code, map[string]string{"status": status})
}
