package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/kwanza/mahudhurio/core"
	"github.com/kwanza/mahudhurio/core/attendance"
)

type attendanceApi struct {
	svc      *attendance.Service
	validate *validator.Validate
}

func registerAttendanceAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *attendance.Service, validate *validator.Validate) {
	api := attendanceApi{
		svc:      svc,
		validate: validate,
	}

	ag := g.Group("/attendance", jwt)
	ag.GET("", api.query)
	ag.POST("", api.mark)
}

// Handlers

func (api *attendanceApi) query(ctx echo.Context) error {
	filter, err := parseAttendanceFilter(ctx)
	if err != nil {
		return err
	}

	records, err := api.svc.Query(ctx.Request().Context(), filter)
	if err != nil {
		return errors.Wrap(err, "querying attendance records")
	}
	if records == nil {
		records = []attendance.RecordWithStudent{}
	}
	return ctx.JSON(http.StatusOK, records)
}

func (api *attendanceApi) mark(ctx echo.Context) error {
	var data attendance.Mark
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to Mark")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}
	data.MarkedBy = claims.Subject

	rec, err := api.svc.Mark(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "marking attendance")
	}
	return ctx.JSON(http.StatusOK, rec)
}

// parseAttendanceFilter reads the supported query parameters; a malformed
// date yields a field-level validation error.
func parseAttendanceFilter(ctx echo.Context) (attendance.QueryFilter, error) {
	var filter attendance.QueryFilter

	filter.StudentID = ctx.QueryParam("studentId")

	dates := []struct {
		param string
		dest  *attendance.Date
	}{
		{"date", &filter.Date},
		{"startDate", &filter.StartDate},
		{"endDate", &filter.EndDate},
	}
	for _, d := range dates {
		raw := ctx.QueryParam(d.param)
		if raw == "" {
			continue
		}
		date, err := attendance.ParseDate(raw)
		if err != nil {
			return filter, core.NewValidationError(
				errors.New("invalid date"),
				core.FieldError{Field: d.param, Error: "must be a valid date in YYYY-MM-DD format"},
			)
		}
		*d.dest = date
	}
	return filter, nil
}
