package echoapi

import (
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/kwanza/mahudhurio/core/user"
)

type (
	authApi struct {
		auth     *auth
		svc      *user.Service
		validate *validator.Validate
	}

	LoginResponse struct {
		Success bool   `json:"success"`
		Token   string `json:"token"`
	}

	SessionResponse struct {
		User    SessionUser `json:"user"`
		Expires time.Time   `json:"expires"`
	}

	SessionUser struct {
		ID    string `json:"id"`
		Email string `json:"email"`
		Name  string `json:"name"`
		Role  string `json:"role"`
	}

	MessageResponse struct {
		Message string `json:"message"`
	}
)

func registerAuthAPI(g *echo.Group, jwt echo.MiddlewareFunc, a *auth, svc *user.Service, validate *validator.Validate) {
	api := authApi{
		auth:     a,
		svc:      svc,
		validate: validate,
	}

	ag := g.Group("/auth")

	// un-authed endpoints
	ag.POST("/login", api.login)
	ag.POST("/signup", api.signup)
	ag.POST("/logout", api.logout)

	// authed endpoints
	ag.GET("/session", api.session, jwt)
}

// Handlers

func (api *authApi) login(ctx echo.Context) error {
	var data user.Credentials
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to Credentials")
	}
	data.Clean()
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	usr, err := api.svc.Authenticate(ctx.Request().Context(), data.Email, data.Password)
	if err != nil {
		// unknown email and bad password both land here; no session is issued
		if errors.Cause(err) == user.ErrAuthenticationFailed {
			return errAuthenticationFailed
		}
		return errors.Wrap(err, "authenticating")
	}

	claims := api.auth.GetUserClaims(usr)
	token, err := api.auth.GenerateToken(claims)
	if err != nil {
		return errors.Wrap(err, "generating token")
	}
	api.auth.setSessionCookie(ctx, token, claims)

	return ctx.JSON(http.StatusOK, LoginResponse{Success: true, Token: token})
}

func (api *authApi) signup(ctx echo.Context) error {
	var data user.NewUser
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewUser")
	}
	data.Clean()
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	usr, err := api.svc.Create(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating user")
	}
	return ctx.JSON(http.StatusOK, usr)
}

// logout destroys the client-held session; it is idempotent and never fails,
// even without a session.
func (api *authApi) logout(ctx echo.Context) error {
	clearSessionCookie(ctx)
	return ctx.JSON(http.StatusOK, MessageResponse{Message: "Logged out successfully"})
}

func (api *authApi) session(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}
	return ctx.JSON(http.StatusOK, SessionResponse{
		User: SessionUser{
			ID:    claims.Subject,
			Email: claims.Email,
			Name:  claims.Name,
			Role:  claims.Role,
		},
		Expires: time.Unix(claims.ExpiresAt, 0).UTC(),
	})
}
