package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/land-looker/internal/middleware"
	"github.com/iliyamo/land-looker/internal/model"
	"github.com/iliyamo/land-looker/internal/policy"
	"github.com/iliyamo/land-looker/internal/service"
)

// AuthService is the part of service.AuthService the handlers use.
type AuthService interface {
	Register(ctx context.Context, in service.RegisterInput) (*service.AuthResult, error)
	Login(ctx context.Context, in service.LoginInput) (*service.AuthResult, error)
	Refresh(ctx context.Context, raw string) (*service.AuthResult, error)
	Logout(ctx context.Context, actor *policy.Actor, jti string, exp time.Time) (string, error)
	Me(ctx context.Context, actor *policy.Actor) (*model.User, error)
}

type AuthHandler struct {
	Auth AuthService
}

func NewAuthHandler(auth AuthService) *AuthHandler {
	return &AuthHandler{Auth: auth}
}

// ----- DTOs -----

type refreshReq struct {
	RefreshToken string `json:"refresh_token"`
}

type tokenPart struct {
	Token   string    `json:"token"`
	Expires time.Time `json:"expires"`
}

type userPart struct {
	ID    uint64     `json:"id"`
	Name  string     `json:"name"`
	Email string     `json:"email"`
	Role  model.Role `json:"role"`
}

type authResp struct {
	Message string    `json:"message"`
	User    userPart  `json:"user"`
	Access  tokenPart `json:"access"`
	Refresh tokenPart `json:"refresh"`
}

func toAuthResp(r *service.AuthResult) authResp {
	return authResp{
		Message: r.Message,
		User:    userPart{ID: r.User.ID, Name: r.User.Name, Email: r.User.Email, Role: r.User.UserType},
		Access:  tokenPart{Token: r.Access.Token, Expires: r.Access.Exp},
		Refresh: tokenPart{Token: r.Refresh.Raw, Expires: r.Refresh.Exp},
	}
}

// Register creates the account and returns a token pair right away.
func (h *AuthHandler) Register(c echo.Context) error {
	var in service.RegisterInput
	if err := c.Bind(&in); err != nil {
		return bindError(c, err)
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	res, err := h.Auth.Register(ctx, in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, toAuthResp(res))
}

func (h *AuthHandler) Login(c echo.Context) error {
	var in service.LoginInput
	if err := c.Bind(&in); err != nil {
		return bindError(c, err)
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	res, err := h.Auth.Login(ctx, in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, toAuthResp(res))
}

// Refresh rotates the refresh token and returns a new pair.
func (h *AuthHandler) Refresh(c echo.Context) error {
	var req refreshReq
	if err := c.Bind(&req); err != nil {
		return bindError(c, err)
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	res, err := h.Auth.Refresh(ctx, req.RefreshToken)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, toAuthResp(res))
}

// Logout revokes all refresh tokens of the caller and the access token
// used for this request.
func (h *AuthHandler) Logout(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	jti, exp := middleware.TokenID(c)
	msg, err := h.Auth.Logout(ctx, middleware.Actor(c), jti, exp)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": msg})
}

func (h *AuthHandler) Me(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	u, err := h.Auth.Me(ctx, middleware.Actor(c))
	if err != nil {
		return respondError(c, err)
	}
	return data(c, http.StatusOK, u)
}
