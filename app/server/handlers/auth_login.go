package handlers

import (
	"doc-editor/app/server/directory"
	"doc-editor/app/server/middlewares"
	"errors"
	"net/http"
	"strings"

	"github.com/alexedwards/argon2id"
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r loginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required.Error("Please include valid email"), is.Email.Error("Please include valid email")),
		validation.Field(&r.Password, validation.Required.Error("Password is required")),
	)
}

func (a *App) AuthLogin(c echo.Context) error {
	rctx := c.Request().Context()

	// 绑定请求体
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		a.l.Debug("failed to bind json body", zap.Error(err))
		return a.er(c, http.StatusBadRequest, "Invalid request body")
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.Password = strings.TrimSpace(req.Password)
	if err := req.Validate(); err != nil {
		items, ok := validationItems(err, "email", "password")
		if !ok {
			a.l.Error("failed to validate request", zap.Error(err))
			return a.serverError(c)
		}
		return a.erList(c, http.StatusBadRequest, items)
	}

	user, err := a.dir.FindByEmail(rctx, req.Email)
	if err != nil {
		if errors.Is(err, directory.ErrUserNotFound) {
			return a.er(c, http.StatusBadRequest, "Invalid Credentials")
		}
		a.l.Error("failed to find user", zap.Error(err))
		return a.serverError(c)
	}

	// 提取密码 hash 并进行校验
	if match, _, err := argon2id.CheckHash(req.Password, user.Password); err != nil {
		a.l.Error("failed to check password", zap.String("id", user.ID.String()), zap.Error(err))
		return a.serverError(c)
	} else if !match {
		// 密码不一致
		return a.er(c, http.StatusBadRequest, "Invalid Credentials")
	}

	// 被停用的账号不再签发令牌
	if user.Deactivated {
		return a.er(c, http.StatusForbidden, "Account deactivated")
	}

	return a.respondToken(c, user)
}

func (a *App) AuthCurrentUser(c echo.Context) error {
	claim, ok := middlewares.ClaimFrom(c)
	if !ok {
		return a.er(c, http.StatusUnauthorized, "Unauthorized Request")
	}

	user, err := a.dir.FindProfile(c.Request().Context(), claim.UserID)
	if err != nil {
		if errors.Is(err, directory.ErrUserNotFound) {
			return a.er(c, http.StatusNotFound, "User Not Found")
		}
		a.l.Error("failed to get user", zap.String("id", claim.UserID), zap.Error(err))
		return a.serverError(c)
	}

	return c.JSON(http.StatusOK, user)
}
