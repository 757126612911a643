package handlers

import (
	"doc-editor/app/server/directory"
	"doc-editor/app/server/models"
	"errors"
	"html"
	"net/http"
	"strings"

	"github.com/alexedwards/argon2id"
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r *registerRequest) normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	r.Password = strings.TrimSpace(r.Password)
}

func (r registerRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required.Error("Name is required")),
		validation.Field(&r.Email, validation.Required.Error("Please include valid email"), is.Email.Error("Please include valid email")),
		validation.Field(&r.Password, validation.Required.Error("Please enter valid password"), validation.Length(6, 0).Error("Please enter valid password")),
	)
}

func (a *App) UserRegister(c echo.Context) error {
	rctx := c.Request().Context()

	// 绑定请求体
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		a.l.Debug("failed to bind request", zap.Error(err))
		return a.er(c, http.StatusBadRequest, "Invalid request body")
	}

	// 校验输入
	req.normalize()
	if err := req.Validate(); err != nil {
		items, ok := validationItems(err, "name", "email", "password")
		if !ok {
			a.l.Error("failed to validate request", zap.Error(err))
			return a.serverError(c)
		}
		return a.erList(c, http.StatusBadRequest, items)
	}

	// 检查用户是否已经存在
	if _, err := a.dir.FindByEmail(rctx, req.Email); err == nil {
		return a.er(c, http.StatusBadRequest, "User already exists")
	} else if !errors.Is(err, directory.ErrUserNotFound) {
		a.l.Error("failed to find user", zap.Error(err))
		return a.serverError(c)
	}

	// 处理密码
	passwordHash, err := argon2id.CreateHash(req.Password, argon2id.DefaultParams)
	if err != nil {
		a.l.Error("failed to hash password", zap.Error(err))
		return a.serverError(c)
	}

	// 创建用户
	user := models.User{
		Name:     html.EscapeString(req.Name),
		Email:    req.Email,
		Password: passwordHash,
	}
	if err := a.dir.Create(rctx, &user); err != nil {
		if errors.Is(err, directory.ErrEmailTaken) {
			return a.er(c, http.StatusBadRequest, "User already exists")
		}
		a.l.Error("failed to create user", zap.String("email", user.Email), zap.Error(err))
		return a.serverError(c)
	}

	return a.respondToken(c, &user)
}
