package handlers

import (
	"doc-editor/app/server/directory"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type adminStatusRequest struct {
	IsAdmin *bool `json:"isAdmin"`
}

type activeStatusRequest struct {
	Deactivated *bool `json:"deactivated"`
}

func (a *App) UserList(c echo.Context) error {
	// 抓取 user 信息（认证）
	admin, err, statusCode := a.authAdmin(c)
	if err != nil {
		return a.rejectAdmin(c, err, statusCode)
	}

	// 列出除自己以外的全部用户
	users, err := a.dir.ListExcept(c.Request().Context(), admin.ID.String())
	if err != nil {
		a.l.Error("failed to get user list", zap.Error(err))
		return a.serverError(c)
	}

	return c.JSON(http.StatusOK, users)
}

func (a *App) UserAdminStatusUpdate(c echo.Context) error {
	// 抓取 user 信息（认证）
	_, err, statusCode := a.authAdmin(c)
	if err != nil {
		return a.rejectAdmin(c, err, statusCode)
	}

	// 绑定请求体
	var req adminStatusRequest
	if err = c.Bind(&req); err != nil {
		a.l.Debug("failed to bind request", zap.Error(err))
		return a.er(c, http.StatusBadRequest, "Invalid request body")
	}
	if req.IsAdmin == nil {
		return a.erList(c, http.StatusBadRequest, []errorItem{{Msg: "isAdmin is required", Param: "isAdmin"}})
	}

	return a.userStatusUpdate(c, map[string]any{"is_admin": *req.IsAdmin})
}

func (a *App) UserActiveStatusUpdate(c echo.Context) error {
	// 抓取 user 信息（认证）
	_, err, statusCode := a.authAdmin(c)
	if err != nil {
		return a.rejectAdmin(c, err, statusCode)
	}

	// 绑定请求体
	var req activeStatusRequest
	if err = c.Bind(&req); err != nil {
		a.l.Debug("failed to bind request", zap.Error(err))
		return a.er(c, http.StatusBadRequest, "Invalid request body")
	}
	if req.Deactivated == nil {
		return a.erList(c, http.StatusBadRequest, []errorItem{{Msg: "deactivated is required", Param: "deactivated"}})
	}

	return a.userStatusUpdate(c, map[string]any{"deactivated": *req.Deactivated})
}

func (a *App) userStatusUpdate(c echo.Context, fields map[string]any) error {
	id := c.Param("id")

	// 更新用户信息
	user, err := a.dir.Update(c.Request().Context(), id, fields)
	if err != nil {
		if errors.Is(err, directory.ErrUserNotFound) {
			return a.er(c, http.StatusNotFound, "User Not Found")
		}
		a.l.Error("failed to update user", zap.String("id", id), zap.Any("fields", fields), zap.Error(err))
		return a.serverError(c)
	}

	return c.JSON(http.StatusOK, user)
}
