package handlers

import (
	"doc-editor/app/server/directory"
	"doc-editor/app/server/middlewares"
	"doc-editor/app/server/models"
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

var errUnauthorizedRequest = errors.New("unauthorized request")

// 令牌里只有用户 ID ，管理员身份每次都从用户目录重新读取，这样权限变更能在下一次请求立即生效
func (a *App) authAdmin(c echo.Context) (*models.User, error, int) {
	claim, ok := middlewares.ClaimFrom(c)
	if !ok {
		return nil, errUnauthorizedRequest, http.StatusUnauthorized
	}

	user, err := a.dir.FindByID(c.Request().Context(), claim.UserID)
	if err != nil {
		if errors.Is(err, directory.ErrUserNotFound) {
			return nil, errUnauthorizedRequest, http.StatusUnauthorized
		}
		return nil, fmt.Errorf("find requesting user: %w", err), http.StatusInternalServerError
	}

	// 验证权限，被停用的管理员也不能继续操作
	if !user.IsAdmin || user.Deactivated {
		return nil, errUnauthorizedRequest, http.StatusUnauthorized
	}

	return user, nil, http.StatusOK
}

func (a *App) rejectAdmin(c echo.Context, err error, statusCode int) error {
	if statusCode == http.StatusInternalServerError {
		a.l.Error("failed to authorize admin", zap.Error(err))
		return a.serverError(c)
	}
	return a.er(c, statusCode, "Unauthorized Request")
}
