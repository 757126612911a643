package handlers

import (
	"doc-editor/app/server/directory"
	"doc-editor/app/server/jwt"
	"doc-editor/app/server/middlewares"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type App struct {
	l   *zap.Logger         // 日志
	dir directory.Directory // 用户目录
	jwt *jwt.JWT            // JWT ，用于无状态验证
}

func NewApp(l *zap.Logger, dir directory.Directory, j *jwt.JWT) *App {
	return &App{
		l:   l,
		dir: dir,
		jwt: j,
	}
}

func (a *App) RegisterHandlers(e *echo.Echo) {
	auth := middlewares.Auth(a.jwt, a.l)

	api := e.Group("/api")
	api.GET("/health", a.HealthCheck)

	api.POST("/auth", a.AuthLogin)
	api.GET("/auth", a.AuthCurrentUser, auth)

	users := api.Group("/users")
	users.POST("", a.UserRegister)
	users.GET("/admin", a.UserList, auth)
	users.PUT("/admin/admin-status/:id", a.UserAdminStatusUpdate, auth)
	users.PUT("/admin/active-status/:id", a.UserActiveStatusUpdate, auth)
}
