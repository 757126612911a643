package middlewares

import (
	"doc-editor/app/server/constants"
	"doc-editor/app/server/jwt"
	"net/http"

	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type authMessage struct {
	Msg string `json:"msg"`
}

// Auth 只确认请求者是谁，是否有权限由具体的 handler 从数据库读取后判断
func Auth(j *jwt.JWT, l *zap.Logger) echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		ContextKey:  constants.AuthContextKey,
		TokenLookup: "header:" + constants.AuthTokenHeader,
		ParseTokenFunc: func(c echo.Context, auth string) (interface{}, error) {
			return j.Decode(auth)
		},
		ErrorHandler: func(c echo.Context, err error) error {
			// 没有带 token
			if c.Request().Header.Get(constants.AuthTokenHeader) == "" {
				l.Debug("reject request without token", zap.String("path", c.Request().URL.Path))
				return c.JSON(http.StatusUnauthorized, &authMessage{Msg: "Authorization denied"})
			}

			// token 无效（格式错误、签名不符或已过期）
			l.Debug("reject request with invalid token", zap.String("path", c.Request().URL.Path), zap.Error(err))
			return c.JSON(http.StatusUnauthorized, &authMessage{Msg: "Invalid token"})
		},
	})
}

// ClaimFrom 取出 Auth 中间件放进 context 的身份信息
func ClaimFrom(c echo.Context) (*jwt.Claim, bool) {
	claim, ok := c.Get(constants.AuthContextKey).(*jwt.Claim)
	return claim, ok && claim != nil
}
