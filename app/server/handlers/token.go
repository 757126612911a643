package handlers

import (
	"doc-editor/app/server/constants"
	"doc-editor/app/server/jwt"
	"doc-editor/app/server/models"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type tokenResponse struct {
	Token string `json:"token"`
}

func (a *App) respondToken(c echo.Context, user *models.User) error {
	// 签出 JWT
	token, err := a.jwt.Encode(jwt.Claim{UserID: user.ID.String()}, constants.AuthTokenDuration)
	if err != nil {
		a.l.Error("failed to sign token", zap.String("id", user.ID.String()), zap.Error(err))
		return a.serverError(c)
	}

	return c.JSON(http.StatusOK, &tokenResponse{
		Token: token,
	})
}
