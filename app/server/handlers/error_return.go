package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

type errorItem struct {
	Msg   string `json:"msg"`
	Param string `json:"param,omitempty"`
}

type errorsResponse struct {
	Errors []errorItem `json:"errors"`
}

func (a *App) er(c echo.Context, statusCode int, msg string) error {
	return c.JSON(statusCode, &errorsResponse{
		Errors: []errorItem{{Msg: msg}},
	})
}

func (a *App) erList(c echo.Context, statusCode int, items []errorItem) error {
	return c.JSON(statusCode, &errorsResponse{
		Errors: items,
	})
}

func (a *App) serverError(c echo.Context) error {
	return c.String(http.StatusInternalServerError, "Server Error")
}
