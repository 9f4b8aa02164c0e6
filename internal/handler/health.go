package handler // declare the package name; contains HTTP handlers

import (
	"net/http" // net/http provides status codes

	"github.com/labstack/echo/v4" // echo is the web framework used for this project

	"github.com/iliyamo/bfhl-service/internal/model"
)

// Health is the liveness endpoint used by load balancers and monitoring. It
// always answers 200 with a success envelope carrying the official email.
func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, model.Health(h.email)) // JSON writes the envelope with a 200 status
}
