package handler

import (
	"fmt"
	"net/http"

	"github.com/cockroachdb/errors"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/bfhl-service/internal/model"
)

// HandleError is installed as echo's HTTPErrorHandler. Unmatched routes and
// methods answer 404 {"detail":"Not Found"}, oversized bodies 413 with the
// payload_too_large envelope; anything else is unexpected and answers 500
// with the internal_server_error envelope.
func (h *Handler) HandleError(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	var he *echo.HTTPError
	if errors.As(err, &he) {
		switch he.Code {
		case http.StatusNotFound, http.StatusMethodNotAllowed:
			h.write(c, http.StatusNotFound, model.NotFoundBody)
			return
		case http.StatusRequestEntityTooLarge:
			h.write(c, http.StatusRequestEntityTooLarge, model.Failure(h.email, model.CodePayloadTooLarge))
			return
		}
	}

	h.log.Errorw("unhandled error",
		"method", c.Request().Method,
		"path", c.Request().URL.Path,
		"error", fmt.Sprintf("%+v", err),
	)
	h.write(c, http.StatusInternalServerError, model.Failure(h.email, model.CodeInternal))
}

func (h *Handler) write(c echo.Context, status int, body any) {
	var err error
	if c.Request().Method == http.MethodHead {
		err = c.NoContent(status)
	} else {
		err = c.JSON(status, body)
	}
	if err != nil {
		h.log.Warnw("write error response failed", "status", status, "error", err)
	}
}
