// Package handler exposes the HTTP handlers of the service: the health check,
// the /bfhl computation endpoint and the error handler that shapes 404 and
// 500 responses.
package handler

import (
	"io"
	"net/http"

	"github.com/cockroachdb/errors"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iliyamo/bfhl-service/internal/metrics"
	"github.com/iliyamo/bfhl-service/internal/model"
	"github.com/iliyamo/bfhl-service/internal/service"
)

// operationUnknown labels rejections that happened before the key was known.
const operationUnknown = "unknown"

// Handler bundles what the endpoints need to answer a request.
type Handler struct {
	email      string              // official email echoed in every envelope
	parser     *service.Parser     // validates /bfhl bodies
	dispatcher *service.Dispatcher // runs validated requests
	metrics    *metrics.Metrics    // optional, nil disables counting
	log        *zap.SugaredLogger
}

// New constructs a Handler and panics if a required dependency is nil.
func New(email string, parser *service.Parser, dispatcher *service.Dispatcher, m *metrics.Metrics, log *zap.SugaredLogger) *Handler {
	if parser == nil || dispatcher == nil { // both are needed on every /bfhl request
		panic("nil dependency passed to handler.New")
	}
	if log == nil {
		log = zap.S()
	}
	return &Handler{
		email:      email,
		parser:     parser,
		dispatcher: dispatcher,
		metrics:    m,
		log:        log.With("module", "handler"),
	}
}

// Compute handles POST /bfhl. The body is read whatever its content type and
// validated; validation failures answer 400 with the matching error code.
// Errors from the dispatcher are returned to echo so the error handler can
// render the 500 envelope.
func (h *Handler) Compute(c echo.Context) error {
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return errors.Wrap(err, "read request body")
	}

	req, verr := h.parser.Parse(body)
	if verr != nil {
		op := string(verr.Operation)
		if op == "" {
			op = operationUnknown
		}
		h.metrics.ObserveComputation(op, string(verr.Code))
		h.log.Debugw("request rejected", "code", verr.Code, "reason", verr.Reason)
		return c.JSON(http.StatusBadRequest, model.Failure(h.email, verr.Code))
	}

	data, err := h.dispatcher.Dispatch(c.Request().Context(), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, model.Success(h.email, data))
}
