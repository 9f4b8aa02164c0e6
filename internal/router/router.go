package router // package router assembles the echo instance and its routes

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/iliyamo/bfhl-service/internal/handler"
	"github.com/iliyamo/bfhl-service/internal/metrics"
	"github.com/iliyamo/bfhl-service/internal/middleware"
)

// DefaultBodyLimit caps request bodies when Options.BodyLimit is empty.
const DefaultBodyLimit = "64K"

// Options are the collaborators New wires into the echo instance. Metrics and
// Cache are optional. BodyLimit uses echo's size syntax, e.g. "64K" or "1M".
type Options struct {
	Handler   *handler.Handler
	Logger    *zap.SugaredLogger
	Metrics   *metrics.Metrics
	Cache     echo.MiddlewareFunc
	BodyLimit string
}

// New returns an echo instance with the global middleware chain, the error
// handler and all routes registered.
func New(o Options) *echo.Echo {
	log := o.Logger
	if log == nil {
		log = zap.S()
	}

	bodyLimit := o.BodyLimit
	if bodyLimit == "" {
		bodyLimit = DefaultBodyLimit
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	// routing misses arrive here as echo.ErrNotFound / ErrMethodNotAllowed
	e.HTTPErrorHandler = o.Handler.HandleError

	e.Use(echomw.RequestIDWithConfig(echomw.RequestIDConfig{Generator: uuid.NewString}))
	e.Use(middleware.RequestLogger(log.With("module", "http")))
	e.Use(echomw.RecoverWithConfig(echomw.RecoverConfig{
		LogErrorFunc: func(c echo.Context, err error, stack []byte) error {
			log.Errorw("panic recovered", "path", c.Request().URL.Path, "error", err, "stack", string(stack))
			return err
		},
	}))
	// CORS: any origin may call any route
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{AllowOrigins: []string{"*"}}))
	e.Use(o.Metrics.Middleware())
	e.Use(echomw.BodyLimit(bodyLimit))

	RegisterRoutes(e, o.Handler, o.Cache)
	return e
}

// RegisterRoutes maps the public endpoints. cache, when non-nil, wraps only
// the computation route.
func RegisterRoutes(e *echo.Echo, h *handler.Handler, cache echo.MiddlewareFunc) {
	e.GET("/health", h.Health)

	var mws []echo.MiddlewareFunc
	if cache != nil {
		mws = append(mws, cache)
	}
	e.POST("/bfhl", h.Compute, mws...)
}
