// Package logging builds the zap logger used across the service.
package logging

import (
	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
)

// New returns a JSON production logger for prod and a colored development
// logger otherwise. The logger is also installed as zap's global so packages
// that call zap.S() share its configuration.
func New(env string) (*zap.Logger, error) {
	var (
		logger *zap.Logger
		err    error
	)
	switch env {
	case "prod", "production":
		logger, err = zap.NewProduction()
	default:
		cfg := zap.NewDevelopmentConfig()
		cfg.DisableStacktrace = true
		logger, err = cfg.Build()
	}
	if err != nil {
		return nil, errors.Wrapf(err, "build %s logger", env)
	}
	zap.ReplaceGlobals(logger)
	return logger, nil
}
