package logger

import (
	"go.uber.org/zap"
)

// New builds the process logger and installs it as the zap global so shared
// helpers (pkg/response) can reach it without a handle.
func New(appEnv string) (*zap.Logger, error) {
	var (
		log *zap.Logger
		err error
	)

	if appEnv == "production" {
		log, err = zap.NewProduction()
	} else {
		log, err = zap.NewDevelopment()
	}
	if err != nil {
		return nil, err
	}

	zap.ReplaceGlobals(log)
	return log, nil
}
