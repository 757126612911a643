package inits

import (
	"fmt"

	"go.uber.org/zap"
)

func Logger(debugMode bool) (*zap.Logger, error) {
	var zc zap.Config
	if debugMode {
		zc = zap.NewDevelopmentConfig()
	} else {
		zc = zap.NewProductionConfig()
	}

	l, err := zc.Build()
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	return l.Named("doc-editor"), nil
}
