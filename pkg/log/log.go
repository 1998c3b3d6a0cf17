package log

import (
	"go.uber.org/zap"

	"github.com/evalhq/marker/config"
)

// Init builds the global sugared logger from the application log
// configuration. Subsequent zap.S() calls anywhere in the program use it.
func Init(cfg config.LogConfig) {
	conf := zap.NewDevelopmentConfig()
	conf.Level = zap.NewAtomicLevelAt(cfg.Level)
	if cfg.Encoding != "" {
		conf.Encoding = cfg.Encoding
	}
	if cfg.OutputPath != "" {
		conf.OutputPaths = []string{cfg.OutputPath}
		conf.ErrorOutputPaths = []string{cfg.OutputPath}
	}
	zap.ReplaceGlobals(zap.Must(conf.Build()))
}
