// Package logging builds the structured logger threaded through the
// engine, its collections and the snapshot persister, following the
// *zap.SugaredLogger-injection pattern used throughout
// dan-strohschein-SyndrDB's server and buffer-manager packages.
package logging

import "go.uber.org/zap"

// New builds a *zap.SugaredLogger. debug selects zap's development
// config (human-readable, debug level); otherwise a production config
// at warn level is used so routine operations stay quiet, matching
// spec.md §6's "debug: enables structured operation logging".
func New(debug bool) (*zap.SugaredLogger, error) {
	var cfg zap.Config
	if debug {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
		cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	}
	logger, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	return logger.Sugar(), nil
}
