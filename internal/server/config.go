package server

import (
	"errors"
	"io/fs"

	"SimTuning/internal/constants"

	"go.uber.org/zap"
)

type AppConfig struct {
	ConfigPath         string
	EnvPrefix          string
	Overrides          constants.Values
	FallbackToDefaults bool
}

func DefaultAppConfig() AppConfig {
	return AppConfig{
		ConfigPath: "configs/constants.json",
		EnvPrefix:  "SIMTUNING_",
	}
}

// loadConstantsFile returns a nil source when there is no file to read.
func loadConstantsFile(path string, logger *zap.Logger) (constants.Source, error) {
	if path == "" {
		return nil, nil
	}
	raw, err := constants.LoadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			logger.Info("constants file not found, using defaults", zap.String("path", path))
			return nil, nil
		}
		return nil, err
	}
	logger.Debug("constants file loaded", zap.String("path", path), zap.Int("entries", len(raw)))
	return raw, nil
}

// buildSource layers overrides over the environment over the data file.
func buildSource(cfg AppConfig, logger *zap.Logger) (constants.Layered, error) {
	file, err := loadConstantsFile(cfg.ConfigPath, logger)
	if err != nil {
		return nil, err
	}
	src := constants.Layered{cfg.Overrides}
	if cfg.EnvPrefix != "" {
		src = append(src, constants.Env{Prefix: cfg.EnvPrefix})
	}
	if file != nil {
		src = append(src, file)
	}
	return src, nil
}
