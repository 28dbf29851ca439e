package server

import (
	"context"
	"errors"
	"fmt"
	"net"

	"SimTuning/internal/constants"
	"SimTuning/internal/logging"

	"go.uber.org/zap"
)

// LoadConstants initializes store from the sources named by cfg.
// When initialization fails and cfg.FallbackToDefaults is set, the store
// is initialized from compiled-in defaults alone. A store that is already
// ready is left alone and reported with ErrAlreadyInitialized.
func LoadConstants(cfg AppConfig, store *constants.Store, logger *zap.Logger) error {
	logger = logging.OrNop(logger)
	if store.Ready() {
		return fmt.Errorf("load constants: %w", constants.ErrAlreadyInitialized)
	}

	src, err := buildSource(cfg, logger)
	if err == nil {
		for _, name := range constants.Unrecognized(store.Schema(), src) {
			logger.Warn("ignoring unrecognized constant", zap.String("name", name))
		}
		err = store.Init(src)
	}
	if err == nil {
		return nil
	}
	if !cfg.FallbackToDefaults || errors.Is(err, constants.ErrAlreadyInitialized) {
		return fmt.Errorf("load constants: %w", err)
	}

	logger.Error("constants rejected, falling back to defaults", zap.Error(err))
	if err := store.Init(nil); err != nil {
		return fmt.Errorf("load default constants: %w", err)
	}
	return nil
}

// StartApp loads the constants into store and serves them on addr until ctx ends.
func StartApp(ctx context.Context, addr string, cfg AppConfig, store *constants.Store, logger *zap.Logger) error {
	logger = logging.OrNop(logger)

	if err := LoadConstants(cfg, store, logger); err != nil {
		return err
	}
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	tbl := store.MustGet()
	fields := make([]zap.Field, 0, len(constants.Names())+1)
	fields = append(fields, zap.Stringer("addr", ln.Addr()))
	for _, name := range constants.Names() {
		v, _ := tbl.Value(name)
		fields = append(fields, zap.Float64(name, v))
	}
	logger.Info("starting constants server", fields...)

	hub := NewHub()
	return startServer(ctx, ln, newMux(store, hub, logger), hub, logger)
}
