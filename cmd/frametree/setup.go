package main

import (
	"context"
	stderrors "errors"
	"log/slog"

	"github.com/vango-dev/frametree/internal/config"
	"github.com/vango-dev/frametree/internal/errors"
	"github.com/vango-dev/frametree/pkg/construct"
	"github.com/vango-dev/frametree/pkg/fixture"
	"github.com/vango-dev/frametree/pkg/middleware"
	"github.com/vango-dev/frametree/pkg/protocol"
	"github.com/vango-dev/frametree/pkg/snapshot"
)

func loadConfig(dir string) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if dir != "" {
		cfg, err = config.Load(dir)
	} else {
		cfg, err = config.LoadFromWorkingDir()
	}
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func depthLimits(cfg *config.Config) *protocol.DepthLimits {
	return &protocol.DepthLimits{FragmentDepth: cfg.MaxFragmentDepth}
}

// newConstructor wires the constructor middleware chain. Recover runs
// innermost so the others observe builder protocol violations as errors.
func newConstructor(reg *construct.Registry, logger *slog.Logger, mw ...construct.Middleware) *construct.Constructor {
	chain := append(mw, middleware.Logging(logger), middleware.Recover(logger))
	return construct.New(reg,
		construct.WithLogger(logger),
		construct.WithMiddleware(chain...),
	)
}

// newStore opens the snapshot store selected by cfg.
func newStore(cfg *config.Config) (snapshot.Store, error) {
	switch cfg.Snapshot.Backend {
	case config.BackendS3:
		client := snapshot.NewS3Client(snapshot.S3Config{
			Region:          cfg.Snapshot.Region,
			Endpoint:        cfg.Snapshot.Endpoint,
			AccessKeyID:     cfg.Snapshot.AccessKeyID,
			SecretAccessKey: cfg.Snapshot.SecretAccessKey,
		})
		return snapshot.NewS3Store(client, cfg.Snapshot.Bucket, cfg.Snapshot.Prefix), nil
	default:
		store, err := snapshot.NewFileStore(cfg.SnapshotDir())
		if err != nil {
			return nil, errors.New("F060").Wrap(err)
		}
		return store, nil
	}
}

// diagnose converts err into a coded diagnostic for printing.
func diagnose(err error) error {
	if err == nil {
		return nil
	}
	var d *errors.Diagnostic
	if stderrors.As(err, &d) {
		return d
	}

	var ferr *fixture.Error
	if stderrors.As(err, &ferr) {
		code := "F020"
		switch {
		case stderrors.Is(err, fixture.ErrNode):
			code = "F021"
		case stderrors.Is(err, fixture.ErrAttribute):
			code = "F022"
		}
		return errors.New(code).
			WithDetail(ferr.Detail).
			WithLocation(ferr.File, ferr.Line, ferr.Column)
	}

	switch {
	case stderrors.Is(err, snapshot.ErrNotFound), stderrors.Is(err, snapshot.ErrInvalidKey):
		return errors.New("F061").Wrap(err)
	case stderrors.Is(err, context.Canceled):
		return err
	}
	return errors.FromConstruct(err, "F082")
}
