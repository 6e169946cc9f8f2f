package server

import (
	"context"
	"errors"
	"log/slog"

	"github.com/preston-bernstein/worldcup-sim/internal/app/forecasts"
	"github.com/preston-bernstein/worldcup-sim/internal/config"
	"github.com/preston-bernstein/worldcup-sim/internal/logging"
	"github.com/preston-bernstein/worldcup-sim/internal/snapshots"
)

type snapshotComponents struct {
	store  snapshots.Store
	writer *snapshots.Writer
}

func buildSnapshots(cfg config.Config) snapshotComponents {
	basePath := cfg.Results.Dir
	return snapshotComponents{
		store:  snapshots.NewFSStore(basePath),
		writer: snapshots.NewWriter(basePath, cfg.Results.Retention),
	}
}

// seedForecast resumes from the newest snapshot when the store holds no forecast yet.
func seedForecast(ctx context.Context, svc *forecasts.Service, snaps snapshots.Store, logger *slog.Logger) {
	if svc == nil || snaps == nil {
		return
	}
	if _, ok, err := svc.Current(ctx); err != nil || ok {
		return
	}
	latest, err := snaps.Latest()
	if err != nil {
		if !errors.Is(err, snapshots.ErrNoSnapshots) {
			logging.Warn(logger, "could not load latest snapshot", slog.Any("err", err))
		}
		return
	}
	if err := svc.Replace(ctx, latest); err != nil {
		logging.Warn(logger, "could not seed forecast from snapshot", slog.Any("err", err))
		return
	}
	logging.Info(logger, "resumed forecast from snapshot",
		slog.String(logging.FieldRunID, latest.RunID),
		slog.Int(logging.FieldIterations, latest.Iterations),
	)
}
