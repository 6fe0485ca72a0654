// cmd/refresh/main.go
// Operator tool for re-ingesting final results and recomputing pick earnings.
//
// Usage:
//
//	go run ./cmd/refresh -tournament 12            # fetch final results, store, sync picks
//	go run ./cmd/refresh -tournament 12 -sync-only # only recompute pick earnings
//	go run ./cmd/refresh -season 3                 # materialize user_season_stats
//	go run ./cmd/refresh -lock                     # lock picks whose tournament has started
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/padraicbc/golfpickem/config"
	bundb "github.com/padraicbc/golfpickem/db"
	"github.com/padraicbc/golfpickem/leaderboard"
	applog "github.com/padraicbc/golfpickem/logger"
	"github.com/padraicbc/golfpickem/picks"
	"github.com/padraicbc/golfpickem/results"
	"github.com/padraicbc/golfpickem/standings"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

// run performs the requested operations and returns the process exit code.
// Deferred cleanup runs before main exits.
func run(args []string) int {
	fs := flag.NewFlagSet("refresh", flag.ContinueOnError)
	tournamentID := fs.Int64("tournament", 0, "tournament id to refresh")
	syncOnly := fs.Bool("sync-only", false, "skip fetching; only recompute pick earnings")
	seasonID := fs.Int64("season", 0, "season id whose stats to materialize")
	lock := fs.Bool("lock", false, "lock pending picks whose lock time has passed")
	timeout := fs.Duration("timeout", 2*time.Minute, "overall deadline")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	if *tournamentID == 0 && *seasonID == 0 && !*lock {
		fmt.Fprintln(os.Stderr, "one of -tournament, -season or -lock is required")
		fs.Usage()
		return 2
	}

	cfg := config.Load()
	logger, err := applog.New("golfpickem-refresh", cfg.Debug)
	if err != nil {
		fmt.Fprintln(os.Stderr, "logger:", err)
		return 1
	}
	defer func() { _ = logger.Sync() }()

	db := bundb.Setup(cfg)
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	source, closeSource := leaderboard.Setup(cfg, applog.Component(logger, "leaderboard"))
	defer closeSource()
	res := results.NewService(db, source, applog.Component(logger, "results"))

	if *lock {
		svc := picks.NewService(db, nil, res, cfg.Location(), applog.Component(logger, "picks"))
		n, err := svc.LockDue(ctx, time.Now())
		if err != nil {
			logger.Error("locking picks failed", zap.Error(err))
			return 1
		}
		logger.Info("locked picks", zap.Int("count", n))
	}

	if *tournamentID != 0 {
		if *syncOnly {
			out, err := res.Sync(ctx, *tournamentID)
			if err != nil {
				logger.Error("sync failed", zap.Int64("tournament_id", *tournamentID), zap.Error(err))
				return 1
			}
			logger.Info("sync finished",
				zap.Int64("tournament_id", out.TournamentID),
				zap.Bool("skipped", out.Skipped),
				zap.Int("picks", out.Picks),
				zap.Int("matched", out.Matched),
			)
		} else {
			sum, err := res.Refresh(ctx, *tournamentID)
			if err != nil {
				logger.Error("refresh failed", zap.Int64("tournament_id", *tournamentID), zap.Error(err))
				return 1
			}
			logger.Info("refresh finished",
				zap.Int64("tournament_id", *tournamentID),
				zap.Int("created", sum.Created),
				zap.Int("updated", sum.Updated),
				zap.Int("kept", sum.Kept),
				zap.Int("skipped", sum.Skipped),
				zap.Int("picks_synced", sum.Sync.Picks),
			)
		}
	}

	if *seasonID != 0 {
		n, err := standings.NewService(db, applog.Component(logger, "standings")).Materialize(ctx, *seasonID)
		if err != nil {
			logger.Error("materialize failed", zap.Int64("season_id", *seasonID), zap.Error(err))
			return 1
		}
		logger.Info("season stats materialized", zap.Int64("season_id", *seasonID), zap.Int("members", n))
	}
	return 0
}
