package results

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"
	"go.uber.org/zap"

	"github.com/padraicbc/golfpickem/leaderboard"
	"github.com/padraicbc/golfpickem/models"
)

// ErrNegativeEarnings rejects a manual correction below zero.
var ErrNegativeEarnings = errors.New("earnings must not be negative")

// Service ties the leaderboard source to result storage and pick earnings.
type Service struct {
	db       *bun.DB
	source   leaderboard.Source
	syncer   *Syncer
	upserter *Upserter
	log      *zap.Logger
}

// NewService wires a Syncer and Upserter over db, reading rows from source.
func NewService(db *bun.DB, source leaderboard.Source, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	syncer := NewSyncer(db, log.Named("sync"))
	return &Service{
		db:       db,
		source:   source,
		syncer:   syncer,
		upserter: NewUpserter(db, syncer, log.Named("upsert")),
		log:      log,
	}
}

// Sync recomputes pick earnings for one tournament.
func (s *Service) Sync(ctx context.Context, tournamentID int64) (SyncOutcome, error) {
	return s.syncer.Sync(ctx, tournamentID)
}

// Leaderboard returns the rows appropriate to the tournament's phase at now:
// the field before the pick lock, the live board while it is played, and the
// final results afterwards. Final results are stored and synced into picks
// before returning. Failures only ever shrink the returned rows.
func (s *Service) Leaderboard(ctx context.Context, t *models.Tournament, now time.Time) (leaderboard.Mode, []leaderboard.Row) {
	mode := leaderboard.ModeFor(t.StatusAt(now))
	if !t.HasExternalID() {
		return mode, []leaderboard.Row{}
	}

	rows := s.source.Fetch(ctx, *t.ExternalID, mode)
	if mode == leaderboard.ModeFinal && len(rows) > 0 {
		if _, err := s.upserter.Upsert(ctx, t, rows); err != nil {
			s.log.Error("ingesting final results failed",
				zap.Int64("tournament_id", t.ID),
				zap.Error(err),
			)
		}
	}
	return mode, rows
}

// Refresh fetches and stores final results for a tournament whatever its
// derived status, then syncs picks. Used by operators after corrections on
// the source side.
func (s *Service) Refresh(ctx context.Context, tournamentID int64) (UpsertSummary, error) {
	t, err := s.tournament(ctx, tournamentID)
	if err != nil {
		return UpsertSummary{}, err
	}

	var rows []leaderboard.Row
	if t.HasExternalID() {
		rows = s.source.Fetch(ctx, *t.ExternalID, leaderboard.ModeFinal)
	}
	return s.upserter.Upsert(ctx, t, rows)
}

// CorrectEarnings records an operator's amount for one result and re-syncs
// its tournament. Later zero scrapes will not overwrite a positive amount.
func (s *Service) CorrectEarnings(ctx context.Context, resultID int64, amount decimal.Decimal, notes *string) (*models.Result, SyncOutcome, error) {
	if amount.IsNegative() {
		return nil, SyncOutcome{}, ErrNegativeEarnings
	}

	res := new(models.Result)
	if err := s.db.NewSelect().Model(res).Where("r.id = ?", resultID).Scan(ctx); err != nil {
		return nil, SyncOutcome{}, fmt.Errorf("load result %d: %w", resultID, err)
	}

	res.Earnings = amount.Round(2)
	cols := []string{"earnings"}
	if notes != nil {
		res.Notes = notes
		cols = append(cols, "notes")
	}
	if _, err := s.db.NewUpdate().Model(res).Column(cols...).WherePK().Exec(ctx); err != nil {
		return nil, SyncOutcome{}, fmt.Errorf("update result %d: %w", resultID, err)
	}

	s.log.Info("result earnings corrected",
		zap.Int64("result_id", res.ID),
		zap.Int64("tournament_id", res.TournamentID),
		zap.String("earnings", res.Earnings.String()),
	)

	out, err := s.syncer.Sync(ctx, res.TournamentID)
	return res, out, err
}

func (s *Service) tournament(ctx context.Context, id int64) (*models.Tournament, error) {
	t := new(models.Tournament)
	if err := s.db.NewSelect().Model(t).Where("t.id = ?", id).Scan(ctx); err != nil {
		return nil, fmt.Errorf("load tournament %d: %w", id, err)
	}
	return t, nil
}
