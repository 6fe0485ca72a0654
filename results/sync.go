package results

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"
	"go.uber.org/zap"

	"github.com/padraicbc/golfpickem/leaderboard"
	"github.com/padraicbc/golfpickem/models"
)

// SyncOutcome describes one earnings sync.
type SyncOutcome struct {
	TournamentID int64 `json:"tournamentID"`
	// Skipped is set when the tournament has no external id; picks were left untouched.
	Skipped bool `json:"skipped"`
	Picks   int  `json:"picks"`
	Matched int  `json:"matched"`
}

// Syncer recomputes Pick.earnings from stored results.
type Syncer struct {
	db  *bun.DB
	log *zap.Logger

	mu    sync.Mutex
	locks map[int64]*sync.Mutex
}

// NewSyncer creates a Syncer over db.
func NewSyncer(db *bun.DB, log *zap.Logger) *Syncer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Syncer{db: db, log: log, locks: make(map[int64]*sync.Mutex)}
}

// lockFor returns the mutex serializing syncs of one tournament.
func (s *Syncer) lockFor(tournamentID int64) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.locks[tournamentID]; !ok {
		s.locks[tournamentID] = &sync.Mutex{}
	}
	return s.locks[tournamentID]
}

// Sync sets every pick of the tournament to the matching result's earnings
// times the tournament multiplier, or zero when the scoring golfer has no
// result. All picks are written in one transaction.
func (s *Syncer) Sync(ctx context.Context, tournamentID int64) (SyncOutcome, error) {
	lock := s.lockFor(tournamentID)
	lock.Lock()
	defer lock.Unlock()

	out := SyncOutcome{TournamentID: tournamentID}

	t := new(models.Tournament)
	if err := s.db.NewSelect().Model(t).Where("t.id = ?", tournamentID).Scan(ctx); err != nil {
		return out, fmt.Errorf("load tournament %d: %w", tournamentID, err)
	}

	if !t.HasExternalID() {
		out.Skipped = true
		s.log.Info("earnings sync skipped: tournament has no external id",
			zap.Int64("tournament_id", t.ID),
			zap.String("tournament", t.Name),
		)
		return out, nil
	}

	var results []models.Result
	if err := s.db.NewSelect().
		Model(&results).
		Relation("Player").
		Where("r.tournament_id = ?", tournamentID).
		Scan(ctx); err != nil {
		return out, fmt.Errorf("load results: %w", err)
	}

	byName := make(map[string]*models.Result, len(results))
	for i := range results {
		r := &results[i]
		if r.Player == nil {
			continue
		}
		if key := leaderboard.NormalizeName(r.Player.FullName); key != "" {
			byName[key] = r
		}
	}

	var picks []models.Pick
	if err := s.db.NewSelect().
		Model(&picks).
		Where("p.tournament_id = ?", tournamentID).
		Order("p.id").
		Scan(ctx); err != nil {
		return out, fmt.Errorf("load picks: %w", err)
	}

	multiplier := t.EffectiveMultiplier()
	now := time.Now().UTC()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return out, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	for i := range picks {
		p := &picks[i]
		earnings := decimal.Zero
		if r, ok := byName[leaderboard.NormalizeName(p.ScoringName())]; ok {
			earnings = r.Earnings.Mul(multiplier)
			out.Matched++
		}

		p.Earnings = earnings
		p.UpdatedAt = now
		if _, err := tx.NewUpdate().
			Model(p).
			Column("earnings", "updated_at").
			WherePK().
			Exec(ctx); err != nil {
			return out, fmt.Errorf("update pick %d: %w", p.ID, err)
		}
		out.Picks++
	}

	if err := tx.Commit(); err != nil {
		return out, err
	}
	committed = true

	s.log.Info("earnings synced",
		zap.Int64("tournament_id", t.ID),
		zap.Int("picks", out.Picks),
		zap.Int("matched", out.Matched),
		zap.String("multiplier", multiplier.String()),
	)
	return out, nil
}
