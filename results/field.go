package results

import (
	"context"
	"fmt"
	"strings"

	"github.com/uptrace/bun"
	"go.uber.org/zap"

	"github.com/padraicbc/golfpickem/leaderboard"
	"github.com/padraicbc/golfpickem/models"
)

// Field returns the golfer names entered in the tournament. A fresh field
// page is stored; when the page cannot be read the last stored field is
// returned instead, and nil when there is none.
func (s *Service) Field(ctx context.Context, t *models.Tournament) []string {
	if !t.HasExternalID() {
		return nil
	}

	names := make([]string, 0, 160)
	for _, r := range s.source.Fetch(ctx, *t.ExternalID, leaderboard.ModeField) {
		if name := strings.TrimSpace(r.Player); name != "" {
			names = append(names, name)
		}
	}

	if len(names) > 0 {
		if err := s.storeField(ctx, t.ID, names); err != nil {
			s.log.Warn("storing tournament field failed",
				zap.Int64("tournament_id", t.ID),
				zap.Error(err),
			)
		}
		return names
	}

	stored, err := s.storedField(ctx, t.ID)
	if err != nil {
		s.log.Warn("loading stored tournament field failed",
			zap.Int64("tournament_id", t.ID),
			zap.Error(err),
		)
		return nil
	}
	return stored
}

// storeField records names as the tournament's field. Golfers stored earlier
// but missing from names are marked withdrawn.
func (s *Service) storeField(ctx context.Context, tournamentID int64, names []string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	ids := make([]int64, 0, len(names))
	for _, name := range names {
		player, err := getOrCreatePlayer(ctx, tx, name)
		if err != nil {
			return err
		}
		ids = append(ids, player.ID)

		entry := &models.TournamentField{
			TournamentID: tournamentID,
			PlayerID:     player.ID,
			Status:       models.FieldIn,
		}
		if _, err := tx.NewInsert().
			Model(entry).
			On("CONFLICT (tournament_id, player_id) DO UPDATE").
			Set("status = EXCLUDED.status").
			Exec(ctx); err != nil {
			return fmt.Errorf("store field entry %q: %w", name, err)
		}
	}

	if _, err := tx.NewUpdate().
		Model((*models.TournamentField)(nil)).
		Set("status = ?", models.FieldWD).
		Where("tournament_id = ?", tournamentID).
		Where("player_id NOT IN (?)", bun.In(ids)).
		Exec(ctx); err != nil {
		return fmt.Errorf("mark withdrawals: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true

	s.log.Debug("tournament field stored",
		zap.Int64("tournament_id", tournamentID),
		zap.Int("golfers", len(ids)),
	)
	return nil
}

// storedField lists the golfers still entered, in name order.
func (s *Service) storedField(ctx context.Context, tournamentID int64) ([]string, error) {
	var entries []models.TournamentField
	if err := s.db.NewSelect().
		Model(&entries).
		Relation("Player").
		Where("tf.tournament_id = ?", tournamentID).
		Where("tf.status = ?", models.FieldIn).
		Order("player.full_name").
		Scan(ctx); err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, nil
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.Player != nil {
			names = append(names, e.Player.FullName)
		}
	}
	return names, nil
}
