package results

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/uptrace/bun"
	"go.uber.org/zap"

	"github.com/padraicbc/golfpickem/leaderboard"
	"github.com/padraicbc/golfpickem/models"
)

// totals that mean the golfer did not play the weekend.
var missedCut = map[string]bool{
	"MC": true,
	"WD": true,
	"DQ": true,
	"":   true,
}

// UpsertSummary counts what happened to each row of one ingestion.
type UpsertSummary struct {
	Created int `json:"created"`
	Updated int `json:"updated"`
	// Kept counts existing non-zero earnings that a zero scrape did not overwrite.
	Kept    int         `json:"kept"`
	Skipped int         `json:"skipped"`
	Sync    SyncOutcome `json:"sync"`
}

type rowOutcome int

const (
	rowCreated rowOutcome = iota
	rowUpdated
	rowKept
)

// Upserter reconciles final leaderboard rows into stored results.
type Upserter struct {
	db     *bun.DB
	syncer *Syncer
	log    *zap.Logger
}

// NewUpserter creates an Upserter that hands off to syncer once rows are stored.
func NewUpserter(db *bun.DB, syncer *Syncer, log *zap.Logger) *Upserter {
	if log == nil {
		log = zap.NewNop()
	}
	return &Upserter{db: db, syncer: syncer, log: log}
}

// Upsert stores one tournament's final rows and then syncs pick earnings.
// Rows are applied in order, each in its own transaction; a bad row is logged
// and skipped. Only a failed sync is returned as an error.
func (u *Upserter) Upsert(ctx context.Context, t *models.Tournament, rows []leaderboard.Row) (UpsertSummary, error) {
	var sum UpsertSummary

	for i, row := range rows {
		name := strings.TrimSpace(row.Player)
		if name == "" {
			sum.Skipped++
			continue
		}

		outcome, err := u.upsertRow(ctx, t.ID, name, row)
		if err != nil {
			sum.Skipped++
			u.log.Warn("skipping result row",
				zap.Int64("tournament_id", t.ID),
				zap.Int("row", i),
				zap.String("player", name),
				zap.Error(err),
			)
			continue
		}

		switch outcome {
		case rowCreated:
			sum.Created++
		case rowKept:
			sum.Kept++
		default:
			sum.Updated++
		}
	}

	u.log.Info("results upserted",
		zap.Int64("tournament_id", t.ID),
		zap.Int("created", sum.Created),
		zap.Int("updated", sum.Updated),
		zap.Int("kept", sum.Kept),
		zap.Int("skipped", sum.Skipped),
	)

	out, err := u.syncer.Sync(ctx, t.ID)
	sum.Sync = out
	if err != nil {
		return sum, fmt.Errorf("sync tournament %d: %w", t.ID, err)
	}
	return sum, nil
}

func (u *Upserter) upsertRow(ctx context.Context, tournamentID int64, name string, row leaderboard.Row) (rowOutcome, error) {
	earnings := leaderboard.ParseEarnings(row.Earnings)
	total := strings.TrimSpace(row.Total)
	position := strings.TrimSpace(row.Pos)
	if position == "" {
		position = total
	}
	madeCut := !missedCut[total]

	tx, err := u.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	player, err := getOrCreatePlayer(ctx, tx, name)
	if err != nil {
		return 0, err
	}

	var outcome rowOutcome
	existing := new(models.Result)
	err = tx.NewSelect().
		Model(existing).
		Where("r.tournament_id = ?", tournamentID).
		Where("r.player_id = ?", player.ID).
		Scan(ctx)

	switch {
	case errors.Is(err, sql.ErrNoRows):
		res := &models.Result{
			TournamentID: tournamentID,
			PlayerID:     player.ID,
			Position:     position,
			Earnings:     earnings,
			MadeCut:      madeCut,
		}
		if _, err := tx.NewInsert().Model(res).Exec(ctx); err != nil {
			return 0, fmt.Errorf("insert result: %w", err)
		}
		outcome = rowCreated

	case err != nil:
		return 0, fmt.Errorf("load result: %w", err)

	default:
		if position != "" {
			existing.Position = position
		}
		existing.MadeCut = madeCut

		// A zero scrape never wipes a manually entered amount.
		if earnings.IsZero() && existing.Earnings.IsPositive() {
			outcome = rowKept
		} else {
			existing.Earnings = earnings
			outcome = rowUpdated
		}

		if _, err := tx.NewUpdate().
			Model(existing).
			Column("position", "made_cut", "earnings").
			WherePK().
			Exec(ctx); err != nil {
			return 0, fmt.Errorf("update result: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	committed = true

	return outcome, nil
}

// getOrCreatePlayer finds a player by exact full name, creating one if needed.
func getOrCreatePlayer(ctx context.Context, tx bun.Tx, name string) (*models.Player, error) {
	p := new(models.Player)
	err := tx.NewSelect().Model(p).Where("pl.full_name = ?", name).Scan(ctx)
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("load player: %w", err)
	}

	p = models.NewPlayer(name)
	if _, err := tx.NewInsert().Model(p).Exec(ctx); err != nil {
		return nil, fmt.Errorf("insert player: %w", err)
	}
	return p, nil
}
