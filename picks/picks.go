// Package picks handles members choosing golfers and the pick lifecycle
// around a tournament's lock.
package picks

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/uptrace/bun"
	"go.uber.org/zap"

	"github.com/padraicbc/golfpickem/leaderboard"
	"github.com/padraicbc/golfpickem/models"
	"github.com/padraicbc/golfpickem/results"
)

var (
	ErrPicksLocked = errors.New("picks are locked for this tournament")
	ErrSamePlayer  = errors.New("primary and backup golfer must be different")
	ErrAlreadyUsed = errors.New("golfer already used this season")
	ErrNotInField  = errors.New("golfer is not in the tournament field")
	ErrNoBackup    = errors.New("pick has no backup golfer")
	ErrNoPlayer    = errors.New("a golfer name is required")
)

// FieldLister returns the names entered in a tournament. An empty list means
// the field is unknown and is not enforced.
type FieldLister interface {
	Field(ctx context.Context, t *models.Tournament) []string
}

// Syncer recomputes a tournament's pick earnings.
type Syncer interface {
	Sync(ctx context.Context, tournamentID int64) (results.SyncOutcome, error)
}

type Service struct {
	db     *bun.DB
	field  FieldLister
	syncer Syncer
	loc    *time.Location
	log    *zap.Logger
}

// NewService creates a pick service. loc places date-only pick locks; field
// may be nil to skip field checks.
func NewService(db *bun.DB, field FieldLister, syncer Syncer, loc *time.Location, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	if loc == nil {
		loc = time.UTC
	}
	return &Service{db: db, field: field, syncer: syncer, loc: loc, log: log}
}

// Submission is a member's choice for one tournament.
type Submission struct {
	UserID       int64   `json:"-"`
	TournamentID int64   `json:"-"`
	Primary      string  `json:"primaryPlayer"`
	Backup       *string `json:"backupPlayer"`
}

// Submit validates and stores a pick, replacing the member's earlier pick
// for the same tournament.
func (s *Service) Submit(ctx context.Context, sub Submission, now time.Time) (*models.Pick, error) {
	t := new(models.Tournament)
	if err := s.db.NewSelect().Model(t).Where("t.id = ?", sub.TournamentID).Scan(ctx); err != nil {
		return nil, fmt.Errorf("load tournament %d: %w", sub.TournamentID, err)
	}
	if !now.Before(t.LockTime(s.loc)) {
		return nil, ErrPicksLocked
	}

	primary := strings.TrimSpace(sub.Primary)
	if primary == "" {
		return nil, ErrNoPlayer
	}
	var backup *string
	if sub.Backup != nil {
		if b := strings.TrimSpace(*sub.Backup); b != "" {
			backup = &b
		}
	}
	if backup != nil && leaderboard.NormalizeName(*backup) == leaderboard.NormalizeName(primary) {
		return nil, ErrSamePlayer
	}

	if s.field != nil {
		if names := s.field.Field(ctx, t); len(names) > 0 {
			inField := make(map[string]bool, len(names))
			for _, n := range names {
				inField[leaderboard.NormalizeName(n)] = true
			}
			if !inField[leaderboard.NormalizeName(primary)] {
				return nil, fmt.Errorf("%w: %s", ErrNotInField, primary)
			}
			if backup != nil && !inField[leaderboard.NormalizeName(*backup)] {
				return nil, fmt.Errorf("%w: %s", ErrNotInField, *backup)
			}
		}
	}

	used, err := s.usedThisSeason(ctx, sub.UserID, t)
	if err != nil {
		return nil, err
	}
	if used[leaderboard.NormalizeName(primary)] {
		return nil, fmt.Errorf("%w: %s", ErrAlreadyUsed, primary)
	}
	if backup != nil && used[leaderboard.NormalizeName(*backup)] {
		return nil, fmt.Errorf("%w: %s", ErrAlreadyUsed, *backup)
	}

	pick := new(models.Pick)
	err = s.db.NewSelect().
		Model(pick).
		Where("p.user_id = ?", sub.UserID).
		Where("p.tournament_id = ?", t.ID).
		Scan(ctx)

	switch {
	case errors.Is(err, sql.ErrNoRows):
		pick = &models.Pick{
			UserID:        sub.UserID,
			TournamentID:  t.ID,
			PrimaryPlayer: primary,
			BackupPlayer:  backup,
			ActivePlayer:  &primary,
			Status:        models.PickPending,
			Reason:        models.ReasonNormal,
			CreatedAt:     now.UTC(),
			UpdatedAt:     now.UTC(),
		}
		if _, err := s.db.NewInsert().Model(pick).Exec(ctx); err != nil {
			return nil, fmt.Errorf("insert pick: %w", err)
		}

	case err != nil:
		return nil, fmt.Errorf("load pick: %w", err)

	default:
		pick.PrimaryPlayer = primary
		pick.BackupPlayer = backup
		pick.ActivePlayer = &primary
		pick.Status = models.PickPending
		pick.Reason = models.ReasonNormal
		pick.UpdatedAt = now.UTC()
		if _, err := s.db.NewUpdate().
			Model(pick).
			Column("primary_player", "backup_player", "active_player", "status", "reason", "updated_at").
			WherePK().
			Exec(ctx); err != nil {
			return nil, fmt.Errorf("update pick %d: %w", pick.ID, err)
		}
	}

	s.log.Info("pick saved",
		zap.Int64("user_id", sub.UserID),
		zap.Int64("tournament_id", t.ID),
		zap.String("primary", primary),
	)
	return pick, nil
}

// usedThisSeason returns the normalized golfers the member has already had
// as active player in t's season, ignoring their pick for t itself.
func (s *Service) usedThisSeason(ctx context.Context, userID int64, t *models.Tournament) (map[string]bool, error) {
	var picks []models.Pick
	err := s.db.NewSelect().
		Model(&picks).
		Join("JOIN tournaments AS t ON t.id = p.tournament_id").
		Where("p.user_id = ?", userID).
		Where("t.season_id = ?", t.SeasonID).
		Where("p.tournament_id != ?", t.ID).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("load season picks: %w", err)
	}

	used := make(map[string]bool, len(picks))
	for _, p := range picks {
		if p.ActivePlayer == nil {
			continue
		}
		if n := leaderboard.NormalizeName(*p.ActivePlayer); n != "" {
			used[n] = true
		}
	}
	return used, nil
}

// LockDue moves pending picks to locked once their tournament's lock has
// passed at now. It returns how many picks were locked.
func (s *Service) LockDue(ctx context.Context, now time.Time) (int, error) {
	var pending []models.Pick
	if err := s.db.NewSelect().
		Model(&pending).
		Relation("Tournament").
		Where("p.status = ?", models.PickPending).
		Scan(ctx); err != nil {
		return 0, fmt.Errorf("load pending picks: %w", err)
	}

	ids := make([]int64, 0, len(pending))
	for _, p := range pending {
		if p.Tournament != nil && !now.Before(p.Tournament.LockTime(s.loc)) {
			ids = append(ids, p.ID)
		}
	}
	if len(ids) == 0 {
		return 0, nil
	}

	if _, err := s.db.NewUpdate().
		Model((*models.Pick)(nil)).
		Set("status = ?", models.PickLocked).
		Set("updated_at = ?", now.UTC()).
		Where("id IN (?)", bun.In(ids)).
		Exec(ctx); err != nil {
		return 0, fmt.Errorf("lock picks: %w", err)
	}

	s.log.Info("picks locked", zap.Int("count", len(ids)))
	return len(ids), nil
}

// UseBackup makes the pick's backup golfer the one that scores, as when the
// primary withdraws before the start.
func (s *Service) UseBackup(ctx context.Context, pickID int64) (*models.Pick, error) {
	pick, err := s.load(ctx, pickID)
	if err != nil {
		return nil, err
	}
	if pick.BackupPlayer == nil || strings.TrimSpace(*pick.BackupPlayer) == "" {
		return nil, ErrNoBackup
	}

	backup := *pick.BackupPlayer
	return s.activate(ctx, pick, backup, models.ReasonPrimaryWD)
}

// Override sets the scoring golfer by hand.
func (s *Service) Override(ctx context.Context, pickID int64, player string) (*models.Pick, error) {
	player = strings.TrimSpace(player)
	if player == "" {
		return nil, ErrNoPlayer
	}

	pick, err := s.load(ctx, pickID)
	if err != nil {
		return nil, err
	}
	return s.activate(ctx, pick, player, models.ReasonManualOverride)
}

func (s *Service) activate(ctx context.Context, pick *models.Pick, player string, reason models.PickReason) (*models.Pick, error) {
	pick.ActivePlayer = &player
	pick.Reason = reason
	pick.UpdatedAt = time.Now().UTC()
	if _, err := s.db.NewUpdate().
		Model(pick).
		Column("active_player", "reason", "updated_at").
		WherePK().
		Exec(ctx); err != nil {
		return nil, fmt.Errorf("update pick %d: %w", pick.ID, err)
	}

	s.log.Info("active player changed",
		zap.Int64("pick_id", pick.ID),
		zap.String("player", player),
		zap.String("reason", string(reason)),
	)

	if s.syncer != nil {
		if _, err := s.syncer.Sync(ctx, pick.TournamentID); err != nil {
			return nil, err
		}
	}
	return s.load(ctx, pick.ID)
}

func (s *Service) load(ctx context.Context, pickID int64) (*models.Pick, error) {
	pick := new(models.Pick)
	if err := s.db.NewSelect().Model(pick).Where("p.id = ?", pickID).Scan(ctx); err != nil {
		return nil, fmt.Errorf("load pick %d: %w", pickID, err)
	}
	return pick, nil
}
