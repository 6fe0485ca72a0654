package standings

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/uptrace/bun"
	"go.uber.org/zap"

	"github.com/padraicbc/golfpickem/models"
)

// Service loads a season's picks and feeds them to the pure aggregations.
type Service struct {
	db  *bun.DB
	log *zap.Logger
}

func NewService(db *bun.DB, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{db: db, log: log}
}

// Load returns every pick of the season joined with its member and
// tournament, ordered by tournament start then username.
func (s *Service) Load(ctx context.Context, seasonID int64) ([]PickRow, error) {
	var picks []models.Pick
	err := s.db.NewSelect().
		Model(&picks).
		Relation("User").
		Relation("Tournament").
		Where("tournament.season_id = ?", seasonID).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("load season %d picks: %w", seasonID, err)
	}

	rows := make([]PickRow, 0, len(picks))
	for _, p := range picks {
		if p.User == nil || p.Tournament == nil {
			continue
		}
		rows = append(rows, PickRow{
			PickID:        p.ID,
			UserID:        p.UserID,
			Username:      p.User.Username,
			TournamentID:  p.TournamentID,
			Tournament:    p.Tournament.Name,
			StartDate:     p.Tournament.StartDate,
			IsMajor:       p.Tournament.IsMajor,
			PrimaryPlayer: p.PrimaryPlayer,
			BackupPlayer:  p.BackupPlayer,
			ActivePlayer:  p.ActivePlayer,
			Earnings:      p.Earnings,
		})
	}
	sort.SliceStable(rows, func(i, j int) bool {
		if !rows[i].StartDate.Equal(rows[j].StartDate) {
			return rows[i].StartDate.Before(rows[j].StartDate)
		}
		return rows[i].Username < rows[j].Username
	})
	return rows, nil
}

// Season computes the standings of one season.
func (s *Service) Season(ctx context.Context, seasonID int64) (Standings, error) {
	rows, err := s.Load(ctx, seasonID)
	if err != nil {
		return Standings{}, err
	}
	return Compute(rows), nil
}

// MyPicks is a member's own picks, the whole league's picks, and their KPIs.
type MyPicks struct {
	Picks       []PickRow `json:"picks"`
	LeaguePicks []PickRow `json:"leaguePicks"`
	KPIs        UserKPIs  `json:"kpis"`
}

// MyPicks gathers the season view for userID.
func (s *Service) MyPicks(ctx context.Context, seasonID, userID int64) (MyPicks, error) {
	league, err := s.Load(ctx, seasonID)
	if err != nil {
		return MyPicks{}, err
	}

	completed, err := s.completedTournaments(ctx, seasonID)
	if err != nil {
		return MyPicks{}, err
	}

	own := make([]PickRow, 0)
	for _, p := range league {
		if p.UserID == userID {
			own = append(own, p)
		}
	}
	return MyPicks{
		Picks:       own,
		LeaguePicks: league,
		KPIs:        ComputeUserKPIs(own, completed),
	}, nil
}

// completedTournaments returns the ids of the season's tournaments with at
// least one stored result.
func (s *Service) completedTournaments(ctx context.Context, seasonID int64) (map[int64]bool, error) {
	var ids []int64
	err := s.db.NewSelect().
		Model((*models.Result)(nil)).
		ColumnExpr("DISTINCT r.tournament_id").
		Join("JOIN tournaments AS t ON t.id = r.tournament_id").
		Where("t.season_id = ?", seasonID).
		Scan(ctx, &ids)
	if err != nil {
		return nil, fmt.Errorf("load completed tournaments: %w", err)
	}

	out := make(map[int64]bool, len(ids))
	for _, id := range ids {
		out[id] = true
	}
	return out, nil
}

// Dashboard builds userID's dashboard. The next event is the earliest
// tournament of the season still upcoming at now.
func (s *Service) Dashboard(ctx context.Context, seasonID, userID int64, now time.Time) (Dashboard, error) {
	picks, err := s.Load(ctx, seasonID)
	if err != nil {
		return Dashboard{}, err
	}

	var tournaments []models.Tournament
	if err := s.db.NewSelect().
		Model(&tournaments).
		Where("t.season_id = ?", seasonID).
		Order("t.start_date", "t.id").
		Scan(ctx); err != nil {
		return Dashboard{}, fmt.Errorf("load season %d tournaments: %w", seasonID, err)
	}

	var next *NextEvent
	for _, t := range tournaments {
		if t.StatusAt(now) == models.StatusUpcoming {
			next = &NextEvent{TournamentID: t.ID, Name: t.Name, StartDate: t.StartDate}
			break
		}
	}
	return ComputeDashboard(seasonID, userID, picks, next), nil
}

// Materialize writes the season standings into user_season_stats, one row
// per member with a scored pick, and removes rows for members who no longer
// have one. It returns the number of rows written.
func (s *Service) Materialize(ctx context.Context, seasonID int64) (int, error) {
	st, err := s.Season(ctx, seasonID)
	if err != nil {
		return 0, err
	}

	now := time.Now().UTC()
	stats := make([]models.UserSeasonStats, 0, len(st.Rows))
	userIDs := make([]int64, 0, len(st.Rows))
	for _, r := range st.Rows {
		stats = append(stats, models.UserSeasonStats{
			UserID:         r.UserID,
			SeasonID:       seasonID,
			TotalEarnings:  r.Points,
			MajorsEarnings: r.MajorsPoints,
			WeeksPlayed:    r.Events,
			WeeklyWins:     r.Wins,
			Top5Finishes:   r.Top5,
			UpdatedAt:      now,
		})
		userIDs = append(userIDs, r.UserID)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	del := tx.NewDelete().
		Model((*models.UserSeasonStats)(nil)).
		Where("season_id = ?", seasonID)
	if len(userIDs) > 0 {
		del = del.Where("user_id NOT IN (?)", bun.In(userIDs))
	}
	res, err := del.Exec(ctx)
	if err != nil {
		return 0, fmt.Errorf("clear stale season %d stats: %w", seasonID, err)
	}
	removed, _ := res.RowsAffected()

	if len(stats) > 0 {
		_, err = tx.NewInsert().
			Model(&stats).
			On("CONFLICT (user_id, season_id) DO UPDATE").
			Set("total_earnings = EXCLUDED.total_earnings").
			Set("majors_earnings = EXCLUDED.majors_earnings").
			Set("weeks_played = EXCLUDED.weeks_played").
			Set("weekly_wins = EXCLUDED.weekly_wins").
			Set("top5_finishes = EXCLUDED.top5_finishes").
			Set("updated_at = EXCLUDED.updated_at").
			Exec(ctx)
		if err != nil {
			return 0, fmt.Errorf("materialize season %d stats: %w", seasonID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	committed = true

	s.log.Info("season stats materialized",
		zap.Int64("season_id", seasonID),
		zap.Int("members", len(stats)),
		zap.Int64("removed", removed),
	)
	return len(stats), nil
}
