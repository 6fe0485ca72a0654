package results

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"

	"github.com/padraicbc/golfpickem/models"
)

func strPtr(s string) *string { return &s }

func seedSeason(t *testing.T, db *bun.DB) *models.Season {
	t.Helper()
	s := &models.Season{
		Name:      "2026 Season",
		Year:      2026,
		StartDate: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC),
		IsActive:  true,
	}
	_, err := db.NewInsert().Model(s).Exec(context.Background())
	require.NoError(t, err)
	return s
}

func seedTournament(t *testing.T, db *bun.DB, seasonID int64, externalID *string, multiplier string) *models.Tournament {
	t.Helper()
	lock := time.Date(2026, 4, 9, 12, 0, 0, 0, time.UTC)
	tr := &models.Tournament{
		SeasonID:   seasonID,
		Name:       "The Masters",
		ExternalID: externalID,
		StartDate:  time.Date(2026, 4, 9, 0, 0, 0, 0, time.UTC),
		EndDate:    time.Date(2026, 4, 12, 0, 0, 0, 0, time.UTC),
		PickLock:   &lock,
		Multiplier: decimal.RequireFromString(multiplier),
	}
	_, err := db.NewInsert().Model(tr).Exec(context.Background())
	require.NoError(t, err)
	return tr
}

func seedUser(t *testing.T, db *bun.DB, username string) *models.User {
	t.Helper()
	u := &models.User{Username: username, Password: "x"}
	_, err := db.NewInsert().Model(u).Exec(context.Background())
	require.NoError(t, err)
	return u
}

func seedPick(t *testing.T, db *bun.DB, userID, tournamentID int64, primary string, earnings string) *models.Pick {
	t.Helper()
	now := time.Now().UTC()
	p := &models.Pick{
		UserID:        userID,
		TournamentID:  tournamentID,
		PrimaryPlayer: primary,
		ActivePlayer:  strPtr(primary),
		Status:        models.PickPending,
		Reason:        models.ReasonNormal,
		Earnings:      decimal.RequireFromString(earnings),
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	_, err := db.NewInsert().Model(p).Exec(context.Background())
	require.NoError(t, err)
	return p
}

func pickEarnings(t *testing.T, db *bun.DB, pickID int64) decimal.Decimal {
	t.Helper()
	p := new(models.Pick)
	require.NoError(t, db.NewSelect().Model(p).Where("p.id = ?", pickID).Scan(context.Background()))
	return p.Earnings
}

func resultFor(t *testing.T, db *bun.DB, tournamentID int64, fullName string) *models.Result {
	t.Helper()
	r := new(models.Result)
	err := db.NewSelect().
		Model(r).
		Relation("Player").
		Where("r.tournament_id = ?", tournamentID).
		Where("player.full_name = ?", fullName).
		Scan(context.Background())
	require.NoError(t, err)
	return r
}

func assertDecimal(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	require.Truef(t, decimal.RequireFromString(want).Equal(got), "want %s, got %s", want, got)
}
