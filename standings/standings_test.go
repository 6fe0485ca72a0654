package standings

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func pr(userID int64, username string, tournamentID int64, primary, earnings string) PickRow {
	return PickRow{
		UserID:        userID,
		Username:      username,
		TournamentID:  tournamentID,
		PrimaryPlayer: primary,
		Earnings:      d(earnings),
		StartDate:     time.Date(2026, 1, int(tournamentID), 0, 0, 0, 0, time.UTC),
	}
}

func TestComputeRanksWithinTournament(t *testing.T) {
	st := Compute([]PickRow{
		pr(3, "carol", 1, "C", "0"),
		pr(2, "bob", 1, "B", "100"),
		pr(1, "alice", 1, "A", "100"),
	})

	require.Len(t, st.Rows, 3)
	assert.Equal(t, "alice", st.Rows[0].Username)
	assert.Equal(t, 1, st.Rows[0].Wins)
	assert.Equal(t, "bob", st.Rows[1].Username)
	assert.Equal(t, 0, st.Rows[1].Wins)
	assert.Equal(t, 1, st.Rows[1].Top5)
	assert.Equal(t, "carol", st.Rows[2].Username)
	assert.Equal(t, 0, st.Rows[2].Cashes)
	assert.Equal(t, 1, st.Rows[2].Events)
}

func TestComputeSkipsUnscoredTournaments(t *testing.T) {
	st := Compute([]PickRow{
		pr(1, "alice", 1, "Tiger Woods", "500"),
		pr(2, "bob", 1, "Jon Rahm", "0"),
		pr(1, "alice", 2, "Rory McIlroy", "0"),
		pr(2, "bob", 2, "Jon Rahm", "0"),
	})

	require.Len(t, st.Rows, 2)
	for _, r := range st.Rows {
		assert.Equal(t, 1, r.Events, r.Username)
	}
	assertDec(t, "500", st.KPIs.TotalEarnings)
	assertDec(t, "250", st.KPIs.AvgPerUser)
	require.NotNil(t, st.KPIs.CutRate)
	assertDec(t, "50", *st.KPIs.CutRate)

	// unscored picks still count towards the most picked golfer
	assert.Equal(t, "Jon Rahm", st.KPIs.MostPicked)
	assert.Equal(t, 2, st.KPIs.MostPickedCount)
}

func TestComputeOrdering(t *testing.T) {
	// alice and bob tie on points; bob has the only win between them
	st := Compute([]PickRow{
		pr(1, "alice", 1, "A", "60"),
		pr(2, "bob", 1, "B", "100"),
		pr(1, "alice", 2, "A", "90"),
		pr(2, "bob", 2, "B", "50"),
		pr(3, "carol", 2, "C", "95"),
	})

	require.Len(t, st.Rows, 3)
	assert.Equal(t, []string{"bob", "alice", "carol"}, []string{st.Rows[0].Username, st.Rows[1].Username, st.Rows[2].Username})
	assertDec(t, "150", st.Rows[0].Points)
	assert.Equal(t, 1, st.Rows[0].Wins)
	assert.Equal(t, 0, st.Rows[1].Wins)
	assert.Equal(t, 2, st.Rows[0].Top10)
	assert.Equal(t, 1, st.Rows[2].Wins)
}

func TestComputeFullTieFallsBackToUsername(t *testing.T) {
	st := Compute([]PickRow{
		pr(2, "zed", 1, "A", "100"),
		pr(1, "amy", 2, "A", "100"),
	})
	require.Len(t, st.Rows, 2)
	assert.Equal(t, "amy", st.Rows[0].Username)
	assert.Equal(t, "zed", st.Rows[1].Username)
}

func TestComputeRankTenBoundary(t *testing.T) {
	var picks []PickRow
	names := []string{"a", "b", "c", "d", "e", "f", "g", "h", "i", "j", "k"}
	for i, n := range names {
		picks = append(picks, pr(int64(i+1), n, 1, "X", decimal.NewFromInt(int64(1000-i)).String()))
	}
	st := Compute(picks)

	byName := map[string]Row{}
	for _, r := range st.Rows {
		byName[r.Username] = r
	}
	assert.Equal(t, 1, byName["e"].Top5)
	assert.Equal(t, 0, byName["f"].Top5)
	assert.Equal(t, 1, byName["j"].Top10)
	assert.Equal(t, 0, byName["k"].Top10)
}

func TestComputeMajorsPoints(t *testing.T) {
	major := pr(1, "alice", 1, "A", "300")
	major.IsMajor = true
	st := Compute([]PickRow{major, pr(1, "alice", 2, "A", "50")})

	require.Len(t, st.Rows, 1)
	assertDec(t, "350", st.Rows[0].Points)
	assertDec(t, "300", st.Rows[0].MajorsPoints)
}

func TestComputeEmpty(t *testing.T) {
	st := Compute(nil)
	assert.Empty(t, st.Rows)
	assert.NotNil(t, st.Rows)
	assertDec(t, "0", st.KPIs.TotalEarnings)
	assertDec(t, "0", st.KPIs.AvgPerUser)
	assert.Nil(t, st.KPIs.CutRate)
	assert.Equal(t, "", st.KPIs.MostPicked)
}

func TestComputeAverageRoundsToCents(t *testing.T) {
	st := Compute([]PickRow{
		pr(1, "a", 1, "A", "100"),
		pr(2, "b", 1, "B", "0"),
		pr(3, "c", 1, "C", "0"),
	})
	assertDec(t, "33.33", st.KPIs.AvgPerUser)
	assertDec(t, "33.33", *st.KPIs.CutRate)
}

func TestMostPickedTieBreaksByName(t *testing.T) {
	name, n := mostPicked([]PickRow{
		pr(1, "a", 1, "Scottie Scheffler", "0"),
		pr(2, "b", 1, "Jon Rahm", "0"),
		pr(1, "a", 2, "Jon Rahm", "0"),
		pr(2, "b", 2, "Scottie Scheffler", "0"),
		pr(3, "c", 2, "  ", "0"),
	})
	assert.Equal(t, "Jon Rahm", name)
	assert.Equal(t, 2, n)
}

func assertDec(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.Truef(t, d(want).Equal(got), "want %s, got %s", want, got)
}
