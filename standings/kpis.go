package standings

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// UserKPIs summarize one member's season over tournaments that have results.
type UserKPIs struct {
	EventsPlayed int              `json:"totalEventsPlayed"`
	CutsMade     int              `json:"totalCutsMade"`
	EventsMissed int              `json:"totalEventsMissed"`
	CutRate      *decimal.Decimal `json:"cutRate"`
	CutStreak    int              `json:"cutStreak"`
}

// ComputeUserKPIs derives a member's KPIs from their own picks. completed
// holds the ids of the season's tournaments that have stored results.
func ComputeUserKPIs(own []PickRow, completed map[int64]bool) UserKPIs {
	var k UserKPIs

	played := make([]PickRow, 0, len(own))
	seen := make(map[int64]bool)
	for _, p := range own {
		if !completed[p.TournamentID] || seen[p.TournamentID] {
			continue
		}
		seen[p.TournamentID] = true
		played = append(played, p)
	}
	sort.SliceStable(played, func(i, j int) bool {
		return played[i].StartDate.Before(played[j].StartDate)
	})

	k.EventsPlayed = len(played)
	for _, p := range played {
		if p.Earnings.IsPositive() {
			k.CutsMade++
		}
	}
	if missed := len(completed) - k.EventsPlayed; missed > 0 {
		k.EventsMissed = missed
	}
	if k.EventsPlayed > 0 {
		rate := decimal.NewFromInt(int64(k.CutsMade)).Mul(hundred).Div(decimal.NewFromInt(int64(k.EventsPlayed))).Round(2)
		k.CutRate = &rate
	}

	for i := len(played) - 1; i >= 0; i-- {
		if !played[i].Earnings.IsPositive() {
			break
		}
		k.CutStreak++
	}
	return k
}

// NextEvent is the first upcoming tournament and the member's pick for it.
type NextEvent struct {
	TournamentID int64     `json:"tournamentID"`
	Name         string    `json:"name"`
	StartDate    time.Time `json:"startDate"`
	Pick         *string   `json:"pick"`
	Backup       *string   `json:"backup"`
}

// Dashboard is a member's home view of the season.
type Dashboard struct {
	SeasonID      int64            `json:"seasonID"`
	UserTotal     decimal.Decimal  `json:"userTotalEarnings"`
	AwayFromFirst *decimal.Decimal `json:"earningsAwayFromFirst"`
	Next          *NextEvent       `json:"next"`
	// MissingPicks counts season participants without a pick for Next.
	MissingPicks *int `json:"missingPicksThisWeek"`
}

// totals sums every pick's earnings per member, scored or not.
func totals(picks []PickRow) map[int64]decimal.Decimal {
	out := make(map[int64]decimal.Decimal)
	for _, p := range picks {
		out[p.UserID] = out[p.UserID].Add(p.Earnings)
	}
	return out
}

// ComputeDashboard builds the dashboard for userID. next may be nil when no
// tournament is upcoming.
func ComputeDashboard(seasonID, userID int64, picks []PickRow, next *NextEvent) Dashboard {
	d := Dashboard{SeasonID: seasonID, UserTotal: decimal.Zero, Next: next}

	sums := totals(picks)
	if len(sums) > 0 {
		leader := decimal.Zero
		first := true
		for _, v := range sums {
			if first || v.GreaterThan(leader) {
				leader, first = v, false
			}
		}
		d.UserTotal = sums[userID]
		away := leader.Sub(d.UserTotal)
		if away.IsNegative() {
			away = decimal.Zero
		}
		d.AwayFromFirst = &away
	}

	if next == nil {
		return d
	}

	participants := make(map[int64]bool)
	pickedNext := make(map[int64]bool)
	for _, p := range picks {
		participants[p.UserID] = true
		if p.TournamentID == next.TournamentID {
			pickedNext[p.UserID] = true
			if p.UserID == userID {
				primary := p.PrimaryPlayer
				next.Pick = &primary
				next.Backup = p.BackupPlayer
			}
		}
	}
	missing := len(participants) - len(pickedNext)
	if missing < 0 {
		missing = 0
	}
	d.MissingPicks = &missing
	return d
}
