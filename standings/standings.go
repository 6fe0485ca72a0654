// Package standings ranks league members over a season's scored picks.
package standings

import (
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// PickRow is one pick joined with its member and tournament.
type PickRow struct {
	PickID        int64           `json:"pickID"`
	UserID        int64           `json:"userID"`
	Username      string          `json:"username"`
	TournamentID  int64           `json:"tournamentID"`
	Tournament    string          `json:"tournament"`
	StartDate     time.Time       `json:"startDate"`
	IsMajor       bool            `json:"isMajor"`
	PrimaryPlayer string          `json:"primaryPlayer"`
	BackupPlayer  *string         `json:"backupPlayer,omitempty"`
	ActivePlayer  *string         `json:"activePlayer,omitempty"`
	Earnings      decimal.Decimal `json:"earnings"`
}

// Row is one member's season line.
type Row struct {
	UserID       int64           `json:"userID"`
	Username     string          `json:"username"`
	Events       int             `json:"events"`
	Points       decimal.Decimal `json:"points"`
	MajorsPoints decimal.Decimal `json:"majorsPoints"`
	Wins         int             `json:"wins"`
	Top5         int             `json:"top5"`
	Top10        int             `json:"top10"`
	Cashes       int             `json:"cashes"`
}

// KPIs are league-wide figures over scored tournaments.
type KPIs struct {
	TotalEarnings   decimal.Decimal `json:"totalEarnings"`
	AvgPerUser      decimal.Decimal `json:"avgEarningsPerUser"`
	MostPicked      string          `json:"mostPickedGolfer,omitempty"`
	MostPickedCount int             `json:"mostPickedGolferCount"`
	// CutRate is nil when nothing has been scored yet.
	CutRate *decimal.Decimal `json:"cutRate"`
}

type Standings struct {
	Rows []Row `json:"rows"`
	KPIs KPIs  `json:"kpis"`
}

// Compute builds the season table from every pick of one season.
//
// Only tournaments where at least one pick earned money count. Inside such a
// tournament picks are ranked by earnings, then username, with strict ranks.
// The most-picked golfer is counted over all primary picks, scored or not.
func Compute(picks []PickRow) Standings {
	out := Standings{Rows: []Row{}}
	out.KPIs.TotalEarnings = decimal.Zero
	out.KPIs.AvgPerUser = decimal.Zero
	out.KPIs.MostPicked, out.KPIs.MostPickedCount = mostPicked(picks)

	byTournament := make(map[int64][]PickRow)
	var order []int64
	for _, p := range picks {
		if _, ok := byTournament[p.TournamentID]; !ok {
			order = append(order, p.TournamentID)
		}
		byTournament[p.TournamentID] = append(byTournament[p.TournamentID], p)
	}
	sort.Slice(order, func(i, j int) bool { return order[i] < order[j] })

	stats := make(map[int64]*Row)
	var scored, cashes int

	for _, tid := range order {
		group := byTournament[tid]
		if !anyPositive(group) {
			continue
		}

		ranked := make([]PickRow, len(group))
		copy(ranked, group)
		sort.Slice(ranked, func(i, j int) bool {
			if c := ranked[i].Earnings.Cmp(ranked[j].Earnings); c != 0 {
				return c > 0
			}
			if ranked[i].Username != ranked[j].Username {
				return ranked[i].Username < ranked[j].Username
			}
			return ranked[i].UserID < ranked[j].UserID
		})

		for idx, p := range ranked {
			rank := idx + 1

			out.KPIs.TotalEarnings = out.KPIs.TotalEarnings.Add(p.Earnings)
			scored++

			s, ok := stats[p.UserID]
			if !ok {
				s = &Row{
					UserID:       p.UserID,
					Username:     p.Username,
					Points:       decimal.Zero,
					MajorsPoints: decimal.Zero,
				}
				stats[p.UserID] = s
			}

			s.Events++
			s.Points = s.Points.Add(p.Earnings)
			if p.IsMajor {
				s.MajorsPoints = s.MajorsPoints.Add(p.Earnings)
			}
			if p.Earnings.IsPositive() {
				s.Cashes++
				cashes++
			}
			if rank == 1 {
				s.Wins++
			}
			if rank <= 5 {
				s.Top5++
			}
			if rank <= 10 {
				s.Top10++
			}
		}
	}

	for _, s := range stats {
		out.Rows = append(out.Rows, *s)
	}
	sort.Slice(out.Rows, func(i, j int) bool {
		a, b := out.Rows[i], out.Rows[j]
		if c := a.Points.Cmp(b.Points); c != 0 {
			return c > 0
		}
		if a.Wins != b.Wins {
			return a.Wins > b.Wins
		}
		if a.Top5 != b.Top5 {
			return a.Top5 > b.Top5
		}
		if a.Top10 != b.Top10 {
			return a.Top10 > b.Top10
		}
		if a.Username != b.Username {
			return a.Username < b.Username
		}
		return a.UserID < b.UserID
	})

	if n := len(stats); n > 0 {
		out.KPIs.AvgPerUser = out.KPIs.TotalEarnings.Div(decimal.NewFromInt(int64(n))).Round(2)
	}
	if scored > 0 {
		rate := decimal.NewFromInt(int64(cashes)).Mul(hundred).Div(decimal.NewFromInt(int64(scored))).Round(2)
		out.KPIs.CutRate = &rate
	}
	return out
}

func anyPositive(picks []PickRow) bool {
	for _, p := range picks {
		if p.Earnings.IsPositive() {
			return true
		}
	}
	return false
}

// mostPicked returns the primary pick chosen most often. Ties go to the
// lexicographically smallest name.
func mostPicked(picks []PickRow) (string, int) {
	counts := make(map[string]int)
	for _, p := range picks {
		if strings.TrimSpace(p.PrimaryPlayer) == "" {
			continue
		}
		counts[p.PrimaryPlayer]++
	}

	var (
		best  string
		count int
	)
	for name, n := range counts {
		if n > count || (n == count && name < best) {
			best, count = name, n
		}
	}
	return best, count
}
