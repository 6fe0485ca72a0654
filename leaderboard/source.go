package leaderboard

import (
	"context"

	"github.com/padraicbc/golfpickem/models"
)

// Mode selects which leaderboard page is read and which Row fields are set.
type Mode string

const (
	ModeField Mode = "field"
	ModeLive  Mode = "live"
	ModeFinal Mode = "final"
)

// ModeFor maps a derived tournament status to the leaderboard mode.
func ModeFor(s models.Status) Mode {
	switch s {
	case models.StatusInProgress:
		return ModeLive
	case models.StatusCompleted:
		return ModeFinal
	default:
		return ModeField
	}
}

// Row is one leaderboard line. Which fields are filled depends on the mode:
// field rows carry Player and TeeTime; live rows carry Pos, Player, Score,
// Today, Thru, Rounds and Total; final rows carry Player, Pos, Rounds, Total
// and Earnings.
type Row struct {
	Pos      string    `json:"pos,omitempty"`
	Player   string    `json:"player"`
	TeeTime  string    `json:"teeTime,omitempty"`
	Score    string    `json:"score,omitempty"`
	Today    string    `json:"today,omitempty"`
	Thru     string    `json:"thru,omitempty"`
	Rounds   [4]string `json:"rounds"`
	Total    string    `json:"total,omitempty"`
	Earnings string    `json:"earnings,omitempty"`
}

// Source returns leaderboard rows for a tournament's external id. It never
// fails: any fetch or parse problem yields an empty slice.
type Source interface {
	Fetch(ctx context.Context, externalID string, mode Mode) []Row
}
