package models

import (
	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"
)

// Result is what one golfer earned in one tournament. It is the source of
// truth that pick earnings are derived from.
type Result struct {
	bun.BaseModel `bun:"table:results,alias:r"`

	ID           int64           `bun:"id,pk,autoincrement" json:"id"`
	TournamentID int64           `bun:"tournament_id,notnull,unique:results_no_dupes" json:"tournamentID"`
	PlayerID     int64           `bun:"player_id,notnull,unique:results_no_dupes" json:"playerID"`
	Position     string          `bun:"position,notnull" json:"position"`
	Earnings     decimal.Decimal `bun:"earnings,notnull,type:decimal(12,2),default:0" json:"earnings"`
	MadeCut      bool            `bun:"made_cut,notnull,default:false" json:"madeCut"`
	Notes        *string         `bun:"notes" json:"notes,omitempty"`

	Player *Player `bun:"rel:belongs-to,join:player_id=id" json:"player,omitempty"`
}
