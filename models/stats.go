package models

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"
)

// UserSeasonStats is a materialized copy of a member's season standing.
type UserSeasonStats struct {
	bun.BaseModel `bun:"table:user_season_stats,alias:uss"`

	ID             int64           `bun:"id,pk,autoincrement" json:"id"`
	UserID         int64           `bun:"user_id,notnull,unique:stats_no_dupes" json:"userID"`
	SeasonID       int64           `bun:"season_id,notnull,unique:stats_no_dupes" json:"seasonID"`
	TotalEarnings  decimal.Decimal `bun:"total_earnings,notnull,type:decimal(14,2),default:0" json:"totalEarnings"`
	MajorsEarnings decimal.Decimal `bun:"majors_earnings,notnull,type:decimal(14,2),default:0" json:"majorsEarnings"`
	WeeksPlayed    int             `bun:"weeks_played,notnull,default:0" json:"weeksPlayed"`
	WeeklyWins     int             `bun:"weekly_wins,notnull,default:0" json:"weeklyWins"`
	Top5Finishes   int             `bun:"top5_finishes,notnull,default:0" json:"top5Finishes"`
	UpdatedAt      time.Time       `bun:"updated_at,notnull" json:"updatedAt"`
}
