package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"
)

type PickStatus string

const (
	PickPending PickStatus = "pending"
	PickLocked  PickStatus = "locked"
	PickVoid    PickStatus = "void"
)

type PickReason string

const (
	ReasonNormal         PickReason = "normal"
	ReasonPrimaryWD      PickReason = "primary_wd_pre_start"
	ReasonManualOverride PickReason = "manual_override"
)

// Pick is one member's golfer selection for one tournament. Golfers are
// referenced by name, not by Player id.
type Pick struct {
	bun.BaseModel `bun:"table:picks,alias:p"`

	ID            int64           `bun:"id,pk,autoincrement" json:"id"`
	UserID        int64           `bun:"user_id,notnull,unique:picks_no_dupes" json:"userID"`
	TournamentID  int64           `bun:"tournament_id,notnull,unique:picks_no_dupes" json:"tournamentID"`
	PrimaryPlayer string          `bun:"primary_player,notnull" json:"primaryPlayer"`
	BackupPlayer  *string         `bun:"backup_player" json:"backupPlayer,omitempty"`
	ActivePlayer  *string         `bun:"active_player" json:"activePlayer,omitempty"`
	Status        PickStatus      `bun:"status,notnull,default:'pending'" json:"status"`
	Reason        PickReason      `bun:"reason,notnull,default:'normal'" json:"reason"`
	Earnings      decimal.Decimal `bun:"earnings,notnull,type:decimal(12,2),default:0" json:"earnings"`
	CreatedAt     time.Time       `bun:"created_at,notnull" json:"createdAt"`
	UpdatedAt     time.Time       `bun:"updated_at,notnull" json:"updatedAt"`

	User       *User       `bun:"rel:belongs-to,join:user_id=id" json:"user,omitempty"`
	Tournament *Tournament `bun:"rel:belongs-to,join:tournament_id=id" json:"tournament,omitempty"`
}

// ScoringName is the golfer whose result counts: the active player, falling
// back to the primary pick.
func (p *Pick) ScoringName() string {
	if p.ActivePlayer != nil && strings.TrimSpace(*p.ActivePlayer) != "" {
		return *p.ActivePlayer
	}
	return p.PrimaryPlayer
}
