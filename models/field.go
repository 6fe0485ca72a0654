package models

import (
	"time"

	"github.com/uptrace/bun"
)

// FieldStatus is a golfer's entry state for one tournament.
type FieldStatus string

const (
	FieldIn FieldStatus = "in_field"
	FieldWD FieldStatus = "wd"
)

// TournamentField is one golfer entered in a tournament.
type TournamentField struct {
	bun.BaseModel `bun:"table:tournament_field,alias:tf"`

	ID           int64       `bun:"id,pk,autoincrement" json:"id"`
	TournamentID int64       `bun:"tournament_id,notnull,unique:field_no_dupes" json:"tournamentID"`
	PlayerID     int64       `bun:"player_id,notnull,unique:field_no_dupes" json:"playerID"`
	TeeTime      *time.Time  `bun:"tee_time" json:"teeTime,omitempty"`
	Status       FieldStatus `bun:"status,notnull,default:'in_field'" json:"status"`

	Player *Player `bun:"rel:belongs-to,join:player_id=id" json:"player,omitempty"`
}
