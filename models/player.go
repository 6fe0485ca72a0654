package models

import (
	"strings"

	"github.com/uptrace/bun"
)

// Player is a golfer, created lazily the first time a result names them.
type Player struct {
	bun.BaseModel `bun:"table:players,alias:pl"`

	ID         int64   `bun:"id,pk,autoincrement" json:"id"`
	ExternalID *string `bun:"external_id" json:"externalID,omitempty"`
	FirstName  *string `bun:"first_name" json:"firstName,omitempty"`
	LastName   *string `bun:"last_name" json:"lastName,omitempty"`
	FullName   string  `bun:"full_name,notnull,unique" json:"fullName"`
	Country    *string `bun:"country" json:"country,omitempty"`
	Active     bool    `bun:"active,notnull,default:true" json:"active"`
}

// NewPlayer splits a full name into first name (first token) and last name
// (the rest). A single-token name leaves LastName nil.
func NewPlayer(fullName string) *Player {
	p := &Player{FullName: fullName, Active: true}
	tokens := strings.Fields(fullName)
	if len(tokens) == 0 {
		return p
	}
	first := tokens[0]
	p.FirstName = &first
	if len(tokens) > 1 {
		last := strings.Join(tokens[1:], " ")
		p.LastName = &last
	}
	return p
}
