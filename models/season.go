package models

import (
	"time"

	"github.com/uptrace/bun"
)

// Season groups the tournaments of one league year.
type Season struct {
	bun.BaseModel `bun:"table:seasons,alias:s"`

	ID        int64     `bun:"id,pk,autoincrement" json:"id"`
	Name      string    `bun:"name,notnull" json:"name"`
	Year      int       `bun:"year,notnull" json:"year"`
	StartDate time.Time `bun:"start_date,notnull,type:date" json:"startDate"`
	EndDate   time.Time `bun:"end_date,notnull,type:date" json:"endDate"`
	IsActive  bool      `bun:"is_active,notnull,default:true" json:"isActive"`
}
