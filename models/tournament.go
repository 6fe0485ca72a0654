package models

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"
)

// Status is the phase of a tournament as derived from its dates.
type Status string

const (
	StatusUpcoming   Status = "upcoming"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
)

// Tournament is one event of a season.
type Tournament struct {
	bun.BaseModel `bun:"table:tournaments,alias:t"`

	ID         int64               `bun:"id,pk,autoincrement" json:"id"`
	SeasonID   int64               `bun:"season_id,notnull" json:"seasonID"`
	Name       string              `bun:"name,notnull" json:"name"`
	ExternalID *string             `bun:"external_id" json:"externalID,omitempty"`
	StartDate  time.Time           `bun:"start_date,notnull,type:date" json:"startDate"`
	EndDate    time.Time           `bun:"end_date,notnull,type:date" json:"endDate"`
	PickLock   *time.Time          `bun:"pick_lock" json:"pickLock,omitempty"`
	Purse      decimal.NullDecimal `bun:"purse,type:decimal(12,2)" json:"purse"`
	Multiplier decimal.Decimal     `bun:"multiplier,notnull,type:decimal(4,2),default:1.00" json:"multiplier"`
	IsMajor    bool                `bun:"is_major,notnull,default:false" json:"isMajor"`
	// Status is a display/filter field kept by admins. It never drives ingestion;
	// use StatusAt for that.
	Status string `bun:"status,notnull,default:'upcoming'" json:"status"`

	Season *Season `bun:"rel:belongs-to,join:season_id=id" json:"season,omitempty"`
}

var _ bun.BeforeAppendModelHook = (*Tournament)(nil)

// BeforeAppendModel stores an unset multiplier as 1.00 and fills the advisory status.
func (t *Tournament) BeforeAppendModel(_ context.Context, query bun.Query) error {
	if _, ok := query.(*bun.InsertQuery); ok {
		if t.Multiplier.IsZero() {
			t.Multiplier = decimal.NewFromInt(1)
		}
		if t.Status == "" {
			t.Status = string(StatusUpcoming)
		}
	}
	return nil
}

// HasExternalID reports whether the tournament can be matched to scraped data.
func (t *Tournament) HasExternalID() bool {
	return t.ExternalID != nil && strings.TrimSpace(*t.ExternalID) != ""
}

// EffectiveMultiplier is the scoring weight, treating zero as the 1.00 default.
func (t *Tournament) EffectiveMultiplier() decimal.Decimal {
	if t.Multiplier.IsZero() {
		return decimal.NewFromInt(1)
	}
	return t.Multiplier
}

// LockTime is when picks close: the pick lock, or midnight of the start date
// in loc when no lock is set.
func (t *Tournament) LockTime(loc *time.Location) time.Time {
	if t.PickLock != nil {
		return *t.PickLock
	}
	return dateIn(t.StartDate, loc)
}

// StatusAt derives the tournament phase at now. Calendar dates are read in
// now's location.
func (t *Tournament) StatusAt(now time.Time) Status {
	if t.StartDate.IsZero() || t.EndDate.IsZero() {
		return StatusUpcoming
	}

	loc := now.Location()
	if t.PickLock == nil {
		today := dateIn(now, loc)
		switch {
		case today.Before(dateIn(t.StartDate, loc)):
			return StatusUpcoming
		case today.After(dateIn(t.EndDate, loc)):
			return StatusCompleted
		default:
			return StatusInProgress
		}
	}

	endOfDay := time.Date(t.EndDate.Year(), t.EndDate.Month(), t.EndDate.Day(), 23, 59, 59, 0, loc)
	switch {
	case now.Before(*t.PickLock):
		return StatusUpcoming
	case !now.After(endOfDay):
		return StatusInProgress
	default:
		return StatusCompleted
	}
}

// dateIn truncates t to its calendar date, placed at midnight in loc.
func dateIn(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}
