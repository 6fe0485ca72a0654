package handlers

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/padraicbc/golfpickem/models"
)

type tournamentData struct {
	ID         int64         `json:"id"`
	SeasonID   int64         `json:"seasonID"`
	Name       string        `json:"name"`
	ExternalID *string       `json:"externalID,omitempty"`
	StartDate  string        `json:"startDate"`
	EndDate    string        `json:"endDate"`
	PickLock   time.Time     `json:"pickLock"`
	Purse      *string       `json:"purse,omitempty"`
	Multiplier string        `json:"multiplier"`
	IsMajor    bool          `json:"isMajor"`
	Status     models.Status `json:"status"`
}

func (h *Handler) tournamentData(t *models.Tournament, now time.Time) tournamentData {
	td := tournamentData{
		ID:         t.ID,
		SeasonID:   t.SeasonID,
		Name:       t.Name,
		ExternalID: t.ExternalID,
		StartDate:  t.StartDate.Format("2006-01-02"),
		EndDate:    t.EndDate.Format("2006-01-02"),
		PickLock:   t.LockTime(h.loc),
		Multiplier: t.EffectiveMultiplier().StringFixed(2),
		IsMajor:    t.IsMajor,
		Status:     t.StatusAt(now),
	}
	if t.Purse.Valid {
		p := t.Purse.Decimal.StringFixed(2)
		td.Purse = &p
	}
	return td
}

// Seasons returns all seasons, newest first.
func (h *Handler) Seasons(c echo.Context) error {
	var seasons []models.Season
	err := h.db.NewSelect().
		Model(&seasons).
		OrderExpr("s.year DESC, s.name ASC").
		Scan(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if seasons == nil {
		seasons = []models.Season{}
	}
	return c.JSON(http.StatusOK, seasons)
}

// Tournaments returns one season's schedule with each event's derived status.
func (h *Handler) Tournaments(c echo.Context) error {
	seasonID, err := idParam(c, "seasonID")
	if err != nil {
		return err
	}

	var tournaments []models.Tournament
	err = h.db.NewSelect().
		Model(&tournaments).
		Where("t.season_id = ?", seasonID).
		Order("t.start_date", "t.id").
		Scan(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	now := h.clock()
	result := make([]tournamentData, len(tournaments))
	for i := range tournaments {
		result[i] = h.tournamentData(&tournaments[i], now)
	}
	return c.JSON(http.StatusOK, result)
}
