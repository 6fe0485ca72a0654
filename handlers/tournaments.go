package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/padraicbc/golfpickem/leaderboard"
	"github.com/padraicbc/golfpickem/models"
	"github.com/padraicbc/golfpickem/picks"
)

type leaguePick struct {
	PickID   int64  `json:"pickID"`
	Username string `json:"username"`
	Primary  string `json:"primaryPlayer"`
	Backup   string `json:"backupPlayer,omitempty"`
	Active   string `json:"activePlayer"`
	Status   string `json:"status"`
	Reason   string `json:"reason"`
	Earnings string `json:"earnings"`
}

type tournamentDetail struct {
	Tournament tournamentData `json:"tournament"`
	MyPick     *models.Pick   `json:"myPick"`
	// Picks holds the league's picks once picks are locked.
	Picks []leaguePick `json:"picks"`
}

func (h *Handler) loadTournament(c echo.Context) (*models.Tournament, error) {
	id, err := idParam(c, "id")
	if err != nil {
		return nil, err
	}
	t := new(models.Tournament)
	if err := h.db.NewSelect().Model(t).Where("t.id = ?", id).Scan(c.Request().Context()); err != nil {
		return nil, httpError(err)
	}
	return t, nil
}

// Tournament returns one tournament, the caller's pick, and everyone's picks
// after the lock.
func (h *Handler) Tournament(c echo.Context) error {
	user, err := h.currentUser(c)
	if err != nil {
		return err
	}
	t, err := h.loadTournament(c)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()
	now := h.clock()

	var all []models.Pick
	err = h.db.NewSelect().
		Model(&all).
		Relation("User").
		Where("p.tournament_id = ?", t.ID).
		Scan(ctx)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	detail := tournamentDetail{Tournament: h.tournamentData(t, now), Picks: []leaguePick{}}
	locked := !now.Before(t.LockTime(h.loc))
	for i := range all {
		p := &all[i]
		if p.UserID == user.ID {
			detail.MyPick = p
		}
		if !locked || p.User == nil {
			continue
		}
		lp := leaguePick{
			PickID:   p.ID,
			Username: p.User.Username,
			Primary:  p.PrimaryPlayer,
			Active:   p.ScoringName(),
			Status:   string(p.Status),
			Reason:   string(p.Reason),
			Earnings: p.Earnings.StringFixed(2),
		}
		if p.BackupPlayer != nil {
			lp.Backup = *p.BackupPlayer
		}
		detail.Picks = append(detail.Picks, lp)
	}

	return c.JSON(http.StatusOK, detail)
}

type leaderboardResponse struct {
	Mode leaderboard.Mode  `json:"mode"`
	Rows []leaderboard.Row `json:"rows"`
}

// Leaderboard returns the field, live board or final results depending on
// the tournament's dates. Reading the final board stores it.
func (h *Handler) Leaderboard(c echo.Context) error {
	t, err := h.loadTournament(c)
	if err != nil {
		return err
	}
	mode, rows := h.results.Leaderboard(c.Request().Context(), t, h.clock())
	return c.JSON(http.StatusOK, leaderboardResponse{Mode: mode, Rows: rows})
}

// SubmitPick saves the caller's pick for a tournament.
func (h *Handler) SubmitPick(c echo.Context) error {
	user, err := h.currentUser(c)
	if err != nil {
		return err
	}
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}

	var sub picks.Submission
	if err := c.Bind(&sub); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	sub.UserID = user.ID
	sub.TournamentID = id

	pick, err := h.picks.Submit(c.Request().Context(), sub, h.clock())
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, pick)
}
