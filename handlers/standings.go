package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Standings returns the season table and league KPIs.
func (h *Handler) Standings(c echo.Context) error {
	seasonID, err := idParam(c, "seasonID")
	if err != nil {
		return err
	}
	st, err := h.standings.Season(c.Request().Context(), seasonID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, st)
}

// MyPicks returns the caller's picks, the league's picks and the caller's KPIs.
func (h *Handler) MyPicks(c echo.Context) error {
	user, err := h.currentUser(c)
	if err != nil {
		return err
	}
	seasonID, err := idParam(c, "seasonID")
	if err != nil {
		return err
	}
	mp, err := h.standings.MyPicks(c.Request().Context(), seasonID, user.ID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, mp)
}

// Dashboard returns the caller's season summary.
func (h *Handler) Dashboard(c echo.Context) error {
	user, err := h.currentUser(c)
	if err != nil {
		return err
	}
	seasonID, err := idParam(c, "seasonID")
	if err != nil {
		return err
	}
	dash, err := h.standings.Dashboard(c.Request().Context(), seasonID, user.ID, h.clock())
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, dash)
}
