package handlers

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/padraicbc/golfpickem/picks"
	"github.com/padraicbc/golfpickem/results"
)

// httpError maps domain errors to HTTP errors.
func httpError(err error) error {
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return echo.NewHTTPError(http.StatusNotFound, "not found")
	case errors.Is(err, picks.ErrPicksLocked):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case errors.Is(err, picks.ErrSamePlayer),
		errors.Is(err, picks.ErrAlreadyUsed),
		errors.Is(err, picks.ErrNotInField),
		errors.Is(err, picks.ErrNoBackup),
		errors.Is(err, picks.ErrNoPlayer),
		errors.Is(err, results.ErrNegativeEarnings):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}

// idParam reads a positive integer path parameter.
func idParam(c echo.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid "+name)
	}
	return id, nil
}
