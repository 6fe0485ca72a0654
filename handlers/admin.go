package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// jsonText accepts string, number, or null JSON values and normalizes to string.
type jsonText string

func (t *jsonText) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		*t = ""
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*t = jsonText(s)
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var n json.Number
	if err := dec.Decode(&n); err == nil {
		*t = jsonText(n.String())
		return nil
	}

	return fmt.Errorf("expected string, number, or null")
}

// amount parses a money value such as 1250000, "1,250,000" or "$1,250,000.50".
func (t jsonText) amount() (decimal.Decimal, error) {
	s := strings.NewReplacer("$", "", ",", "", " ", "").Replace(string(t))
	if s == "" {
		return decimal.Zero, fmt.Errorf("earnings is required")
	}
	return decimal.NewFromString(s)
}

// RefreshResults fetches and stores a tournament's final results and syncs picks.
func (h *Handler) RefreshResults(c echo.Context) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}
	sum, err := h.results.Refresh(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, sum)
}

// UpdateResult corrects one result's earnings by hand and re-syncs its tournament.
func (h *Handler) UpdateResult(c echo.Context) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}

	var body struct {
		Earnings jsonText `json:"earnings"`
		Notes    *string  `json:"notes"`
	}
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	amount, err := body.Earnings.amount()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	res, out, err := h.results.CorrectEarnings(c.Request().Context(), id, amount, body.Notes)
	if err != nil {
		return httpError(err)
	}

	requester, _ := c.Get("username").(string)
	h.log.Info("result corrected by admin",
		zap.String("admin", requester),
		zap.Int64("result_id", id),
		zap.String("earnings", res.Earnings.String()),
	)
	return c.JSON(http.StatusOK, map[string]interface{}{"result": res, "sync": out})
}

// UseBackup promotes a pick's backup golfer.
func (h *Handler) UseBackup(c echo.Context) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}
	pick, err := h.picks.UseBackup(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, pick)
}

// OverridePick sets the scoring golfer of a pick.
func (h *Handler) OverridePick(c echo.Context) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}
	var body struct {
		Player string `json:"player"`
	}
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	pick, err := h.picks.Override(c.Request().Context(), id, body.Player)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, pick)
}

// MaterializeStats writes the season's standings into user_season_stats.
func (h *Handler) MaterializeStats(c echo.Context) error {
	seasonID, err := idParam(c, "seasonID")
	if err != nil {
		return err
	}
	n, err := h.standings.Materialize(c.Request().Context(), seasonID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, map[string]int{"members": n})
}

// LockPicks locks every pending pick whose tournament lock has passed.
func (h *Handler) LockPicks(c echo.Context) error {
	n, err := h.picks.LockDue(c.Request().Context(), h.clock())
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, map[string]int{"locked": n})
}
