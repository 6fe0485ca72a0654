package leaderboard

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

var errNoTable = errors.New("leaderboard table not found")

// ESPN scrapes the public ESPN golf leaderboard pages.
type ESPN struct {
	baseURL string
	client  *http.Client
	breaker *gobreaker.CircuitBreaker
	group   singleflight.Group
	log     *zap.Logger
}

// NewESPN creates a scraper rooted at baseURL (e.g. https://www.espn.com/golf/leaderboard).
// Every request is bounded by timeout; repeated failures open a breaker for
// breakerTimeout, during which fetches return nothing without calling out.
func NewESPN(baseURL string, timeout, breakerTimeout time.Duration, log *zap.Logger) *ESPN {
	if log == nil {
		log = zap.NewNop()
	}
	settings := gobreaker.Settings{
		Name:    "espn-leaderboard",
		Timeout: breakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 3 && failureRatio >= 0.6
		},
		// A page without a table or a caller going away says nothing about ESPN's health.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, errNoTable) || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			log.Info("circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	}

	return &ESPN{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
		breaker: gobreaker.NewCircuitBreaker(settings),
		log:     log,
	}
}

// Fetch returns the rows of the requested page. Concurrent requests for the
// same page share one HTTP call.
func (e *ESPN) Fetch(ctx context.Context, externalID string, mode Mode) []Row {
	externalID = strings.TrimSpace(externalID)
	if externalID == "" {
		return []Row{}
	}

	key := string(mode) + ":" + externalID
	v, err, _ := e.group.Do(key, func() (interface{}, error) {
		return e.breaker.Execute(func() (interface{}, error) {
			return e.fetch(ctx, externalID, mode)
		})
	})
	if err != nil {
		e.log.Warn("leaderboard fetch failed",
			zap.String("external_id", externalID),
			zap.String("mode", string(mode)),
			zap.Error(err),
		)
		return []Row{}
	}

	shared := v.([]Row)
	rows := make([]Row, len(shared))
	copy(rows, shared)
	return rows
}

func (e *ESPN) pageURL(externalID string, mode Mode) string {
	if mode == ModeField {
		return fmt.Sprintf("%s?tournamentId=%s", e.baseURL, url.QueryEscape(externalID))
	}
	return fmt.Sprintf("%s/_/tournamentId/%s", e.baseURL, url.PathEscape(externalID))
}

func (e *ESPN) fetch(ctx context.Context, externalID string, mode Mode) ([]Row, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, e.pageURL(externalID, mode), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse leaderboard page: %w", err)
	}

	table := doc.Find("table.Full__Table").First()
	if table.Length() == 0 {
		return nil, errNoTable
	}

	rows := make([]Row, 0, 160)
	table.Find("tbody tr").Each(func(_ int, tr *goquery.Selection) {
		tds := tr.Find("td")
		var (
			row Row
			ok  bool
		)
		switch mode {
		case ModeField:
			row, ok = fieldRow(tds)
		case ModeLive:
			row, ok = liveRow(tds)
		default:
			row, ok = finalRow(tds)
		}
		if ok {
			rows = append(rows, row)
		}
	})

	e.log.Debug("leaderboard fetched",
		zap.String("external_id", externalID),
		zap.String("mode", string(mode)),
		zap.Int("rows", len(rows)),
	)
	return rows, nil
}

// cell returns the trimmed text of column idx, or "" when the row is short.
func cell(tds *goquery.Selection, idx int) string {
	if tds.Length() <= idx {
		return ""
	}
	return strings.TrimSpace(tds.Eq(idx).Text())
}

func fieldRow(tds *goquery.Selection) (Row, bool) {
	if tds.Length() < 2 {
		return Row{}, false
	}
	player := strings.TrimSpace(tds.Eq(1).Find("a.leaderboard_player_name").First().Text())
	if player == "" {
		player = cell(tds, 2)
	}
	if player == "" {
		return Row{}, false
	}
	return Row{Player: player, TeeTime: cell(tds, 1)}, true
}

func liveRow(tds *goquery.Selection) (Row, bool) {
	if tds.Length() < 5 {
		return Row{}, false
	}
	return Row{
		Pos:    cell(tds, 1),
		Player: cell(tds, 3),
		Score:  cell(tds, 4),
		Today:  cell(tds, 5),
		Thru:   cell(tds, 6),
		Rounds: [4]string{cell(tds, 7), cell(tds, 8), cell(tds, 9), cell(tds, 10)},
		Total:  cell(tds, 11),
	}, true
}

func finalRow(tds *goquery.Selection) (Row, bool) {
	if tds.Length() < 3 {
		return Row{}, false
	}
	return Row{
		Pos:      cell(tds, 1),
		Player:   cell(tds, 2),
		Rounds:   [4]string{cell(tds, 4), cell(tds, 5), cell(tds, 6), cell(tds, 7)},
		Total:    cell(tds, 8),
		Earnings: cell(tds, 9),
	}, true
}
