package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"go.uber.org/zap/zaptest"

	"github.com/padraicbc/golfpickem/db/dbtest"
	"github.com/padraicbc/golfpickem/leaderboard"
	"github.com/padraicbc/golfpickem/models"
	"github.com/padraicbc/golfpickem/picks"
	"github.com/padraicbc/golfpickem/results"
	"github.com/padraicbc/golfpickem/standings"
)

type stubSource map[leaderboard.Mode][]leaderboard.Row

func (s stubSource) Fetch(_ context.Context, _ string, mode leaderboard.Mode) []leaderboard.Row {
	return s[mode]
}

type server struct {
	e          *echo.Echo
	db         *bun.DB
	h          *Handler
	tournament *models.Tournament
	season     *models.Season
}

func newServer(t *testing.T, now time.Time) *server {
	t.Helper()
	ctx := context.Background()
	db := dbtest.New(t)
	log := zaptest.NewLogger(t)

	src := stubSource{
		leaderboard.ModeField: {{Player: "Tiger Woods"}, {Player: "Jon Rahm"}},
		leaderboard.ModeFinal: {
			{Player: "Tiger Woods", Pos: "1", Total: "276", Earnings: "$1,000,000"},
			{Player: "Jon Rahm", Pos: "2", Total: "277", Earnings: "$600,000"},
		},
	}
	res := results.NewService(db, src, log)
	h := New(db, []byte("test-secret"), Services{
		Results:   res,
		Picks:     picks.NewService(db, res, res, time.UTC, log),
		Standings: standings.NewService(db, log),
	}, []string{"boss"}, time.UTC, log)
	h.now = func() time.Time { return now }

	for _, name := range []string{"alice", "boss"} {
		hash, err := HashPasswordForUser(name, "pw-"+name)
		require.NoError(t, err)
		_, err = db.NewInsert().Model(&models.User{Username: name, Password: hash}).Exec(ctx)
		require.NoError(t, err)
	}

	season := &models.Season{Name: "2026", Year: 2026, StartDate: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), EndDate: time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC), IsActive: true}
	_, err := db.NewInsert().Model(season).Exec(ctx)
	require.NoError(t, err)

	ext := "401580344"
	tr := &models.Tournament{
		SeasonID:   season.ID,
		Name:       "The Masters",
		ExternalID: &ext,
		StartDate:  time.Date(2026, 4, 9, 0, 0, 0, 0, time.UTC),
		EndDate:    time.Date(2026, 4, 12, 0, 0, 0, 0, time.UTC),
		IsMajor:    true,
	}
	_, err = db.NewInsert().Model(tr).Exec(ctx)
	require.NoError(t, err)

	e := echo.New()
	h.Register(e)
	return &server{e: e, db: db, h: h, tournament: tr, season: season}
}

func (s *server) do(t *testing.T, method, path, token, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	return rec
}

func (s *server) signin(t *testing.T, username string) string {
	t.Helper()
	rec := s.do(t, http.MethodPost, "/api/signin", "", `{"username":"`+username+`","password":"pw-`+username+`"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var out struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	require.NotEmpty(t, out.Token)
	return out.Token
}

func itoa(id int64) string { return strconv.FormatInt(id, 10) }

func assertMoney(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.Truef(t, decimal.RequireFromString(want).Equal(got), "want %s, got %s", want, got)
}

func TestSignin(t *testing.T) {
	s := newServer(t, time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC))

	rec := s.do(t, http.MethodPost, "/api/signin", "", `{"username":"alice","password":"wrong"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = s.do(t, http.MethodPost, "/api/signin", "", `{"username":"nobody","password":"x"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	assert.NotEmpty(t, s.signin(t, "alice"))
}

func TestProtectedRoutesNeedToken(t *testing.T) {
	s := newServer(t, time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC))

	rec := s.do(t, http.MethodGet, "/api/seasons", "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/seasons", "not-a-token", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/seasons", s.signin(t, "alice"), "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"year":2026`)
}

func TestSubmitPickFlow(t *testing.T) {
	s := newServer(t, time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC))
	token := s.signin(t, "alice")
	picksURL := "/api/tournaments/" + itoa(s.tournament.ID) + "/picks"

	rec := s.do(t, http.MethodPost, picksURL, token, `{"primaryPlayer":"Happy Gilmore"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())

	rec = s.do(t, http.MethodPost, picksURL, token, `{"primaryPlayer":"Tiger Woods","backupPlayer":"tiger woods"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodPost, picksURL, token, `{"primaryPlayer":"Tiger Woods","backupPlayer":"Jon Rahm"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var pick models.Pick
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &pick))
	assert.Equal(t, "Tiger Woods", pick.PrimaryPlayer)

	rec = s.do(t, http.MethodGet, "/api/tournaments/"+itoa(s.tournament.ID), token, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var detail struct {
		Tournament struct {
			Status string `json:"status"`
		} `json:"tournament"`
		MyPick *models.Pick  `json:"myPick"`
		Picks  []interface{} `json:"picks"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &detail))
	assert.Equal(t, "upcoming", detail.Tournament.Status)
	require.NotNil(t, detail.MyPick)
	assert.Empty(t, detail.Picks)

	rec = s.do(t, http.MethodGet, "/api/tournaments/9999", token, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/tournaments/abc", token, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSubmitPickAfterLock(t *testing.T) {
	s := newServer(t, time.Date(2026, 4, 9, 8, 0, 0, 0, time.UTC))
	rec := s.do(t, http.MethodPost, "/api/tournaments/"+itoa(s.tournament.ID)+"/picks", s.signin(t, "alice"), `{"primaryPlayer":"Tiger Woods"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestFinalLeaderboardIngestsAndScores(t *testing.T) {
	s := newServer(t, time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC))
	token := s.signin(t, "alice")

	rec := s.do(t, http.MethodPost, "/api/tournaments/"+itoa(s.tournament.ID)+"/picks", token, `{"primaryPlayer":"Jon Rahm"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = s.do(t, http.MethodGet, "/api/tournaments/"+itoa(s.tournament.ID)+"/leaderboard", token, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"mode":"field"`)

	s.h.now = func() time.Time { return time.Date(2026, 4, 13, 9, 0, 0, 0, time.UTC) }
	rec = s.do(t, http.MethodGet, "/api/tournaments/"+itoa(s.tournament.ID)+"/leaderboard", token, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"mode":"final"`)

	rec = s.do(t, http.MethodGet, "/api/seasons/"+itoa(s.season.ID)+"/standings", token, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var st standings.Standings
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &st))
	require.Len(t, st.Rows, 1)
	assert.Equal(t, "alice", st.Rows[0].Username)
	assertMoney(t, "600000", st.Rows[0].Points)
	assertMoney(t, "600000", st.Rows[0].MajorsPoints)

	rec = s.do(t, http.MethodGet, "/api/seasons/"+itoa(s.season.ID)+"/my-picks", token, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"totalCutsMade":1`)

	rec = s.do(t, http.MethodGet, "/api/seasons/"+itoa(s.season.ID)+"/dashboard", token, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"next":null`)
}

func TestAdminRoutes(t *testing.T) {
	s := newServer(t, time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC))
	alice := s.signin(t, "alice")
	boss := s.signin(t, "boss")
	refreshURL := "/api/tournaments/" + itoa(s.tournament.ID) + "/refresh"

	rec := s.do(t, http.MethodPost, refreshURL, alice, "")
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = s.do(t, http.MethodPost, "/api/tournaments/"+itoa(s.tournament.ID)+"/picks", alice, `{"primaryPlayer":"Tiger Woods","backupPlayer":"Jon Rahm"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	var pick models.Pick
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &pick))

	rec = s.do(t, http.MethodPost, refreshURL, boss, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var sum results.UpsertSummary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &sum))
	assert.Equal(t, 2, sum.Created)
	assert.Equal(t, 1, sum.Sync.Matched)

	rec = s.do(t, http.MethodPost, "/api/picks/"+itoa(pick.ID)+"/backup", boss, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &pick))
	assert.Equal(t, "Jon Rahm", *pick.ActivePlayer)
	assertMoney(t, "600000", pick.Earnings)

	var rahm models.Result
	require.NoError(t, s.db.NewSelect().Model(&rahm).
		Join("JOIN players AS pl ON pl.id = r.player_id").
		Where("pl.full_name = ?", "Jon Rahm").
		Scan(context.Background()))

	rec = s.do(t, http.MethodPut, "/api/results/"+itoa(rahm.ID), boss, `{"earnings":"-5"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodPut, "/api/results/"+itoa(rahm.ID), boss, `{"earnings":"$650,000","notes":"playoff share"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var corrected models.Pick
	require.NoError(t, s.db.NewSelect().Model(&corrected).Where("p.id = ?", pick.ID).Scan(context.Background()))
	assertMoney(t, "650000", corrected.Earnings)

	rec = s.do(t, http.MethodPut, "/api/results/"+itoa(rahm.ID), boss, `{"earnings":650000.5}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = s.do(t, http.MethodPost, "/api/picks/"+itoa(pick.ID)+"/override", boss, `{"player":"Tiger Woods"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &pick))
	assertMoney(t, "1000000", pick.Earnings)

	rec = s.do(t, http.MethodPost, "/api/seasons/"+itoa(s.season.ID)+"/stats", boss, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"members":1}`, rec.Body.String())

	s.h.now = func() time.Time { return time.Date(2026, 4, 10, 0, 0, 0, 0, time.UTC) }
	rec = s.do(t, http.MethodPost, "/api/picks/lock", boss, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"locked":1}`, rec.Body.String())
}
