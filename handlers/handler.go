package handlers

import (
	"time"

	"github.com/uptrace/bun"
	"go.uber.org/zap"

	"github.com/padraicbc/golfpickem/picks"
	"github.com/padraicbc/golfpickem/results"
	"github.com/padraicbc/golfpickem/standings"
)

// Services are the domain services the routes delegate to.
type Services struct {
	Results   *results.Service
	Picks     *picks.Service
	Standings *standings.Service
}

// Handler holds shared dependencies used by all route handlers.
type Handler struct {
	db     *bun.DB
	JWTKey []byte

	results   *results.Service
	picks     *picks.Service
	standings *standings.Service

	admins []string
	loc    *time.Location
	log    *zap.Logger
	now    func() time.Time
}

// New creates a Handler. admins lists the usernames allowed on admin routes;
// loc is the league's timezone for date-only pick locks.
func New(db *bun.DB, jwtKey []byte, svc Services, admins []string, loc *time.Location, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	if loc == nil {
		loc = time.UTC
	}
	return &Handler{
		db:        db,
		JWTKey:    jwtKey,
		results:   svc.Results,
		picks:     svc.Picks,
		standings: svc.Standings,
		admins:    admins,
		loc:       loc,
		log:       log,
		now:       time.Now,
	}
}

// clock returns the current time in the league's timezone.
func (h *Handler) clock() time.Time {
	return h.now().In(h.loc)
}
