package handlers

import (
	"github.com/labstack/echo/v4"

	mw "github.com/padraicbc/golfpickem/middleware"
)

// Register mounts the API on e.
func (h *Handler) Register(e *echo.Echo) {
	// Public
	e.POST("/api/signin", h.Signin)

	// Protected – require valid JWT in Authorization header
	api := e.Group("/api", mw.JWT(h.JWTKey))
	api.GET("/seasons", h.Seasons)
	api.GET("/seasons/:seasonID/tournaments", h.Tournaments)
	api.GET("/seasons/:seasonID/my-picks", h.MyPicks)
	api.GET("/seasons/:seasonID/standings", h.Standings)
	api.GET("/seasons/:seasonID/dashboard", h.Dashboard)
	api.GET("/tournaments/:id", h.Tournament)
	api.GET("/tournaments/:id/leaderboard", h.Leaderboard)
	api.POST("/tournaments/:id/picks", h.SubmitPick)

	admin := api.Group("", h.AdminOnly)
	admin.POST("/password-hash", h.PasswordHash)
	admin.POST("/tournaments/:id/refresh", h.RefreshResults)
	admin.PUT("/results/:id", h.UpdateResult)
	admin.POST("/picks/:id/backup", h.UseBackup)
	admin.POST("/picks/:id/override", h.OverridePick)
	admin.POST("/picks/lock", h.LockPicks)
	admin.POST("/seasons/:seasonID/stats", h.MaterializeStats)
}
