package routes

import (
	"studynotes/cmd/internal/http/handler"

	"github.com/labstack/echo/v4"
)

// Handlers groups everything the route table needs. UploadsDir is only
// set when files are kept on local disk.
type Handlers struct {
	Notes       *handler.DefaultNoteRoute
	Validations *handler.DefaultValidationRoute
	Access      *handler.DefaultAccessRoute
	Users       *handler.DefaultUserRoute

	Auth        echo.MiddlewareFunc
	AuthLimiter echo.MiddlewareFunc

	UploadsDir string
}

func Register(e *echo.Echo, h *Handlers) {
	// Users
	users := e.Group("/api/users")
	users.POST("/register", h.Users.Register, h.AuthLimiter)
	users.POST("/login", h.Users.Login, h.AuthLimiter)
	users.GET("/me", h.Users.GetMe, h.Auth)
	users.PATCH("/me", h.Users.UpdateMe, h.Auth)
	users.GET("/leaderboard", h.Users.GetLeaderboard)

	// Notes. Static segments are matched before :id
	notes := e.Group("/api/notes")
	notes.GET("", h.Notes.GetNotes)
	notes.POST("/upload", h.Notes.UploadNote, h.Auth)
	notes.GET("/unvalidated", h.Validations.GetUnvalidatedNotes, h.Auth)
	notes.POST("/validate/:noteId", h.Validations.SubmitValidation, h.Auth)
	notes.GET("/view", h.Access.GetVisibleNotes, h.Auth)
	notes.GET("/:id", h.Notes.GetNote)
	notes.GET("/:id/view", h.Access.ViewNote, h.Auth)
	notes.GET("/:id/download", h.Access.DownloadNote, h.Auth)

	if h.UploadsDir != "" {
		e.Static("/uploads", h.UploadsDir)
	}

	// Docker Compose healthcheck
	e.GET("/health", handler.HealthCheck)
}
