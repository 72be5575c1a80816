package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/class-schedule/internal/config"
	"github.com/iliyamo/class-schedule/internal/handler"
	"github.com/iliyamo/class-schedule/internal/middleware"
)

// RegisterRoutes registers routes that do not require authentication
// on the provided Echo instance.  Currently it exposes only a health
// check, used by load balancers and monitoring to verify the service
// is up.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers the authentication routes.  Unauthenticated
// operations live under /v1/auth and carry the rate limiter so that
// credential stuffing and token guessing stay bounded; protected
// account endpoints live under /v1 behind JWTAuth.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string, rl config.RateLimitConfig, rdb *redis.Client) {
	g := e.Group("/v1/auth", middleware.RateLimit(rl, rdb))
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	// Rotates the refresh token.
	g.POST("/refresh", a.Refresh)
	// Issues a new access token without rotating the refresh token.
	g.POST("/refresh-access", a.RefreshAccess)
	// Logout accepts a refresh_token in the body and revokes it; no
	// JWT is required on this route.
	g.POST("/logout", a.Logout)
	// Consuming a verification token needs no session: the token
	// itself is the proof, and the confirmation link in the mail is
	// opened outside the app.
	g.POST("/confirm", a.ConfirmEmail)

	auth := e.Group("/v1")
	auth.Use(middleware.JWTAuth(jwtSecret))
	auth.GET("/me", a.Me)
	// Re-request a confirmation mail.  Requires a session but not a
	// verified address, so it sits outside the verified group.
	auth.POST("/verify/request", a.RequestVerification)
	// Bearer-only logout revokes every session of the user.
	auth.POST("/logout", a.Logout)
}

// RegisterSchedule registers the lesson CRUD and grid endpoints.
// Everything here requires a valid access token AND a confirmed email
// address; unverified accounts can hold a session but cannot touch
// schedules.
func RegisterSchedule(e *echo.Echo, s *handler.ScheduleHandler, jwtSecret string) {
	g := e.Group("/v1", middleware.JWTAuth(jwtSecret), middleware.RequireVerified())

	g.GET("/lessons", s.ListLessons)
	g.POST("/lessons", s.CreateLesson)
	g.PATCH("/lessons/:id", s.UpdateLesson)
	g.DELETE("/lessons/:id", s.DeleteLesson)

	// Rendered 7×26 grid, cached per owner.
	g.GET("/schedule/week", s.Week)
	// Click routing: ?day=&hour= answers create vs edit.
	g.GET("/schedule/slot", s.ResolveSlot)
}
