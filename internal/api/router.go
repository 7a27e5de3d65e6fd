package api

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/postboard/postboard-api/docs"
	"github.com/postboard/postboard-api/internal/api/handler"
	"github.com/postboard/postboard-api/internal/api/middleware"
	"github.com/postboard/postboard-api/internal/core/domain"
	"github.com/postboard/postboard-api/internal/core/ports"
	"github.com/postboard/postboard-api/internal/infrastructure/http/handlers"
)

// Deps is everything the router needs; the composition root builds it.
type Deps struct {
	Log       zerolog.Logger
	APIPrefix string

	Tokens middleware.TokenVerifier
	Auth   ports.AuthService
	Users  ports.UserService
	Posts  ports.PostService

	// Hub serves the notification WebSocket. Nil disables /ws.
	Hub            http.Handler
	Health         []handlers.Dependency
	MaxUploadBytes int64
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(d.Log))
	e.Use(echoprometheus.NewMiddleware("postboard"))

	// --- Operational endpoints (no auth required) ---
	healthHandler := handlers.NewHealthHandler()
	healthDepsHandler := handlers.NewHealthDependenciesHandler(d.Log, d.Health...)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)
	if d.Hub != nil {
		e.GET("/ws", echo.WrapHandler(d.Hub))
	}

	prefix := d.APIPrefix
	if prefix == "" {
		prefix = "/api"
	}
	api := e.Group(prefix)

	// --- Auth routes ---
	authHandler := handler.NewAuthHandler(d.Auth)
	api.POST("/register", authHandler.Register)
	api.POST("/login", authHandler.Login)

	authed := api.Group("", middleware.Auth(d.Tokens))

	// --- User routes ---
	userHandler := handler.NewUserHandler(d.Users, d.MaxUploadBytes)
	authed.GET("/users", userHandler.List, middleware.Authorize(domain.ActionListUsers))
	authed.POST("/users", userHandler.Create, middleware.Authorize(domain.ActionCreateUser))
	authed.GET("/users/:id", userHandler.Get)
	authed.PUT("/users/:id", userHandler.Update)
	authed.DELETE("/users/:id", userHandler.Delete)
	authed.POST("/users/:id/profile-picture", userHandler.UploadProfilePicture, uploadLimit(d.MaxUploadBytes)...)

	// --- Post routes ---
	postHandler := handler.NewPostHandler(d.Posts)
	authed.GET("/posts", postHandler.List)
	authed.POST("/posts", postHandler.Create)
	authed.GET("/posts/:id", postHandler.Get)
	authed.PUT("/posts/:id", postHandler.Update)
	authed.DELETE("/posts/:id", postHandler.Delete)

	return e
}

// multipartOverhead covers boundaries and part headers around the file.
const multipartOverhead = 64 << 10

// uploadLimit rejects oversized uploads before the multipart body is parsed.
func uploadLimit(maxBytes int64) []echo.MiddlewareFunc {
	if maxBytes <= 0 {
		return nil
	}
	return []echo.MiddlewareFunc{echomiddleware.BodyLimit(strconv.FormatInt(maxBytes+multipartOverhead, 10))}
}

// requestLogger emits one structured access log line per request.
func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogRemoteIP:  true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			evt := log.Info()
			if v.Status >= http.StatusInternalServerError {
				evt = log.Error()
			} else if v.Status >= http.StatusBadRequest {
				evt = log.Warn()
			}
			if v.Error != nil {
				evt = evt.Err(v.Error)
			}
			evt.
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Str("remote_ip", v.RemoteIP).
				Msg("request")
			return nil
		},
	})
}
