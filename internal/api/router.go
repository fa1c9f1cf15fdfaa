package api

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/indrikh/siteCloneWithAi/docs"
	"github.com/indrikh/siteCloneWithAi/internal/api/handler"
	"github.com/indrikh/siteCloneWithAi/internal/api/middleware"
	"github.com/indrikh/siteCloneWithAi/internal/core/ports"
	"github.com/indrikh/siteCloneWithAi/internal/infrastructure/http/handlers"
)

// Deps carries everything the HTTP layer needs. Mongo and ChatLimiter may be nil.
type Deps struct {
	Log zerolog.Logger

	History ports.HistoryService
	Chat    ports.ChatService
	Auth    ports.AuthService
	Content ports.ContentService

	Redis       *redis.Client
	Mongo       *mongo.Database
	ChatLimiter middleware.Limiter

	// Debug adds the underlying error text to error responses.
	Debug        bool
	StaticDir    string
	AllowOrigins []string
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log, d.Debug)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(d.Log))
	e.Use(middleware.Metrics())
	e.Use(echomiddleware.Secure())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: d.AllowOrigins,
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))
	e.Use(echomiddleware.BodyLimit("1M"))

	// --- Operational endpoints ---
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api")

	// --- Health probes (no auth required) ---
	healthHandler := handlers.NewHealthHandler()
	healthDepsHandler := handlers.NewHealthDependenciesHandler(d.Mongo, d.Redis)
	api.GET("/health", healthHandler.Liveness)            // liveness
	api.GET("/health/ready", healthDepsHandler.Readiness) // readiness

	// --- Chat ---
	chatHandler := handler.NewChatHandler(d.Chat, d.History)
	chat := api.Group("/chat")
	var chatLimit []echo.MiddlewareFunc
	if d.ChatLimiter != nil {
		chatLimit = append(chatLimit, middleware.RateLimit(d.ChatLimiter, "chat", d.Log))
	}
	chat.POST("/message", chatHandler.Message, chatLimit...)
	chat.GET("/history/:sessionId", chatHandler.History)
	chat.DELETE("/history/:sessionId", chatHandler.ClearHistory)

	// --- Content ---
	contentHandler := handler.NewContentHandler(d.Content)
	api.GET("/content/:section", contentHandler.Section)

	// --- Users ---
	authHandler := handler.NewAuthHandler(d.Auth)
	bearer := middleware.BearerToken()
	user := api.Group("/user")
	user.POST("/register", authHandler.Register)
	user.POST("/login", authHandler.Login)
	user.GET("/profile", authHandler.Profile, bearer)
	user.POST("/logout", authHandler.Logout, bearer)

	// Anything else under /api is a JSON 404, never the SPA.
	api.Any("/*", func(c echo.Context) error {
		return echo.NewHTTPError(http.StatusNotFound, "API endpoint not found")
	})

	if d.StaticDir != "" {
		e.Use(echomiddleware.StaticWithConfig(echomiddleware.StaticConfig{
			Root:  d.StaticDir,
			HTML5: true,
			Skipper: func(c echo.Context) bool {
				p := c.Request().URL.Path
				return p == "/api" || strings.HasPrefix(p, "/api/") || p == "/metrics" || strings.HasPrefix(p, "/swagger/")
			},
		}))
	}

	return e
}

// requestLogger writes one zerolog line per request.
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
			ev := log.Info()
			if v.Status >= http.StatusInternalServerError {
				ev = log.Error().Err(v.Error)
			}
			ev.Str("method", v.Method).
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
