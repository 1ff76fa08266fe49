package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/emilythestrangee/stackit/backend/internal/config"
	"github.com/emilythestrangee/stackit/backend/internal/database"
	"github.com/emilythestrangee/stackit/backend/internal/handlers"
	"github.com/emilythestrangee/stackit/backend/internal/middleware"
)

type Server struct {
	cfg     *config.Config
	db      database.Service
	handler *handlers.Handler
	logger  *logrus.Logger
}

// New prepares the routes' dependencies. Call HTTPServer to get something to
// listen with.
func New(cfg *config.Config, db database.Service, handler *handlers.Handler, logger *logrus.Logger) (*Server, error) {
	if err := handlers.RegisterValidators(); err != nil {
		return nil, fmt.Errorf("register validators: %w", err)
	}
	return &Server{cfg: cfg, db: db, handler: handler, logger: logger}, nil
}

// HTTPServer wraps the router in an http.Server with the usual timeouts.
func (s *Server) HTTPServer() *http.Server {
	return &http.Server{
		Addr:         "0.0.0.0:" + s.cfg.Port,
		Handler:      s.RegisterRoutes(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
}

// RegisterRoutes sets up all application routes
func (s *Server) RegisterRoutes() *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestLogger(s.logger), gin.Recovery())

	// CORS configuration
	corsConfig := cors.Config{
		AllowOrigins:     s.cfg.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Accept", "Authorization", "Content-Type", "X-Requested-With", middleware.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(corsConfig.AllowOrigins) == 0 || (len(corsConfig.AllowOrigins) == 1 && corsConfig.AllowOrigins[0] == "*") {
		// credentials cannot be combined with a literal wildcard origin
		corsConfig.AllowOrigins = nil
		corsConfig.AllowOriginFunc = func(string) bool { return true }
	}
	r.Use(cors.New(corsConfig))

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		stats := s.db.Health()
		status := http.StatusOK
		if stats["status"] != "up" {
			status = http.StatusServiceUnavailable
		}
		c.JSON(status, stats)
	})

	h := s.handler
	api := r.Group("/api/v1")
	{
		// Auth routes (public)
		api.POST("/auth/register", h.Auth.Register)
		api.POST("/auth/token", h.Auth.Token)

		// Public reads
		api.GET("/questions", h.Question.GetQuestions)
		api.GET("/questions/:id", h.Question.GetQuestion)
		api.GET("/answers/question/:questionID", h.Answer.GetAnswers)
		api.GET("/answers/:id/score", h.Answer.GetScore)

		// Protected routes (authentication required)
		protected := api.Group("")
		protected.Use(middleware.AuthMiddleware([]byte(s.cfg.JWTSecret)))
		{
			protected.POST("/questions", h.Question.CreateQuestion)

			protected.POST("/answers", h.Answer.CreateAnswer)
			protected.PATCH("/answers/:id/accept", h.Answer.AcceptAnswer)
			protected.DELETE("/answers/:id/accept", h.Answer.RevokeAcceptance)
			protected.POST("/answers/:id/vote", h.Answer.VoteAnswer)

			protected.GET("/users/me", h.User.GetMe)
			protected.GET("/users/me/notifications", h.User.GetNotifications)
			protected.PATCH("/users/notifications/:id/read", h.User.MarkNotificationRead)

			admin := protected.Group("/admin")
			admin.Use(middleware.AdminOnly())
			admin.GET("/users", h.User.ListUsers)
		}

		api.GET("/users/:username", h.User.GetUserProfile)
	}

	return r
}
