package server

import (
	"net/http"

	"backend/internal/handler"
	"backend/internal/middleware"
	"backend/internal/repository"
	"backend/internal/service"
	"backend/internal/token"
	"backend/internal/tokenstore"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
	"go.uber.org/zap"
)

type Server struct {
	router *gin.Engine
	logger *zap.Logger
	log    *logrus.Logger
}

// NewServer wires repositories, services and handlers onto a gin router.
// The signer and refresh store are built once at startup and shared
// read-only by every request.
func NewServer(db *sqlx.DB, signer *token.Signer, refresh *tokenstore.RefreshStore, logger *zap.Logger, log *logrus.Logger) *Server {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.RequestLogger(logger))

	s := &Server{
		router: router,
		logger: logger,
		log:    log,
	}

	s.setupRoutes(db, signer, refresh)

	return s
}

func (s *Server) setupRoutes(db *sqlx.DB, signer *token.Signer, refresh *tokenstore.RefreshStore) {
	accountRepo := repository.NewAccountRepository(db, s.log)
	assessmentRepo := repository.NewAssessmentRepository(db, s.log)

	authService := service.NewAuthService(accountRepo, signer, refresh, s.logger)
	assessmentService := service.NewAssessmentService(assessmentRepo, s.logger)

	authHandler := handler.NewAuthHandler(authService, s.log)
	accountHandler := handler.NewAccountHandler(authService, s.log)
	assessmentHandler := handler.NewAssessmentHandler(assessmentService, s.log)

	// Ping route for health check
	s.router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
		})
	})

	// Public routes: login, refresh and registration never pass the gate.
	authGroup := s.router.Group("/auth")
	authGroup.POST("/login", authHandler.Login)
	authGroup.POST("/refresh", authHandler.Refresh)
	s.router.POST("/accounts", accountHandler.Register)

	// Protected routes
	protected := s.router.Group("/assessments")
	protected.Use(middleware.AuthMiddleware(signer, s.logger))
	{
		protected.GET("/", assessmentHandler.GetAll)
		protected.POST("/", assessmentHandler.Create)
		protected.GET("/:assessment_id", assessmentHandler.GetOne)
		protected.PATCH("/:assessment_id", assessmentHandler.Update)
	}
}

// Router exposes the underlying engine, mainly for tests.
func (s *Server) Router() *gin.Engine {
	return s.router
}

func (s *Server) Run(addr string) {
	s.log.Infof("Server starting on %s...", addr)
	if err := s.router.Run(addr); err != nil {
		s.log.Fatalf("Server failed to start: %v", err)
	}
}
