package server

import (
	"context"
	"net/http"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	actordomain "github.com/smallbiznis/crewlink/internal/actor/domain"
	affiliationdomain "github.com/smallbiznis/crewlink/internal/affiliation/domain"
	"github.com/smallbiznis/crewlink/internal/config"
	"github.com/smallbiznis/crewlink/internal/identity"
	"github.com/smallbiznis/crewlink/internal/observability"
	obsmiddleware "github.com/smallbiznis/crewlink/internal/observability/logger"
	obsmetrics "github.com/smallbiznis/crewlink/internal/observability/metrics"
	obstracing "github.com/smallbiznis/crewlink/internal/observability/tracing"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var Module = fx.Module("http.server",
	fx.Provide(NewEngine),
	fx.Provide(NewServer),
	fx.Invoke(registerRoutes),
	fx.Invoke(run),
)

func NewEngine(obsCfg observability.Config, log *zap.Logger, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obsmiddleware.GinMiddleware(log, obsmiddleware.MiddlewareConfig{
		Debug:           obsCfg.Debug(),
		ErrorClassifier: classifyErrorForLog,
	}))
	r.Use(obstracing.GinMiddleware())
	r.Use(obsmetrics.GinMiddleware(httpMetrics))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func run(lc fx.Lifecycle, cfg config.Config, r *gin.Engine, log *zap.Logger) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				log.Info("http server listening", zap.String("addr", srv.Addr))
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Fatal("http server failed", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine         *gin.Engine
	cfg            config.Config
	db             *gorm.DB
	verifier       *identity.Verifier
	issuer         *identity.Issuer
	genID          *snowflake.Node
	actorSvc       actordomain.Service
	affiliationSvc affiliationdomain.Service
}

type ServerParams struct {
	fx.In

	Gin            *gin.Engine
	Cfg            config.Config
	DB             *gorm.DB
	Verifier       *identity.Verifier
	Issuer         *identity.Issuer
	GenID          *snowflake.Node
	ActorSvc       actordomain.Service
	AffiliationSvc affiliationdomain.Service
}

func NewServer(p ServerParams) *Server {
	return &Server{
		engine:         p.Gin,
		cfg:            p.Cfg,
		db:             p.DB,
		verifier:       p.Verifier,
		issuer:         p.Issuer,
		genID:          p.GenID,
		actorSvc:       p.ActorSvc,
		affiliationSvc: p.AffiliationSvc,
	}
}

func registerRoutes(s *Server) {
	s.registerActorRoutes()
	s.registerAffiliationRoutes()
	s.registerDevRoutes()
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerActorRoutes() {
	workers := s.engine.Group("/workers", s.AuthRequired())
	{
		workers.POST("", s.RegisterWorker)
		workers.GET("/me", s.GetMyWorkerProfile)
	}

	agencies := s.engine.Group("/agencies", s.AuthRequired())
	{
		agencies.POST("", s.CreateAgency)
		agencies.GET("/me", s.GetMyAgencyProfile)
	}
}

func (s *Server) registerAffiliationRoutes() {
	requests := s.engine.Group("/worker-agency-requests", s.AuthRequired())

	worker := requests.Group("/worker")
	{
		worker.POST("/join-request", s.SubmitJoinRequest)
		worker.GET("/my-requests", s.ListWorkerRequests)
		worker.GET("/invitations", s.ListWorkerInvitations)
		worker.POST("/invitations/:id/respond", s.RespondToInvitation)
	}

	agency := requests.Group("/agency")
	{
		agency.POST("/send-invitation", s.SendInvitation)
		agency.GET("/pending-requests", s.ListAgencyPendingRequests)
		agency.GET("/sent-invitations", s.ListAgencySentInvitations)
		agency.POST("/requests/:id/respond", s.RespondToJoinRequest)
	}
}

func (s *Server) registerDevRoutes() {
	if s.cfg.IsProduction() {
		return
	}
	s.engine.POST("/dev/token", s.IssueDevToken)
}
