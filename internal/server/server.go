// Package server exposes the import, review and posting use cases over
// HTTP with gin.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hance08/tally/internal/config"
	"github.com/hance08/tally/internal/logger"
	"github.com/hance08/tally/internal/service"
)

const shutdownTimeout = 10 * time.Second

type Server struct {
	svc    *service.Service
	cfg    config.ServerConfig
	log    logger.Logger
	engine *gin.Engine
}

func NewServer(svc *service.Service, cfg config.ServerConfig, log logger.Logger) *Server {
	switch cfg.Mode {
	case gin.DebugMode, gin.ReleaseMode, gin.TestMode:
		gin.SetMode(cfg.Mode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = config.NewDefault().Server.MaxUploadBytes
	}

	s := &Server{
		svc: svc,
		cfg: cfg,
		log: log.WithComponent("http"),
	}

	r := gin.New()
	r.Use(requestLogger(s.log), gin.Recovery())
	r.MaxMultipartMemory = cfg.MaxUploadBytes
	s.setupRoutes(r)
	s.engine = r

	return s
}

func (s *Server) setupRoutes(r *gin.Engine) {
	r.GET("/healthz", s.healthHandler)

	api := r.Group("/api")
	api.POST("/import-csv", s.importHandler)
	api.POST("/post-transactions", s.postHandler)
	api.POST("/reset-db", s.resetHandler)

	txns := api.Group("/bank-transactions")
	txns.GET("", s.listHandler)
	txns.POST("/approve-confident", s.approveConfidentHandler)
	txns.POST("/:id/approve", s.approveHandler)
	txns.POST("/:id/reject", s.rejectHandler)
}

func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves on cfg.Addr until ctx is cancelled, then drains in-flight
// requests.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Infof("listening on %s", s.cfg.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.log.Infof("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return nil
}
