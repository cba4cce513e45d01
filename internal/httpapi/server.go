package httpapi

import (
	"go.uber.org/zap"

	"github.com/janbrzo/edooqoo/internal/store"
	"github.com/janbrzo/edooqoo/internal/worksheet"
)

// Server hosts the worksheet generation API.
type Server struct {
	router *Router
	addr   string
}

// New assembles the API server around the pipeline and store.
func New(addr string, pipeline *worksheet.Orchestrator, st *store.Store, cfg worksheet.Config, log *zap.Logger) *Server {
	h := NewWorksheetHandler(pipeline, st, cfg, log)
	return &Server{
		router: NewRouter(h, log),
		addr:   addr,
	}
}

// Run blocks serving HTTP on the configured address.
func (s *Server) Run() error {
	return s.router.Engine.Run(s.addr)
}
