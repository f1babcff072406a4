package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/Suraj-070/worduel/internal/history"
	"github.com/Suraj-070/worduel/internal/hub"
	"github.com/Suraj-070/worduel/internal/ws"
)

type Deps struct {
	Hub            *hub.Hub
	Words          WordCounter
	History        history.Store
	OriginPatterns []string
	Logger         *zap.Logger
}

func SetupRoutes(d Deps) http.Handler {
	log := d.Logger
	if log == nil {
		log = zap.NewNop()
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(log.Named("http")))
	r.Use(middleware.Recoverer)

	// Public routes
	r.Get("/healthz", Healthz(d.Hub, d.Words))
	r.Get("/matches/recent", RecentMatches(d.History, log))
	r.Get("/ws", ws.Handler(d.Hub, ws.Options{OriginPatterns: d.OriginPatterns, Logger: log}))
	return r
}
