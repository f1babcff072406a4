package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/Suraj-070/worduel/internal/history"
	"github.com/Suraj-070/worduel/internal/hub"
)

type WordCounter interface {
	Count() int
}

type health struct {
	Status  string `json:"status"`
	Words   int    `json:"words"`
	Matches int    `json:"matches"`
	Lobbies int    `json:"lobbies"`
	Waiting int    `json:"waiting"`
}

func Healthz(h *hub.Hub, words WordCounter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		stats, err := h.Stats(ctx)
		if err != nil {
			writeJSON(w, http.StatusServiceUnavailable, health{Status: "unavailable", Words: words.Count()})
			return
		}
		writeJSON(w, http.StatusOK, health{
			Status:  "ok",
			Words:   words.Count(),
			Matches: stats.Matches,
			Lobbies: stats.Lobbies,
			Waiting: stats.Waiting,
		})
	}
}

func RecentMatches(store history.Store, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := history.DefaultLimit
		if raw := r.URL.Query().Get("limit"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil {
				http.Error(w, "limit must be a number", http.StatusBadRequest)
				return
			}
			limit = n
		}

		matches, err := store.Recent(r.Context(), limit)
		if err != nil {
			log.Error("load recent matches", zap.Error(err))
			http.Error(w, "failed to load matches", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, struct {
			Matches []history.Summary `json:"matches"`
		}{Matches: matches})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
