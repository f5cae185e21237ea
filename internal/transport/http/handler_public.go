package httptransport

import (
	"net/http"
	"strconv"
	"strings"

	apppublic "mastermind-arena/internal/app/public"
	"mastermind-arena/internal/store"

	"github.com/go-chi/chi/v5"
)

type PublicHandlers struct {
	publicSvc *apppublic.Service
	store     store.Store
}

func NewPublicHandlers(publicSvc *apppublic.Service, st store.Store) *PublicHandlers {
	return &PublicHandlers{publicSvc: publicSvc, store: st}
}

func (h *PublicHandlers) Health() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := h.store.Ping(r.Context()); err != nil {
			WriteJSON(w, http.StatusServiceUnavailable, map[string]any{"ok": false, "db": "down"})
			return
		}
		WriteJSON(w, http.StatusOK, map[string]any{"ok": true, "db": "up"})
	}
}

func (h *PublicHandlers) Leaderboard() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := 0
		if v := r.URL.Query().Get("limit"); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				limit = n
			}
		}
		resp, err := h.publicSvc.Leaderboard(r.Context(), r.URL.Query().Get("sort_by"), limit)
		if err != nil {
			WriteServiceError(w, err)
			return
		}
		WriteJSON(w, http.StatusOK, resp)
	}
}

func (h *PublicHandlers) Player() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		addr := strings.ToLower(chi.URLParam(r, "address"))
		prof, err := h.publicSvc.PlayerProfile(r.Context(), addr)
		if err != nil {
			WriteServiceError(w, err)
			return
		}
		WriteJSON(w, http.StatusOK, prof)
	}
}
